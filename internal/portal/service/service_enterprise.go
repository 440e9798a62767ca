package service

import (
	"github.com/go-portal/portal/internal/portal/consts"
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/internal/portal/repo"
	"github.com/go-portal/portal/pkg/apperr"
	"github.com/go-portal/portal/pkg/id"
)

/**
 * @file: service_enterprise.go
 * @description: enterprise (tenant) administration and member roles
 */

type EnterpriseService struct {
	enterpriseRepo repo.IEnterpriseRepository
	userRepo       repo.IUserRepository
	audit          *AuditService
}

func NewEnterpriseService(enterpriseRepo repo.IEnterpriseRepository, userRepo repo.IUserRepository,
	audit *AuditService) *EnterpriseService {
	return &EnterpriseService{
		enterpriseRepo: enterpriseRepo,
		userRepo:       userRepo,
		audit:          audit,
	}
}

func (es *EnterpriseService) Add(rc RecordCtx, req model.AddEnterpriseReq) (*model.Enterprise, error) {
	if req.Name == "" {
		return nil, apperr.Validation("enterprise name is required")
	}
	if req.DiscordGuildId == "" {
		return nil, apperr.Validation("guild id is required")
	}

	existing, err := es.enterpriseRepo.GetByGuildId(req.DiscordGuildId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("guild is already bound to an enterprise")
	}

	enterprise := &model.Enterprise{
		EnterpriseId:   id.GetUUID(),
		Name:           req.Name,
		DiscordGuildId: req.DiscordGuildId,
		StaffRoleId:    req.StaffRoleId,
		PatronRoleId:   req.PatronRoleId,
		CoPatronRoleId: req.CoPatronRoleId,
		DotRoleId:      req.DotRoleId,
		MemberRoleId:   req.MemberRoleId,
		IsActive:       true,
	}
	if err := es.enterpriseRepo.Add(enterprise); err != nil {
		return nil, err
	}

	es.audit.Record(rc, consts.ActionCreate, enterprise.TableName(), enterprise.EnterpriseId,
		nil, map[string]any{
			"name":    enterprise.Name,
			"guildId": enterprise.DiscordGuildId,
		})

	return enterprise, nil
}

func (es *EnterpriseService) Update(rc RecordCtx, enterpriseId string, req model.AddEnterpriseReq) (*model.Enterprise, error) {
	old, err := es.enterpriseRepo.GetByEnterpriseId(enterpriseId)
	if err != nil {
		return nil, notFoundOr(err, "enterprise not found")
	}

	update := &model.Enterprise{
		Name:           req.Name,
		DiscordGuildId: req.DiscordGuildId,
		StaffRoleId:    req.StaffRoleId,
		PatronRoleId:   req.PatronRoleId,
		CoPatronRoleId: req.CoPatronRoleId,
		DotRoleId:      req.DotRoleId,
		MemberRoleId:   req.MemberRoleId,
	}
	if err := es.enterpriseRepo.Update(enterpriseId, update); err != nil {
		return nil, err
	}

	es.audit.Record(rc, consts.ActionUpdate, old.TableName(), enterpriseId,
		map[string]any{"name": old.Name},
		map[string]any{"name": req.Name})

	return es.enterpriseRepo.GetByEnterpriseId(enterpriseId)
}

func (es *EnterpriseService) Get(enterpriseId string) (*model.Enterprise, error) {
	enterprise, err := es.enterpriseRepo.GetByEnterpriseId(enterpriseId)
	if err != nil {
		return nil, notFoundOr(err, "enterprise not found")
	}
	return enterprise, nil
}

func (es *EnterpriseService) List(page model.Pagination) (*model.PageResult[model.Enterprise], error) {
	page.Normalize()
	enterprises, total, err := es.enterpriseRepo.List(page.Offset(), page.PageSize)
	if err != nil {
		return nil, err
	}
	return &model.PageResult[model.Enterprise]{List: enterprises, Total: total}, nil
}

func (es *EnterpriseService) ListMembers(enterpriseId string, page model.Pagination) (*model.PageResult[model.UserInfo], error) {
	page.Normalize()
	users, total, err := es.userRepo.GetUserList(enterpriseId, page.Offset(), page.PageSize)
	if err != nil {
		return nil, err
	}

	infos := make([]model.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, users[i].Info())
	}
	return &model.PageResult[model.UserInfo]{List: infos, Total: total}, nil
}

// ChangeMemberRole sets a member's internal role directly. The next
// login re-derives it from the guild membership.
func (es *EnterpriseService) ChangeMemberRole(rc RecordCtx, userId, role string) error {
	valid := role == model.RoleEmployee
	for _, r := range model.RolePriority {
		if r == role {
			valid = true
		}
	}
	if !valid {
		return apperr.Validation("unknown role")
	}

	user, err := es.userRepo.GetByUserId(userId)
	if err != nil {
		return notFoundOr(err, "user not found")
	}

	if err := es.userRepo.UpdateRole(userId, role); err != nil {
		return err
	}

	es.audit.Record(rc, consts.ActionRoleChange, user.TableName(), userId,
		map[string]any{"role": user.Role},
		map[string]any{"role": role})

	return nil
}
