package service

import (
	"math"
	"time"

	"github.com/go-portal/portal/internal/portal/consts"
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/internal/portal/repo"
	"github.com/go-portal/portal/pkg/apperr"
	"github.com/go-portal/portal/pkg/id"
)

/**
 * @file: service_blanchiment.go
 * @description: blanchiment operations and per-enterprise settings
 */

type BlanchimentService struct {
	blanchimentRepo repo.IBlanchimentRepository
	audit           *AuditService
}

func NewBlanchimentService(blanchimentRepo repo.IBlanchimentRepository, audit *AuditService) *BlanchimentService {
	return &BlanchimentService{blanchimentRepo: blanchimentRepo, audit: audit}
}

// GetSetting returns the enterprise setting, falling back to the global
// defaults when no row exists yet.
func (bs *BlanchimentService) GetSetting(enterpriseId string) (*model.BlanchimentSetting, error) {
	setting, err := bs.blanchimentRepo.GetSetting(enterpriseId)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return &model.BlanchimentSetting{
			EnterpriseId:      enterpriseId,
			IsEnabled:         true,
			UseGlobalSettings: true,
			EnterprisePerc:    model.DefaultEnterprisePerc,
			GroupPerc:         model.DefaultGroupPerc,
		}, nil
	}
	return setting, nil
}

// UpdateSetting applies the provided fields on top of the current (or
// default) setting. Percentages are bounded to 0-100.
func (bs *BlanchimentService) UpdateSetting(rc RecordCtx, enterpriseId string, req model.UpdateSettingReq) (*model.BlanchimentSetting, error) {
	setting, err := bs.GetSetting(enterpriseId)
	if err != nil {
		return nil, err
	}

	old := *setting

	if req.IsEnabled != nil {
		setting.IsEnabled = *req.IsEnabled
	}
	if req.UseGlobalSettings != nil {
		setting.UseGlobalSettings = *req.UseGlobalSettings
	}
	if req.EnterprisePerc != nil {
		setting.EnterprisePerc = *req.EnterprisePerc
	}
	if req.GroupPerc != nil {
		setting.GroupPerc = *req.GroupPerc
	}

	if setting.EnterprisePerc < 0 || setting.EnterprisePerc > 100 ||
		setting.GroupPerc < 0 || setting.GroupPerc > 100 {
		return nil, apperr.Validation("percentages must be between 0 and 100")
	}

	if setting.SettingId == "" {
		setting.SettingId = id.GetUUID()
	}
	if err := bs.blanchimentRepo.SaveSetting(setting); err != nil {
		return nil, err
	}

	bs.audit.Record(rc, consts.ActionUpdate, setting.TableName(), setting.SettingId,
		map[string]any{"enterprisePerc": old.EnterprisePerc, "groupPerc": old.GroupPerc, "isEnabled": old.IsEnabled},
		map[string]any{"enterprisePerc": setting.EnterprisePerc, "groupPerc": setting.GroupPerc, "isEnabled": setting.IsEnabled})

	return setting, nil
}

// durationDays computes whole days between receive and return, nil
// when either date is missing.
func durationDays(receive, ret *time.Time) *int {
	if receive == nil || ret == nil {
		return nil
	}
	days := int(math.Round(ret.Sub(*receive).Hours() / 24))
	return &days
}

func validateDates(receive, ret *time.Time) error {
	if receive != nil && ret != nil && ret.Before(*receive) {
		return apperr.Validation("return date must not be before receive date")
	}
	return nil
}

// CreateOperation opens a new operation. The percentage split is
// snapshotted from the enterprise setting at creation time.
func (bs *BlanchimentService) CreateOperation(rc RecordCtx, enterpriseId string, req model.AddOperationReq) (*model.BlanchimentOperation, error) {
	if req.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	if err := validateDates(req.ReceiveDate, req.ReturnDate); err != nil {
		return nil, err
	}

	setting, err := bs.GetSetting(enterpriseId)
	if err != nil {
		return nil, err
	}
	if !setting.IsEnabled {
		return nil, apperr.Validation("blanchiment is disabled for this enterprise")
	}

	op := &model.BlanchimentOperation{
		OperationId:    id.GetUUID(),
		EnterpriseId:   enterpriseId,
		CreatedBy:      rc.UserId,
		Status:         model.BlanchimentInProgress,
		ReceiveDate:    req.ReceiveDate,
		ReturnDate:     req.ReturnDate,
		DurationDays:   durationDays(req.ReceiveDate, req.ReturnDate),
		GroupName:      req.GroupName,
		EmployeeName:   req.EmployeeName,
		GiverId:        req.GiverId,
		ReceiverId:     req.ReceiverId,
		Amount:         req.Amount,
		EnterprisePerc: setting.EnterprisePerc,
		GroupPerc:      setting.GroupPerc,
	}
	if err := bs.blanchimentRepo.CreateOperation(op); err != nil {
		return nil, err
	}

	bs.audit.Record(rc, consts.ActionCreate, op.TableName(), op.OperationId,
		nil, map[string]any{
			"amount":    op.Amount,
			"groupName": op.GroupName,
		})

	return op, nil
}

func (bs *BlanchimentService) GetOperation(operationId string) (*model.BlanchimentOperation, error) {
	op, err := bs.blanchimentRepo.GetOperation(operationId)
	if err != nil {
		return nil, notFoundOr(err, "blanchiment operation not found")
	}
	return op, nil
}

func (bs *BlanchimentService) ListOperations(enterpriseId, status string, page model.Pagination) (*model.PageResult[model.BlanchimentOperation], error) {
	page.Normalize()
	ops, total, err := bs.blanchimentRepo.ListOperations(enterpriseId, status, page.Offset(), page.PageSize)
	if err != nil {
		return nil, err
	}
	return &model.PageResult[model.BlanchimentOperation]{List: ops, Total: total}, nil
}

func validOperationStatus(status string) bool {
	switch status {
	case model.BlanchimentInProgress, model.BlanchimentCompleted,
		model.BlanchimentSuspended, model.BlanchimentCancelled:
		return true
	}
	return false
}

// UpdateOperation changes status or dates. Duration is re-derived
// whenever both dates are known.
func (bs *BlanchimentService) UpdateOperation(rc RecordCtx, operationId string, req model.UpdateOperationReq) (*model.BlanchimentOperation, error) {
	op, err := bs.blanchimentRepo.GetOperation(operationId)
	if err != nil {
		return nil, notFoundOr(err, "blanchiment operation not found")
	}

	oldStatus := op.Status

	if req.Status != "" {
		if !validOperationStatus(req.Status) {
			return nil, apperr.Validation("invalid operation status")
		}
		op.Status = req.Status
	}
	if req.ReceiveDate != nil {
		op.ReceiveDate = req.ReceiveDate
	}
	if req.ReturnDate != nil {
		op.ReturnDate = req.ReturnDate
	}
	if err := validateDates(op.ReceiveDate, op.ReturnDate); err != nil {
		return nil, err
	}
	op.DurationDays = durationDays(op.ReceiveDate, op.ReturnDate)

	if err := bs.blanchimentRepo.UpdateOperation(operationId, op); err != nil {
		return nil, err
	}

	bs.audit.Record(rc, consts.ActionStatusChange, op.TableName(), operationId,
		map[string]any{"status": oldStatus},
		map[string]any{"status": op.Status})

	return op, nil
}

func (bs *BlanchimentService) DeleteOperation(rc RecordCtx, operationId string) error {
	op, err := bs.blanchimentRepo.GetOperation(operationId)
	if err != nil {
		return notFoundOr(err, "blanchiment operation not found")
	}

	if err := bs.blanchimentRepo.DeleteOperation(operationId); err != nil {
		return err
	}

	bs.audit.Record(rc, consts.ActionDelete, op.TableName(), operationId,
		map[string]any{"amount": op.Amount, "status": op.Status}, nil)

	return nil
}
