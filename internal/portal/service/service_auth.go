package service

import (
	"context"
	"time"

	"github.com/go-portal/portal/internal/portal/consts"
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/internal/portal/repo"
	"github.com/go-portal/portal/pkg/apperr"
	"github.com/go-portal/portal/pkg/discord"
	"github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/jwt"
	"github.com/go-portal/portal/pkg/id"
	"github.com/go-portal/portal/pkg/log"
)

/**
 * @file: service_auth.go
 * @description: Discord login flow, role resolution and sessions
 */

type AuthService struct {
	userRepo       repo.IUserRepository
	enterpriseRepo repo.IEnterpriseRepository
	discord        *discord.Client
	auth           http.Auth
	audit          *AuditService
}

func NewAuthService(userRepo repo.IUserRepository, enterpriseRepo repo.IEnterpriseRepository,
	dc *discord.Client, auth http.Auth, audit *AuditService) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		enterpriseRepo: enterpriseRepo,
		discord:        dc,
		auth:           auth,
		audit:          audit,
	}
}

// LoginURL returns the provider authorization URL for the given state.
func (as *AuthService) LoginURL(state string) string {
	return as.discord.AuthURL(state)
}

// DetermineRole maps a guild membership to an internal role. The
// enterprise's tier role ids are checked highest privilege first; a
// missing membership or no tier match grants employee.
func DetermineRole(member *discord.GuildMember, enterprise *model.Enterprise) string {
	if member == nil || enterprise == nil {
		return model.RoleEmployee
	}

	memberRoles := make(map[string]struct{}, len(member.Roles))
	for _, roleId := range member.Roles {
		memberRoles[roleId] = struct{}{}
	}

	for _, tier := range enterprise.TierRoleIds() {
		if tier.ExternalId == "" {
			continue
		}
		if _, ok := memberRoles[tier.ExternalId]; ok {
			return tier.Role
		}
	}
	return model.RoleEmployee
}

// HandleCallback completes the OAuth flow: exchanges the code, loads
// the profile and guild list, resolves the enterprise and role, then
// upserts the user and issues a token pair. Any provider failure before
// the upsert leaves the user table untouched.
func (as *AuthService) HandleCallback(ctx context.Context, code string, rc RecordCtx) (*model.LoginResp, error) {
	if code == "" {
		return nil, apperr.Validation("authorization code is required")
	}

	token, err := as.discord.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := as.discord.GetProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}
	if profile.ID == "" {
		return nil, apperr.OAuth("provider returned an empty profile", nil)
	}

	guilds := as.discord.GetGuilds(ctx, token.AccessToken)
	guildIds := make([]string, 0, len(guilds))
	for _, g := range guilds {
		guildIds = append(guildIds, g.ID)
	}

	enterprise, err := as.enterpriseRepo.FindFirstByGuildIds(guildIds)
	if err != nil {
		return nil, err
	}

	role := model.RoleEmployee
	enterpriseId := ""
	if enterprise != nil {
		enterpriseId = enterprise.EnterpriseId
		member, err := as.discord.GetGuildMember(ctx, enterprise.DiscordGuildId, profile.ID)
		if err != nil {
			return nil, err
		}
		role = DetermineRole(member, enterprise)
	}

	user, err := as.upsertUser(profile, role, enterpriseId)
	if err != nil {
		return nil, err
	}

	aToken, rToken, err := jwt.GenToken(user.UserId, user.Role,
		[]byte(as.auth.SecretKey), as.auth.AccessExpire, as.auth.RefreshExpire)
	if err != nil {
		return nil, err
	}

	rc.UserId = user.UserId
	as.audit.Record(rc, consts.ActionLogin, user.TableName(), user.UserId,
		nil, map[string]any{
			"username":     user.Username,
			"role":         user.Role,
			"enterpriseId": user.EnterpriseId,
		})

	return &model.LoginResp{
		UserInfo: user.Info(),
		Token: map[string]string{
			"accessToken":  aToken,
			"refreshToken": rToken,
		},
	}, nil
}

// upsertUser creates a new user on first login or refreshes profile,
// role and last login on a returning one.
func (as *AuthService) upsertUser(profile *discord.Profile, role, enterpriseId string) (*model.User, error) {
	username := profile.GlobalName
	if username == "" {
		username = profile.Username
	}
	now := time.Now()

	existing, err := as.userRepo.GetByDiscordId(profile.ID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		// New users are persisted with the default role first, then
		// corrected to the derived role within the same login flow.
		user := &model.User{
			UserId:       id.GetUUID(),
			DiscordId:    profile.ID,
			Username:     username,
			Email:        profile.Email,
			AvatarUrl:    avatarURL(profile),
			Role:         model.RoleEmployee,
			EnterpriseId: enterpriseId,
			IsActive:     true,
			LastLogin:    &now,
		}
		if err := as.userRepo.AddUser(user); err != nil {
			return nil, err
		}
		if role != model.RoleEmployee {
			if err := as.userRepo.UpdateRole(user.UserId, role); err != nil {
				return nil, err
			}
			user.Role = role
		}
		log.Infow("registered user", "userId", user.UserId, "role", role)
		return user, nil
	}

	update := &model.User{
		Username:     username,
		Email:        profile.Email,
		AvatarUrl:    avatarURL(profile),
		Role:         role,
		EnterpriseId: enterpriseId,
		LastLogin:    &now,
	}
	if err := as.userRepo.UpdateUser(existing.UserId, update); err != nil {
		return nil, err
	}

	existing.Username = username
	existing.Email = profile.Email
	existing.AvatarUrl = update.AvatarUrl
	existing.Role = role
	existing.EnterpriseId = enterpriseId
	existing.LastLogin = &now
	return existing, nil
}

func avatarURL(profile *discord.Profile) string {
	if profile.Avatar == "" {
		return ""
	}
	return "https://cdn.discordapp.com/avatars/" + profile.ID + "/" + profile.Avatar + ".png"
}

// Refresh exchanges a valid refresh token for a new token pair. The
// user must still exist and be active.
func (as *AuthService) Refresh(rToken string) (map[string]string, error) {
	claims, err := jwt.ParseToken(rToken, as.auth.SecretKey)
	if err != nil {
		return nil, apperr.Authentication("invalid refresh token")
	}

	user, err := as.userRepo.GetByUserId(claims.UserId)
	if err != nil || !user.IsActive {
		return nil, apperr.Authentication("user is not active")
	}

	tokens, err := jwt.RefreshToken(&as.auth, rToken)
	if err != nil {
		return nil, apperr.Authentication(err.Error())
	}
	return tokens, nil
}

// Logout is a client-side token deletion; only the audit entry is
// server-side.
func (as *AuthService) Logout(rc RecordCtx) {
	as.audit.Record(rc, consts.ActionLogout, (&model.User{}).TableName(), rc.UserId, nil, nil)
}

// Me returns the authenticated user's projection, cache first.
func (as *AuthService) Me(userId string) (*model.UserInfo, error) {
	info, err := as.userRepo.FetchUserInfo(userId)
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return info, nil
}
