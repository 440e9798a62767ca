package repo

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-portal/portal/internal/portal/consts"
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/pkg/cache"
	"github.com/go-portal/portal/pkg/database"
	"github.com/go-portal/portal/pkg/log"
	"gorm.io/gorm"
)

type IUserRepository interface {
	GetByDiscordId(discordId string) (*model.User, error)
	GetByUserId(userId string) (*model.User, error)
	AddUser(u *model.User) error
	UpdateUser(userId string, u *model.User) error
	UpdateRole(userId, role string) error
	FetchUserInfo(userId string) (*model.UserInfo, error)
	GetUserList(enterpriseId string, offset, pageSize int) ([]model.User, int64, error)
}

type UserRepo struct {
	db        database.IDatabase
	cache     cache.ICache
	userModel *model.User
}

func NewUserRepo(db database.IDatabase, cache cache.ICache) IUserRepository {
	return &UserRepo{
		db:        db,
		cache:     cache,
		userModel: &model.User{},
	}
}

func (ur *UserRepo) GetByDiscordId(discordId string) (*model.User, error) {
	u := &model.User{}
	err := ur.db.Database().Table(ur.userModel.TableName()).
		Where("discord_id = ?", discordId).First(u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (ur *UserRepo) GetByUserId(userId string) (*model.User, error) {
	u := &model.User{}
	err := ur.db.Database().Table(ur.userModel.TableName()).
		Where("user_id = ?", userId).First(u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (ur *UserRepo) AddUser(u *model.User) error {
	return ur.db.Database().Create(u).Error
}

// UpdateUser updates profile fields (user_id, discord_id, created_at cannot be updated).
func (ur *UserRepo) UpdateUser(userId string, u *model.User) error {
	err := ur.db.Database().Table(ur.userModel.TableName()).
		Where("user_id = ?", userId).
		Omit("user_id", "discord_id", "created_at").
		Updates(u).Error
	if err != nil {
		return err
	}
	ur.invalidateUserInfo(userId)
	return nil
}

func (ur *UserRepo) UpdateRole(userId, role string) error {
	err := ur.db.Database().Table(ur.userModel.TableName()).
		Where("user_id = ?", userId).
		Update("role", role).Error
	if err != nil {
		return err
	}
	ur.invalidateUserInfo(userId)
	return nil
}

// FetchUserInfo reads the user projection, cache first.
func (ur *UserRepo) FetchUserInfo(userId string) (*model.UserInfo, error) {
	ctx := context.Background()
	key := consts.UserInfoKey + userId
	u := &model.UserInfo{UserId: userId}

	if ur.cache != nil {
		userInfoStr, err := ur.cache.Get(ctx, key).Result()
		if err == nil && userInfoStr != "" {
			if err := sonic.UnmarshalString(userInfoStr, u); err != nil {
				log.Errorw("failed to unmarshal cached user info", "userId", userId, "error", err)
			} else {
				return u, nil
			}
		}
	}

	var row model.User
	err := ur.db.Database().Table(ur.userModel.TableName()).
		Where("user_id = ?", userId).First(&row).Error
	if err != nil {
		return nil, err
	}
	info := row.Info()

	if ur.cache != nil {
		userInfoJson, err := sonic.MarshalString(&info)
		if err != nil {
			log.Errorw("failed to marshal user info", "userId", userId, "error", err)
		} else {
			if err := ur.cache.Set(ctx, key, userInfoJson, time.Hour).Err(); err != nil {
				log.Errorw("failed to cache user info", "userId", userId, "error", err)
			}
		}
	}

	return &info, nil
}

func (ur *UserRepo) GetUserList(enterpriseId string, offset, pageSize int) ([]model.User, int64, error) {
	var (
		users []model.User
		total int64
	)

	query := ur.db.Database().Table(ur.userModel.TableName())
	if enterpriseId != "" {
		query = query.Where("enterprise_id = ?", enterpriseId)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&users).Error
	return users, total, err
}

func (ur *UserRepo) invalidateUserInfo(userId string) {
	if ur.cache == nil {
		return
	}
	if err := ur.cache.Del(context.Background(), consts.UserInfoKey+userId).Err(); err != nil {
		log.Warnw("failed to invalidate user info cache", "userId", userId, "error", err)
	}
}
