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

type IEnterpriseRepository interface {
	Add(e *model.Enterprise) error
	Update(enterpriseId string, e *model.Enterprise) error
	GetByEnterpriseId(enterpriseId string) (*model.Enterprise, error)
	GetByGuildId(guildId string) (*model.Enterprise, error)
	FindFirstByGuildIds(guildIds []string) (*model.Enterprise, error)
	List(offset, pageSize int) ([]model.Enterprise, int64, error)
}

type EnterpriseRepo struct {
	db              database.IDatabase
	cache           cache.ICache
	enterpriseModel *model.Enterprise
}

func NewEnterpriseRepo(db database.IDatabase, cache cache.ICache) IEnterpriseRepository {
	return &EnterpriseRepo{
		db:              db,
		cache:           cache,
		enterpriseModel: &model.Enterprise{},
	}
}

func (er *EnterpriseRepo) Add(e *model.Enterprise) error {
	return er.db.Database().Create(e).Error
}

func (er *EnterpriseRepo) Update(enterpriseId string, e *model.Enterprise) error {
	old, err := er.GetByEnterpriseId(enterpriseId)
	if err != nil {
		return err
	}

	err = er.db.Database().Table(er.enterpriseModel.TableName()).
		Where("enterprise_id = ?", enterpriseId).
		Omit("enterprise_id", "created_at").
		Updates(e).Error
	if err != nil {
		return err
	}

	er.invalidateGuild(old.DiscordGuildId)
	if e.DiscordGuildId != "" && e.DiscordGuildId != old.DiscordGuildId {
		er.invalidateGuild(e.DiscordGuildId)
	}
	return nil
}

func (er *EnterpriseRepo) GetByEnterpriseId(enterpriseId string) (*model.Enterprise, error) {
	e := &model.Enterprise{}
	err := er.db.Database().Table(er.enterpriseModel.TableName()).
		Where("enterprise_id = ?", enterpriseId).First(e).Error
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByGuildId resolves an active enterprise by guild id, cache first.
// This runs on every login, so hits are cached for an hour; misses are
// not cached, a newly bound guild is visible on the next login.
func (er *EnterpriseRepo) GetByGuildId(guildId string) (*model.Enterprise, error) {
	ctx := context.Background()
	key := guildKey(guildId)

	if er.cache != nil {
		data, err := er.cache.Get(ctx, key).Result()
		if err == nil && data != "" {
			e := &model.Enterprise{}
			if err := sonic.UnmarshalString(data, e); err == nil {
				return e, nil
			}
			log.Warnw("failed to unmarshal cached enterprise", "guildId", guildId, "error", err)
		}
	}

	e := &model.Enterprise{}
	err := er.db.Database().Table(er.enterpriseModel.TableName()).
		Where("discord_guild_id = ? AND is_active = ?", guildId, true).First(e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if er.cache != nil {
		if data, err := sonic.MarshalString(e); err == nil {
			if err := er.cache.Set(ctx, key, data, time.Hour).Err(); err != nil {
				log.Warnw("failed to cache enterprise", "guildId", guildId, "error", err)
			}
		}
	}
	return e, nil
}

// FindFirstByGuildIds resolves the user's enterprise from their guild
// list, in provider-returned order.
func (er *EnterpriseRepo) FindFirstByGuildIds(guildIds []string) (*model.Enterprise, error) {
	for _, guildId := range guildIds {
		e, err := er.GetByGuildId(guildId)
		if err != nil {
			return nil, err
		}
		if e != nil {
			return e, nil
		}
	}
	return nil, nil
}

func guildKey(guildId string) string {
	return consts.EnterpriseKey + "guild:" + guildId
}

func (er *EnterpriseRepo) invalidateGuild(guildId string) {
	if er.cache == nil || guildId == "" {
		return
	}
	if err := er.cache.Del(context.Background(), guildKey(guildId)).Err(); err != nil {
		log.Warnw("failed to invalidate enterprise cache", "guildId", guildId, "error", err)
	}
}

func (er *EnterpriseRepo) List(offset, pageSize int) ([]model.Enterprise, int64, error) {
	var (
		enterprises []model.Enterprise
		total       int64
	)

	query := er.db.Database().Table(er.enterpriseModel.TableName())
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&enterprises).Error
	return enterprises, total, err
}
