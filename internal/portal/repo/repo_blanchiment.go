package repo

import (
	"errors"

	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/pkg/database"
	"gorm.io/gorm"
)

type IBlanchimentRepository interface {
	GetSetting(enterpriseId string) (*model.BlanchimentSetting, error)
	SaveSetting(s *model.BlanchimentSetting) error
	CreateOperation(op *model.BlanchimentOperation) error
	GetOperation(operationId string) (*model.BlanchimentOperation, error)
	ListOperations(enterpriseId, status string, offset, pageSize int) ([]model.BlanchimentOperation, int64, error)
	UpdateOperation(operationId string, op *model.BlanchimentOperation) error
	DeleteOperation(operationId string) error
}

type BlanchimentRepo struct {
	db             database.IDatabase
	settingModel   *model.BlanchimentSetting
	operationModel *model.BlanchimentOperation
}

func NewBlanchimentRepo(db database.IDatabase) IBlanchimentRepository {
	return &BlanchimentRepo{
		db:             db,
		settingModel:   &model.BlanchimentSetting{},
		operationModel: &model.BlanchimentOperation{},
	}
}

// GetSetting returns the enterprise setting row, nil when none exists
// yet (callers fall back to the global defaults).
func (br *BlanchimentRepo) GetSetting(enterpriseId string) (*model.BlanchimentSetting, error) {
	s := &model.BlanchimentSetting{}
	err := br.db.Database().Table(br.settingModel.TableName()).
		Where("enterprise_id = ?", enterpriseId).First(s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (br *BlanchimentRepo) SaveSetting(s *model.BlanchimentSetting) error {
	if s.ID == 0 {
		return br.db.Database().Create(s).Error
	}
	return br.db.Database().Table(br.settingModel.TableName()).
		Where("enterprise_id = ?", s.EnterpriseId).
		Omit("setting_id", "enterprise_id", "created_at").
		Updates(map[string]any{
			"is_enabled":          s.IsEnabled,
			"use_global_settings": s.UseGlobalSettings,
			"enterprise_perc":     s.EnterprisePerc,
			"group_perc":          s.GroupPerc,
		}).Error
}

func (br *BlanchimentRepo) CreateOperation(op *model.BlanchimentOperation) error {
	return br.db.Database().Create(op).Error
}

func (br *BlanchimentRepo) GetOperation(operationId string) (*model.BlanchimentOperation, error) {
	op := &model.BlanchimentOperation{}
	err := br.db.Database().Table(br.operationModel.TableName()).
		Where("operation_id = ?", operationId).First(op).Error
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (br *BlanchimentRepo) ListOperations(enterpriseId, status string, offset, pageSize int) ([]model.BlanchimentOperation, int64, error) {
	var (
		ops   []model.BlanchimentOperation
		total int64
	)

	query := br.db.Database().Table(br.operationModel.TableName())
	if enterpriseId != "" {
		query = query.Where("enterprise_id = ?", enterpriseId)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&ops).Error
	return ops, total, err
}

// UpdateOperation writes the mutable fields explicitly so cleared
// dates and a reset duration persist.
func (br *BlanchimentRepo) UpdateOperation(operationId string, op *model.BlanchimentOperation) error {
	return br.db.Database().Table(br.operationModel.TableName()).
		Where("operation_id = ?", operationId).
		Updates(map[string]any{
			"status":        op.Status,
			"receive_date":  op.ReceiveDate,
			"return_date":   op.ReturnDate,
			"duration_days": op.DurationDays,
		}).Error
}

func (br *BlanchimentRepo) DeleteOperation(operationId string) error {
	return br.db.Database().Table(br.operationModel.TableName()).
		Where("operation_id = ?", operationId).
		Delete(&model.BlanchimentOperation{}).Error
}
