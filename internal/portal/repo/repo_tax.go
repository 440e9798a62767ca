package repo

import (
	"context"
	"fmt"

	"github.com/go-portal/portal/internal/portal/consts"
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/pkg/cache"
	"github.com/go-portal/portal/pkg/database"
	"github.com/go-portal/portal/pkg/log"
)

type ITaxRepository interface {
	ListBrackets(bracketType string) ([]model.TaxBracket, error)
	AddBracket(b *model.TaxBracket) error
	UpdateBracket(bracketId string, b *model.TaxBracket) error
	DeleteBracket(bracketId string) error
	CountBrackets() (int64, error)
	SeedBrackets(brackets []model.TaxBracket) error
	CreateDeclaration(d *model.TaxDeclaration) error
	GetDeclaration(declarationId string) (*model.TaxDeclaration, error)
	ListDeclarations(enterpriseId, status string, offset, pageSize int) ([]model.TaxDeclaration, int64, error)
	UpdateDeclarationStatus(declarationId, status string) error
}

type TaxRepo struct {
	db               database.IDatabase
	cache            cache.ICache
	bracketModel     *model.TaxBracket
	declarationModel *model.TaxDeclaration
}

func NewTaxRepo(db database.IDatabase, cache cache.ICache) ITaxRepository {
	return &TaxRepo{
		db:               db,
		cache:            cache,
		bracketModel:     &model.TaxBracket{},
		declarationModel: &model.TaxDeclaration{},
	}
}

// ListBrackets returns active brackets of a type ordered ascending by
// minimum, the order the calculator scans them in. The per-type list
// is cached through the shared cache-aside helper.
func (tr *TaxRepo) ListBrackets(bracketType string) ([]model.TaxBracket, error) {
	cq := cache.NewCachedQuery[[]model.TaxBracket](
		tr.cache,
		func(params ...any) string { return fmt.Sprintf("%s%v", consts.BracketsKey, params[0]) },
		func(ctx context.Context) ([]model.TaxBracket, error) {
			var brackets []model.TaxBracket
			err := tr.db.Database().Table(tr.bracketModel.TableName()).
				Where("bracket_type = ? AND is_active = ?", bracketType, true).
				Order("min_amount ASC").Find(&brackets).Error
			return brackets, err
		},
		cache.WithLogPrefix[[]model.TaxBracket]("[brackets]"),
	)
	return cq.Get(context.Background(), bracketType)
}

func (tr *TaxRepo) AddBracket(b *model.TaxBracket) error {
	if err := tr.db.Database().Create(b).Error; err != nil {
		return err
	}
	tr.invalidateBrackets(b.BracketType)
	return nil
}

func (tr *TaxRepo) UpdateBracket(bracketId string, b *model.TaxBracket) error {
	err := tr.db.Database().Table(tr.bracketModel.TableName()).
		Where("bracket_id = ?", bracketId).
		Omit("bracket_id", "created_at").
		Updates(b).Error
	if err != nil {
		return err
	}
	tr.invalidateBrackets(b.BracketType)
	return nil
}

func (tr *TaxRepo) DeleteBracket(bracketId string) error {
	b := &model.TaxBracket{}
	if err := tr.db.Database().Table(tr.bracketModel.TableName()).
		Where("bracket_id = ?", bracketId).First(b).Error; err != nil {
		return err
	}
	err := tr.db.Database().Table(tr.bracketModel.TableName()).
		Where("bracket_id = ?", bracketId).
		Delete(&model.TaxBracket{}).Error
	if err != nil {
		return err
	}
	tr.invalidateBrackets(b.BracketType)
	return nil
}

func (tr *TaxRepo) CountBrackets() (int64, error) {
	var total int64
	err := tr.db.Database().Table(tr.bracketModel.TableName()).Count(&total).Error
	return total, err
}

func (tr *TaxRepo) SeedBrackets(brackets []model.TaxBracket) error {
	return tr.db.Database().Create(&brackets).Error
}

func (tr *TaxRepo) CreateDeclaration(d *model.TaxDeclaration) error {
	return tr.db.Database().Create(d).Error
}

func (tr *TaxRepo) GetDeclaration(declarationId string) (*model.TaxDeclaration, error) {
	d := &model.TaxDeclaration{}
	err := tr.db.Database().Table(tr.declarationModel.TableName()).
		Where("declaration_id = ?", declarationId).First(d).Error
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (tr *TaxRepo) ListDeclarations(enterpriseId, status string, offset, pageSize int) ([]model.TaxDeclaration, int64, error) {
	var (
		declarations []model.TaxDeclaration
		total        int64
	)

	query := tr.db.Database().Table(tr.declarationModel.TableName())
	if enterpriseId != "" {
		query = query.Where("enterprise_id = ?", enterpriseId)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&declarations).Error
	return declarations, total, err
}

func (tr *TaxRepo) UpdateDeclarationStatus(declarationId, status string) error {
	return tr.db.Database().Table(tr.declarationModel.TableName()).
		Where("declaration_id = ?", declarationId).
		Update("status", status).Error
}

func (tr *TaxRepo) invalidateBrackets(bracketType string) {
	if tr.cache == nil {
		return
	}
	key := fmt.Sprintf("%s%s", consts.BracketsKey, bracketType)
	if err := tr.cache.Del(context.Background(), key).Err(); err != nil {
		log.Warnw("failed to invalidate bracket cache", "type", bracketType, "error", err)
	}
}
