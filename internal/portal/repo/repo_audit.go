package repo

import (
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/pkg/database"
)

type IAuditRepository interface {
	Add(entry *model.AuditLog) error
	List(q model.AuditQuery) ([]model.AuditLog, int64, error)
}

type AuditRepo struct {
	db         database.IDatabase
	auditModel *model.AuditLog
}

func NewAuditRepo(db database.IDatabase) IAuditRepository {
	return &AuditRepo{
		db:         db,
		auditModel: &model.AuditLog{},
	}
}

// Add appends one audit row. The log is append-only, no update or
// delete path exists.
func (ar *AuditRepo) Add(entry *model.AuditLog) error {
	return ar.db.Database().Create(entry).Error
}

func (ar *AuditRepo) List(q model.AuditQuery) ([]model.AuditLog, int64, error) {
	var (
		entries []model.AuditLog
		total   int64
	)

	q.Normalize()

	query := ar.db.Database().Table(ar.auditModel.TableName())
	if q.UserId != "" {
		query = query.Where("user_id = ?", q.UserId)
	}
	if q.Action != "" {
		query = query.Where("action = ?", q.Action)
	}
	if q.TableName != "" {
		query = query.Where("table_name = ?", q.TableName)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(q.Offset()).Limit(q.PageSize).Find(&entries).Error
	return entries, total, err
}
