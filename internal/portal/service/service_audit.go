package service

import (
	"fmt"
	"time"

	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/internal/portal/repo"
	"github.com/go-portal/portal/pkg/id"
	"github.com/go-portal/portal/pkg/log"
	"github.com/go-portal/portal/pkg/safe"
	"gorm.io/datatypes"
)

/**
 * @file: service_audit.go
 * @description: best-effort audit trail recorder
 */

type AuditService struct {
	auditRepo repo.IAuditRepository
}

func NewAuditService(auditRepo repo.IAuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// RecordCtx carries the request metadata of an audited action.
type RecordCtx struct {
	UserId    string
	IpAddress string
	UserAgent string
}

// Record appends one audit entry asynchronously. Failures are logged
// and swallowed: the audit trail never blocks a business mutation.
func (as *AuditService) Record(rc RecordCtx, action, table, recordId string, oldValues, newValues map[string]any) {
	entry := &model.AuditLog{
		AuditId:   id.GetUUID(),
		UserId:    rc.UserId,
		Action:    action,
		Table:     table,
		RecordId:  recordId,
		OldValues: FlattenValues(oldValues),
		NewValues: FlattenValues(newValues),
		IpAddress: rc.IpAddress,
		UserAgent: rc.UserAgent,
	}

	safe.Go(func() {
		if err := as.auditRepo.Add(entry); err != nil {
			log.Errorw("failed to record audit entry",
				"action", action,
				"table", table,
				"recordId", recordId,
				"error", err,
			)
		}
	})
}

func (as *AuditService) List(q model.AuditQuery) (*model.PageResult[model.AuditLog], error) {
	entries, total, err := as.auditRepo.List(q)
	if err != nil {
		return nil, err
	}
	return &model.PageResult[model.AuditLog]{List: entries, Total: total}, nil
}

// FlattenValues makes a snapshot JSON-safe: times become RFC 3339
// strings, primitives pass through, anything else is stringified.
func FlattenValues(values map[string]any) datatypes.JSONMap {
	if values == nil {
		return nil
	}

	flat := make(datatypes.JSONMap, len(values))
	for key, value := range values {
		switch v := value.(type) {
		case nil:
			flat[key] = nil
		case time.Time:
			flat[key] = v.Format(time.RFC3339)
		case *time.Time:
			if v == nil {
				flat[key] = nil
			} else {
				flat[key] = v.Format(time.RFC3339)
			}
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			flat[key] = v
		default:
			flat[key] = fmt.Sprintf("%v", v)
		}
	}
	return flat
}
