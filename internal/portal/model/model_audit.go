package model

import (
	"time"

	"gorm.io/datatypes"
)

/**
 * @file: model_audit.go
 * @description: append-only audit log model
 */

type AuditLog struct {
	ID        uint64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AuditId   string            `gorm:"column:audit_id;uniqueIndex" json:"auditId"`
	UserId    string            `gorm:"column:user_id;index" json:"userId"`
	Action    string            `gorm:"column:action" json:"action"`
	Table     string            `gorm:"column:table_name" json:"tableName"`
	RecordId  string            `gorm:"column:record_id" json:"recordId"`
	OldValues datatypes.JSONMap `gorm:"column:old_values" json:"oldValues"`
	NewValues datatypes.JSONMap `gorm:"column:new_values" json:"newValues"`
	IpAddress string            `gorm:"column:ip_address" json:"ipAddress"`
	UserAgent string            `gorm:"column:user_agent" json:"userAgent"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "t_audit_log"
}

type AuditQuery struct {
	Pagination
	UserId    string `query:"userId"`
	Action    string `query:"action"`
	TableName string `query:"tableName"`
}
