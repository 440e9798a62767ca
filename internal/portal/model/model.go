package model

import "time"

/**
 * @file: model.go
 * @description: base model
 */

type BaseModel struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Report and declaration lifecycle statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Pagination is the common list query shape.
type Pagination struct {
	PageNum  int `json:"pageNum" query:"pageNum"`
	PageSize int `json:"pageSize" query:"pageSize"`
}

func (p *Pagination) Normalize() {
	if p.PageNum <= 0 {
		p.PageNum = 1
	}
	if p.PageSize <= 0 || p.PageSize > 200 {
		p.PageSize = 20
	}
}

func (p *Pagination) Offset() int {
	return (p.PageNum - 1) * p.PageSize
}

// PageResult wraps a page of rows with the total row count.
type PageResult[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
}
