package model

import "time"

/**
 * @file: model_blanchiment.go
 * @description: blanchiment (laundering) tracking models
 */

// Blanchiment operation statuses.
const (
	BlanchimentInProgress = "in_progress"
	BlanchimentCompleted  = "completed"
	BlanchimentSuspended  = "suspended"
	BlanchimentCancelled  = "cancelled"
)

// Default percentage split between enterprise and group shares.
const (
	DefaultEnterprisePerc = 15.0
	DefaultGroupPerc      = 5.0
)

type BlanchimentSetting struct {
	BaseModel
	SettingId         string  `gorm:"column:setting_id;uniqueIndex" json:"settingId"`
	EnterpriseId      string  `gorm:"column:enterprise_id;uniqueIndex" json:"enterpriseId"`
	IsEnabled         bool    `gorm:"column:is_enabled;default:true" json:"isEnabled"`
	UseGlobalSettings bool    `gorm:"column:use_global_settings;default:true" json:"useGlobalSettings"`
	EnterprisePerc    float64 `gorm:"column:enterprise_perc;default:15" json:"enterprisePerc"`
	GroupPerc         float64 `gorm:"column:group_perc;default:5" json:"groupPerc"`
}

func (BlanchimentSetting) TableName() string {
	return "t_blanchiment_setting"
}

type BlanchimentOperation struct {
	BaseModel
	OperationId    string     `gorm:"column:operation_id;uniqueIndex" json:"operationId"`
	EnterpriseId   string     `gorm:"column:enterprise_id;index" json:"enterpriseId"`
	CreatedBy      string     `gorm:"column:created_by" json:"createdBy"`
	Status         string     `gorm:"column:status;default:in_progress" json:"status"`
	ReceiveDate    *time.Time `gorm:"column:receive_date" json:"receiveDate"`
	ReturnDate     *time.Time `gorm:"column:return_date" json:"returnDate"`
	DurationDays   *int       `gorm:"column:duration_days" json:"durationDays"`
	GroupName      string     `gorm:"column:group_name" json:"groupName"`
	EmployeeName   string     `gorm:"column:employee_name" json:"employeeName"`
	GiverId        string     `gorm:"column:giver_id" json:"giverId"`
	ReceiverId     string     `gorm:"column:receiver_id" json:"receiverId"`
	Amount         float64    `gorm:"column:amount" json:"amount"`
	EnterprisePerc float64    `gorm:"column:enterprise_perc" json:"enterprisePerc"`
	GroupPerc      float64    `gorm:"column:group_perc" json:"groupPerc"`
}

func (BlanchimentOperation) TableName() string {
	return "t_blanchiment_operation"
}

type AddOperationReq struct {
	GroupName    string     `json:"groupName"`
	EmployeeName string     `json:"employeeName"`
	GiverId      string     `json:"giverId"`
	ReceiverId   string     `json:"receiverId"`
	Amount       float64    `json:"amount"`
	ReceiveDate  *time.Time `json:"receiveDate"`
	ReturnDate   *time.Time `json:"returnDate"`
}

type UpdateOperationReq struct {
	Status      string     `json:"status"`
	ReceiveDate *time.Time `json:"receiveDate"`
	ReturnDate  *time.Time `json:"returnDate"`
}

type UpdateSettingReq struct {
	IsEnabled         *bool    `json:"isEnabled"`
	UseGlobalSettings *bool    `json:"useGlobalSettings"`
	EnterprisePerc    *float64 `json:"enterprisePerc"`
	GroupPerc         *float64 `json:"groupPerc"`
}
