package model

import (
	"time"
)

/**
 * @file: model_user.go
 * @description: user model and roles
 */

// Roles ordered by privilege, highest first.
const (
	RoleStaff    = "staff"
	RolePatron   = "patron"
	RoleCoPatron = "co-patron"
	RoleDot      = "dot"
	RoleEmployee = "employee"
)

// RolePriority lists roles from highest to lowest privilege. Role
// resolution walks this order and stops at the first match.
var RolePriority = []string{RoleStaff, RolePatron, RoleCoPatron, RoleDot}

// ManagerRoles can approve reports and manage enterprise data.
var ManagerRoles = []string{RoleStaff, RolePatron, RoleCoPatron}

// DotationRoles can create and edit dotation reports.
var DotationRoles = []string{RoleStaff, RolePatron, RoleCoPatron, RoleDot}

type User struct {
	BaseModel
	UserId       string     `gorm:"column:user_id;uniqueIndex" json:"userId"`
	DiscordId    string     `gorm:"column:discord_id;uniqueIndex" json:"discordId"`
	Username     string     `gorm:"column:username" json:"username"`
	Email        string     `gorm:"column:email" json:"email"`
	AvatarUrl    string     `gorm:"column:avatar_url" json:"avatarUrl"`
	Role         string     `gorm:"column:role;default:employee" json:"role"`
	EnterpriseId string     `gorm:"column:enterprise_id" json:"enterpriseId"`
	IsActive     bool       `gorm:"column:is_active;default:true" json:"isActive"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"lastLogin"`
}

func (User) TableName() string {
	return "t_user"
}

type UserInfo struct {
	UserId       string `json:"userId"`
	DiscordId    string `json:"discordId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	AvatarUrl    string `json:"avatarUrl"`
	Role         string `json:"role"`
	EnterpriseId string `json:"enterpriseId"`
	IsActive     bool   `json:"isActive"`
}

type LoginResp struct {
	UserInfo UserInfo          `json:"userInfo"`
	Token    map[string]string `json:"token"`
}

// Info projects the persisted user into its API shape.
func (u *User) Info() UserInfo {
	return UserInfo{
		UserId:       u.UserId,
		DiscordId:    u.DiscordId,
		Username:     u.Username,
		Email:        u.Email,
		AvatarUrl:    u.AvatarUrl,
		Role:         u.Role,
		EnterpriseId: u.EnterpriseId,
		IsActive:     u.IsActive,
	}
}
