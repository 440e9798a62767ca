package model

/**
 * @file: model_enterprise.go
 * @description: enterprise (tenant) model
 */

type Enterprise struct {
	BaseModel
	EnterpriseId   string `gorm:"column:enterprise_id;uniqueIndex" json:"enterpriseId"`
	Name           string `gorm:"column:name;uniqueIndex" json:"name"`
	DiscordGuildId string `gorm:"column:discord_guild_id;uniqueIndex" json:"discordGuildId"`
	StaffRoleId    string `gorm:"column:staff_role_id" json:"staffRoleId"`
	PatronRoleId   string `gorm:"column:patron_role_id" json:"patronRoleId"`
	CoPatronRoleId string `gorm:"column:co_patron_role_id" json:"coPatronRoleId"`
	DotRoleId      string `gorm:"column:dot_role_id" json:"dotRoleId"`
	MemberRoleId   string `gorm:"column:member_role_id" json:"memberRoleId"`
	IsActive       bool   `gorm:"column:is_active;default:true" json:"isActive"`
}

func (Enterprise) TableName() string {
	return "t_enterprise"
}

// TierRoleIds returns the configured external role ids paired with the
// internal role each one grants, highest privilege first.
func (e *Enterprise) TierRoleIds() []struct{ ExternalId, Role string } {
	return []struct{ ExternalId, Role string }{
		{e.StaffRoleId, RoleStaff},
		{e.PatronRoleId, RolePatron},
		{e.CoPatronRoleId, RoleCoPatron},
		{e.DotRoleId, RoleDot},
	}
}

type AddEnterpriseReq struct {
	Name           string `json:"name"`
	DiscordGuildId string `json:"discordGuildId"`
	StaffRoleId    string `json:"staffRoleId"`
	PatronRoleId   string `json:"patronRoleId"`
	CoPatronRoleId string `json:"coPatronRoleId"`
	DotRoleId      string `json:"dotRoleId"`
	MemberRoleId   string `json:"memberRoleId"`
}
