package consts

/**
 * @file: consts.go
 * @description: shared keys and audit action tags
 */

// Cache key prefixes.
const (
	UserInfoKey   = "portal:user:"
	EnterpriseKey = "portal:enterprise:"
	BracketsKey   = "portal:brackets:"
)

// Fiber locals keys.
const (
	LocalsClaims    = "claims"
	LocalsRequestId = "request_id"
	LocalsIp        = "ip"
)

// Audit action tags.
const (
	ActionLogin        = "LOGIN"
	ActionLogout       = "LOGOUT"
	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionBulkImport   = "BULK_IMPORT"
	ActionExport       = "EXPORT"
	ActionRoleChange   = "ROLE_CHANGE"
	ActionStatusChange = "STATUS_CHANGE"
)
