package dto

// ListUsersQuery 用户列表参数
type ListUsersQuery struct {
	Keyword string `form:"keyword" example:"alice"`
	PageQuery
}

// UserStatusRequest 启用/停用用户
type UserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required" example:"false"`
}

// UserRolesRequest 分配角色（整体替换）
type UserRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,oneof=Admin User" example:"Admin,User"`
}
