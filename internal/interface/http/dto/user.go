package dto

// RegisterRequest HTTP层注册请求
// 说明：binding只做格式校验，用户名规则、密码强度由领域服务校验
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"reader01"`
	Email    string `json:"email" binding:"required,email" example:"reader01@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"secret123"`
	FullName string `json:"full_name" binding:"max=100" example:"读者一号"`
}

// LoginRequest 登录请求，login可以是邮箱或用户名
type LoginRequest struct {
	Login    string `json:"login" binding:"required,notblank" example:"reader01"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// UpdateProfileRequest 修改个人资料，空值表示不修改
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"max=100" example:"Alice Wang"`
	Email    string `json:"email" binding:"omitempty,email" example:"alice@example.com"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=20"`
}

// PageQuery 通用分页参数，0表示使用默认值
type PageQuery struct {
	Page     int `form:"page" example:"1"`
	PageSize int `form:"page_size" example:"12"`
}
