package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/sbooks/internal/application/user"
	"github.com/xiebiao/sbooks/internal/interface/http/dto"
	"github.com/xiebiao/sbooks/internal/interface/http/middleware"
	"github.com/xiebiao/sbooks/pkg/response"
)

// UserHandler 用户HTTP处理器
// Handler只负责解析请求、调用应用层、返回响应
type UserHandler struct {
	register       *appuser.RegisterUseCase
	login          *appuser.LoginUseCase
	logout         *appuser.LogoutUseCase
	profile        *appuser.GetProfileUseCase
	updateProfile  *appuser.UpdateProfileUseCase
	changePassword *appuser.ChangePasswordUseCase
	favorites      *appuser.ListMyFavoritesUseCase
	reviews        *appuser.ListMyReviewsUseCase
	searches       *appuser.ListMySearchesUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	register *appuser.RegisterUseCase,
	login *appuser.LoginUseCase,
	logout *appuser.LogoutUseCase,
	profile *appuser.GetProfileUseCase,
	updateProfile *appuser.UpdateProfileUseCase,
	changePassword *appuser.ChangePasswordUseCase,
	favorites *appuser.ListMyFavoritesUseCase,
	reviews *appuser.ListMyReviewsUseCase,
	searches *appuser.ListMySearchesUseCase,
) *UserHandler {
	return &UserHandler{
		register:       register,
		login:          login,
		logout:         logout,
		profile:        profile,
		updateProfile:  updateProfile,
		changePassword: changePassword,
		favorites:      favorites,
		reviews:        reviews,
		searches:       searches,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建新用户账号，默认角色User
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=appuser.UserInfo} "注册成功"
// @Failure      200 {object} response.Response "40900参数错误 / 40003邮箱已存在 / 40006用户名已存在"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	// 1. 绑定并验证参数
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	// 2. 调用应用层用例
	result, err := h.register.Execute(c.Request.Context(), appuser.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  邮箱或用户名 + 密码，返回JWT Token对
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse} "登录成功"
// @Failure      200 {object} response.Response "40103账号或密码错误 / 40105账号已停用"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.login.Execute(c.Request.Context(), appuser.LoginRequest{
		Login:    req.Login,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout 登出
// @Summary      登出
// @Description  删除会话并把当前Access Token加入黑名单
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.logout.Execute(c.Request.Context(), middleware.GetPrincipal(c), middleware.GetAccessToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Profile 个人主页
// @Summary      个人资料与统计
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.ProfileResponse}
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Profile(c *gin.Context) {
	result, err := h.profile.Execute(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateProfile 修改个人资料
// @Summary      修改姓名、邮箱
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "个人资料"
// @Success      200 {object} response.Response{data=appuser.UserInfo}
// @Router       /api/v1/users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	result, err := h.updateProfile.Execute(c.Request.Context(), appuser.UpdateProfileRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Actor:    middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChangePasswordRequest true "新旧密码"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "40103当前密码错误 / 40005密码强度不足"
// @Router       /api/v1/users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	err := h.changePassword.Execute(c.Request.Context(), appuser.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		Actor:           middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func historyRequest(c *gin.Context) (appuser.HistoryRequest, bool) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return appuser.HistoryRequest{}, false
	}
	return appuser.HistoryRequest{Page: q.Page, PageSize: q.PageSize, Actor: middleware.GetPrincipal(c)}, true
}

// MyFavorites 我的收藏
// @Summary      我的收藏（最近收藏在前）
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]catalog.BookCard}}
// @Router       /api/v1/users/me/favorites [get]
func (h *UserHandler) MyFavorites(c *gin.Context) {
	req, ok := historyRequest(c)
	if !ok {
		return
	}
	res, err := h.favorites.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, res.Items, res.Total, res.Page, res.PageSize)
}

// MyReviews 我的评论
// @Summary      我的评论（最新在前）
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appreview.UserReviewItem}}
// @Router       /api/v1/users/me/reviews [get]
func (h *UserHandler) MyReviews(c *gin.Context) {
	req, ok := historyRequest(c)
	if !ok {
		return
	}
	res, err := h.reviews.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, res.Items, res.Total, res.Page, res.PageSize)
}

// MySearches 我的搜索历史
// @Summary      搜索历史（最新在前）
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]audit.SearchLog}}
// @Router       /api/v1/users/me/searches [get]
func (h *UserHandler) MySearches(c *gin.Context) {
	req, ok := historyRequest(c)
	if !ok {
		return
	}
	res, err := h.searches.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, res.Items, res.Total, res.Page, res.PageSize)
}
