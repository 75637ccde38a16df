package handler

import (
	"github.com/gin-gonic/gin"

	appadmin "github.com/xiebiao/sbooks/internal/application/admin"
	appbook "github.com/xiebiao/sbooks/internal/application/book"
	"github.com/xiebiao/sbooks/internal/interface/http/dto"
	"github.com/xiebiao/sbooks/internal/interface/http/middleware"
	"github.com/xiebiao/sbooks/pkg/response"
)

// AdminHandler 管理后台（需要Admin角色）
type AdminHandler struct {
	books      *appbook.ManageBookUseCase
	authors    *appadmin.ManageAuthorUseCase
	publishers *appadmin.ManagePublisherUseCase
	users      *appadmin.ManageUserUseCase
	dashboard  *appadmin.DashboardUseCase
}

func NewAdminHandler(
	books *appbook.ManageBookUseCase,
	authors *appadmin.ManageAuthorUseCase,
	publishers *appadmin.ManagePublisherUseCase,
	users *appadmin.ManageUserUseCase,
	dashboard *appadmin.DashboardUseCase,
) *AdminHandler {
	return &AdminHandler{books: books, authors: authors, publishers: publishers, users: users, dashboard: dashboard}
}

func bookRequest(req dto.BookRequest) appbook.BookRequest {
	return appbook.BookRequest{
		Title:         req.Title,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
		Genre:         req.Genre,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		AuthorID:      req.AuthorID,
		PublisherID:   req.PublisherID,
	}
}

// CreateBook 新增图书
// @Summary      新增图书
// @Tags         管理后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookInfo}
// @Router       /api/v1/admin/books [post]
func (h *AdminHandler) CreateBook(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.books.Create(c.Request.Context(), middleware.GetPrincipal(c), bookRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Tags         管理后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int             true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookInfo}
// @Router       /api/v1/admin/books/{id} [put]
func (h *AdminHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.books.Update(c.Request.Context(), middleware.GetPrincipal(c), id, bookRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// DeleteBook 删除图书
// @Summary      删除图书（连同评论、投票、收藏）
// @Tags         管理后台
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/admin/books/{id} [delete]
func (h *AdminHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.books.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateAuthor 新增作者
// @Summary      新增作者
// @Tags         管理后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AuthorRequest true "作者信息"
// @Success      200 {object} response.Response{data=appcatalog.AuthorItem}
// @Router       /api/v1/admin/authors [post]
func (h *AdminHandler) CreateAuthor(c *gin.Context) {
	var req dto.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.authors.Create(c.Request.Context(), middleware.GetPrincipal(c), appadmin.AuthorRequest{Name: req.Name, Bio: req.Bio})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateAuthor 修改作者
// @Summary      修改作者
// @Tags         管理后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int               true "作者ID"
// @Param        request body dto.AuthorRequest true "作者信息"
// @Success      200 {object} response.Response{data=appcatalog.AuthorItem}
// @Router       /api/v1/admin/authors/{id} [put]
func (h *AdminHandler) UpdateAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.authors.Update(c.Request.Context(), middleware.GetPrincipal(c), id, appadmin.AuthorRequest{Name: req.Name, Bio: req.Bio})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// DeleteAuthor 删除作者
// @Summary      删除作者（有图书引用时返回40010）
// @Tags         管理后台
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/admin/authors/{id} [delete]
func (h *AdminHandler) DeleteAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.authors.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreatePublisher 新增出版社
// @Summary      新增出版社
// @Tags         管理后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublisherRequest true "出版社信息"
// @Success      200 {object} response.Response{data=appcatalog.PublisherItem}
// @Router       /api/v1/admin/publishers [post]
func (h *AdminHandler) CreatePublisher(c *gin.Context) {
	var req dto.PublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.publishers.Create(c.Request.Context(), middleware.GetPrincipal(c), appadmin.PublisherRequest{Name: req.Name, Website: req.Website})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdatePublisher 修改出版社
// @Summary      修改出版社
// @Tags         管理后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                  true "出版社ID"
// @Param        request body dto.PublisherRequest true "出版社信息"
// @Success      200 {object} response.Response{data=appcatalog.PublisherItem}
// @Router       /api/v1/admin/publishers/{id} [put]
func (h *AdminHandler) UpdatePublisher(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.publishers.Update(c.Request.Context(), middleware.GetPrincipal(c), id, appadmin.PublisherRequest{Name: req.Name, Website: req.Website})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// DeletePublisher 删除出版社
// @Summary      删除出版社（有图书引用时返回40010）
// @Tags         管理后台
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "出版社ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/admin/publishers/{id} [delete]
func (h *AdminHandler) DeletePublisher(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.publishers.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListUsers 用户列表
// @Summary      用户列表
// @Tags         管理后台
// @Produce      json
// @Security     BearerAuth
// @Param        keyword   query string false "用户名或邮箱"
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appuser.UserInfo}}
// @Router       /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q dto.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.users.List(c.Request.Context(), middleware.GetPrincipal(c), appadmin.ListUsersRequest{
		Keyword:  q.Keyword,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, res.Items, res.Total, res.Page, res.PageSize)
}

// SetUserStatus 启用/停用用户
// @Summary      启用或停用用户
// @Tags         管理后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "用户ID"
// @Param        request body dto.UserStatusRequest true "状态"
// @Success      200 {object} response.Response
// @Router       /api/v1/admin/users/{id}/status [put]
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := h.users.SetActive(c.Request.Context(), middleware.GetPrincipal(c), id, *req.IsActive); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetUserRoles 分配角色
// @Summary      分配用户角色
// @Tags         管理后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                  true "用户ID"
// @Param        request body dto.UserRolesRequest true "角色列表"
// @Success      200 {object} response.Response
// @Router       /api/v1/admin/users/{id}/roles [put]
func (h *AdminHandler) SetUserRoles(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := h.users.AssignRoles(c.Request.Context(), middleware.GetPrincipal(c), id, req.Roles); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteUser 删除用户
// @Summary      删除用户（拥有图书、评论或收藏时返回40010）
// @Tags         管理后台
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Dashboard 后台首页
// @Summary      后台统计
// @Tags         管理后台
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=report.Dashboard}
// @Router       /api/v1/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	res, err := h.dashboard.Execute(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
