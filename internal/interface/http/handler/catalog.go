package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/sbooks/internal/application/catalog"
	"github.com/xiebiao/sbooks/internal/interface/http/dto"
	"github.com/xiebiao/sbooks/internal/interface/http/middleware"
	"github.com/xiebiao/sbooks/pkg/response"
)

// CatalogHandler 作者、出版社公开接口
type CatalogHandler struct {
	authors     *appcatalog.ListAuthorsUseCase
	author      *appcatalog.GetAuthorUseCase
	authorBooks *appcatalog.ListAuthorBooksUseCase
	publishers  *appcatalog.ListPublishersUseCase
}

func NewCatalogHandler(
	authors *appcatalog.ListAuthorsUseCase,
	author *appcatalog.GetAuthorUseCase,
	authorBooks *appcatalog.ListAuthorBooksUseCase,
	publishers *appcatalog.ListPublishersUseCase,
) *CatalogHandler {
	return &CatalogHandler{authors: authors, author: author, authorBooks: authorBooks, publishers: publishers}
}

// ListAuthors 作者列表
// @Summary      有图书的作者（按名称排序）
// @Tags         作者
// @Produce      json
// @Success      200 {object} response.Response{data=[]appcatalog.AuthorItem}
// @Router       /api/v1/authors [get]
func (h *CatalogHandler) ListAuthors(c *gin.Context) {
	res, err := h.authors.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetAuthor 作者详情
// @Summary      作者详情与统计
// @Tags         作者
// @Produce      json
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response{data=appcatalog.AuthorDetailResponse}
// @Router       /api/v1/authors/{id} [get]
func (h *CatalogHandler) GetAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.author.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// AuthorBooks 作者的图书
// @Summary      作者的图书（最新在前）
// @Tags         作者
// @Produce      json
// @Param        id        path  int true  "作者ID"
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]catalog.BookCard}}
// @Router       /api/v1/authors/{id}/books [get]
func (h *CatalogHandler) AuthorBooks(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.authorBooks.Execute(c.Request.Context(), appcatalog.ListAuthorBooksRequest{
		AuthorID: id,
		Page:     q.Page,
		PageSize: q.PageSize,
		Viewer:   middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, res.Items, res.Total, res.Page, res.PageSize)
}

// ListPublishers 出版社列表
// @Summary      出版社列表
// @Tags         出版社
// @Produce      json
// @Success      200 {object} response.Response{data=[]appcatalog.PublisherItem}
// @Router       /api/v1/publishers [get]
func (h *CatalogHandler) ListPublishers(c *gin.Context) {
	res, err := h.publishers.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
