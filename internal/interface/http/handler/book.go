package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/sbooks/internal/application/catalog"
	appreview "github.com/xiebiao/sbooks/internal/application/review"
	"github.com/xiebiao/sbooks/internal/interface/http/dto"
	"github.com/xiebiao/sbooks/internal/interface/http/middleware"
	"github.com/xiebiao/sbooks/pkg/response"
)

// BookHandler 图书公开接口（可选登录，登录后填充is_favorited、viewer_vote）
type BookHandler struct {
	search       *appcatalog.SearchBooksUseCase
	suggest      *appcatalog.SuggestBooksUseCase
	topFavorites *appcatalog.TopFavoritesUseCase
	genres       *appcatalog.ListGenresUseCase
	detail       *appcatalog.GetBookDetailUseCase
	reviews      *appreview.ListBookReviewsUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	search *appcatalog.SearchBooksUseCase,
	suggest *appcatalog.SuggestBooksUseCase,
	topFavorites *appcatalog.TopFavoritesUseCase,
	genres *appcatalog.ListGenresUseCase,
	detail *appcatalog.GetBookDetailUseCase,
	reviews *appreview.ListBookReviewsUseCase,
) *BookHandler {
	return &BookHandler{
		search:       search,
		suggest:      suggest,
		topFavorites: topFavorites,
		genres:       genres,
		detail:       detail,
		reviews:      reviews,
	}
}

// Search 图书检索
// @Summary      图书列表
// @Description  关键词、作者、分类、价格、年份、上架时间过滤，支持排序和分页；非空关键词写入搜索日志
// @Tags         图书
// @Produce      json
// @Param        q            query string   false "关键词（书名、作者名）"
// @Param        author_id    query []int    false "作者ID，可重复" collectionFormat(multi)
// @Param        genre        query []string false "分类，可重复" collectionFormat(multi)
// @Param        min_price    query int      false "最低价格(分)"
// @Param        max_price    query int      false "最高价格(分)"
// @Param        min_year     query int      false "最早出版年份"
// @Param        max_year     query int      false "最晚出版年份"
// @Param        created_from query string   false "上架起始日期 2006-01-02"
// @Param        created_to   query string   false "上架截止日期 2006-01-02，含当天"
// @Param        sort         query string   false "newest|oldest|title|rating|favorites"
// @Param        page         query int      false "页码，默认1"
// @Param        page_size    query int      false "每页数量，默认12，最大50"
// @Success      200 {object} response.Response{data=response.PageData{list=[]catalog.BookCard}}
// @Router       /api/v1/books [get]
func (h *BookHandler) Search(c *gin.Context) {
	var q dto.SearchBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.search.Execute(c.Request.Context(), appcatalog.SearchBooksRequest{
		Query:       q.Q,
		AuthorIDs:   q.AuthorIDs,
		Genres:      q.Genres,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		MinYear:     q.MinYear,
		MaxYear:     q.MaxYear,
		CreatedFrom: q.CreatedFrom,
		CreatedTo:   q.CreatedTo,
		SortBy:      q.Sort,
		Page:        q.Page,
		PageSize:    q.PageSize,
		Viewer:      middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, res.Items, res.Total, res.Page, res.PageSize)
}

// Suggest 搜索联想
// @Summary      搜索联想（书名前缀匹配）
// @Tags         图书
// @Produce      json
// @Param        q     query string false "输入前缀"
// @Param        limit query int    false "数量，默认10"
// @Success      200 {object} response.Response{data=[]catalog.Suggestion}
// @Router       /api/v1/books/suggestions [get]
func (h *BookHandler) Suggest(c *gin.Context) {
	var q dto.SuggestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.suggest.Execute(c.Request.Context(), q.Q, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// TopFavorites 收藏最多的图书
// @Summary      热门收藏
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]catalog.BookCard}
// @Router       /api/v1/books/top-favorites [get]
func (h *BookHandler) TopFavorites(c *gin.Context) {
	res, err := h.topFavorites.Execute(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Genres 全部分类
// @Summary      分类列表（按字母序）
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]string}
// @Router       /api/v1/books/genres [get]
func (h *BookHandler) Genres(c *gin.Context) {
	res, err := h.genres.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Detail 图书详情
// @Summary      图书详情
// @Description  浏览量+1，返回评分汇总、评论树、相关图书
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appcatalog.BookDetailResponse}
// @Failure      200 {object} response.Response "40402图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.detail.Execute(c.Request.Context(), appcatalog.GetBookDetailRequest{
		BookID: id,
		Viewer: middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Reviews 图书评论
// @Summary      图书评论树
// @Description  顶层评论最新在前，回复最早在前
// @Tags         评论
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appreview.ListBookReviewsResponse}
// @Router       /api/v1/books/{id}/reviews [get]
func (h *BookHandler) Reviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.reviews.Execute(c.Request.Context(), appreview.ListBookReviewsRequest{
		BookID: id,
		Viewer: middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
