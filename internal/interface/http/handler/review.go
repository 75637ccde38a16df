package handler

import (
	"github.com/gin-gonic/gin"

	appfavorite "github.com/xiebiao/sbooks/internal/application/favorite"
	appreview "github.com/xiebiao/sbooks/internal/application/review"
	"github.com/xiebiao/sbooks/internal/interface/http/dto"
	"github.com/xiebiao/sbooks/internal/interface/http/middleware"
	"github.com/xiebiao/sbooks/pkg/response"
)

// ReviewHandler 评论、投票、收藏（需要登录）
type ReviewHandler struct {
	submit         *appreview.SubmitReviewUseCase
	reply          *appreview.ReplyReviewUseCase
	vote           *appreview.VoteReviewUseCase
	delete         *appreview.DeleteReviewUseCase
	toggleFavorite *appfavorite.ToggleFavoriteUseCase
	removeFavorite *appfavorite.RemoveFavoriteUseCase
}

func NewReviewHandler(
	submit *appreview.SubmitReviewUseCase,
	reply *appreview.ReplyReviewUseCase,
	vote *appreview.VoteReviewUseCase,
	del *appreview.DeleteReviewUseCase,
	toggleFavorite *appfavorite.ToggleFavoriteUseCase,
	removeFavorite *appfavorite.RemoveFavoriteUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		submit:         submit,
		reply:          reply,
		vote:           vote,
		delete:         del,
		toggleFavorite: toggleFavorite,
		removeFavorite: removeFavorite,
	}
}

// Submit 提交评论
// @Summary      提交或修改顶层评论
// @Description  每个用户对每本书只有一条顶层评论，再次提交覆盖评分和内容
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true "图书ID"
// @Param        request body dto.SubmitReviewRequest true "评分1-5与内容"
// @Success      200 {object} response.Response{data=appreview.SubmitReviewResponse}
// @Router       /api/v1/books/{id}/review [put]
func (h *ReviewHandler) Submit(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.submit.Execute(c.Request.Context(), appreview.SubmitReviewRequest{
		BookID:  bookID,
		Rating:  req.Rating,
		Comment: req.Comment,
		Actor:   middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Reply 回复评论
// @Summary      回复评论
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int              true "被回复的评论ID"
// @Param        request body dto.ReplyRequest true "回复内容"
// @Success      200 {object} response.Response{data=appreview.ReviewInfo}
// @Router       /api/v1/reviews/{id}/replies [post]
func (h *ReviewHandler) Reply(c *gin.Context) {
	parentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.reply.Execute(c.Request.Context(), appreview.ReplyReviewRequest{
		ParentID: parentID,
		Comment:  req.Comment,
		Actor:    middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Vote 赞/踩
// @Summary      评论投票
// @Description  同类型再次投票取消，不同类型切换
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int             true "评论ID"
// @Param        request body dto.VoteRequest true "like或dislike"
// @Success      200 {object} response.Response{data=appreview.VoteReviewResponse}
// @Router       /api/v1/reviews/{id}/vote [post]
func (h *ReviewHandler) Vote(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.vote.Execute(c.Request.Context(), appreview.VoteReviewRequest{
		ReviewID: reviewID,
		Type:     req.Type,
		Actor:    middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Delete 删除评论
// @Summary      删除评论（作者本人或管理员）
// @Description  连同全部回复和投票一起删除
// @Tags         评论
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评论ID"
// @Success      200 {object} response.Response{data=appreview.DeleteReviewResponse}
// @Router       /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.delete.Execute(c.Request.Context(), appreview.DeleteReviewRequest{
		ReviewID: reviewID,
		Actor:    middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ToggleFavorite 收藏/取消收藏
// @Summary      切换收藏状态
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appfavorite.ToggleFavoriteResponse}
// @Router       /api/v1/books/{id}/favorite [post]
func (h *ReviewHandler) ToggleFavorite(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.toggleFavorite.Execute(c.Request.Context(), appfavorite.ToggleFavoriteRequest{
		BookID: bookID,
		Actor:  middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// RemoveFavorite 取消收藏（未收藏时无操作）
// @Summary      取消收藏
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/books/{id}/favorite [delete]
func (h *ReviewHandler) RemoveFavorite(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	err := h.removeFavorite.Execute(c.Request.Context(), appfavorite.ToggleFavoriteRequest{
		BookID: bookID,
		Actor:  middleware.GetPrincipal(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
