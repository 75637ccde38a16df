package review

import (
	"context"

	"github.com/xiebiao/sbooks/internal/domain/book"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/review"
)

// ListBookReviewsUseCase 图书的评论树
type ListBookReviewsUseCase struct {
	reviews review.Service
	books   book.Service
}

func NewListBookReviewsUseCase(reviews review.Service, books book.Service) *ListBookReviewsUseCase {
	return &ListBookReviewsUseCase{reviews: reviews, books: books}
}

type ListBookReviewsRequest struct {
	BookID uint
	Viewer *identity.Principal
}

type ListBookReviewsResponse struct {
	Summary *review.RatingSummary `json:"summary"`
	Reviews []ThreadItem          `json:"reviews"`
}

func (uc *ListBookReviewsUseCase) Execute(ctx context.Context, req ListBookReviewsRequest) (*ListBookReviewsResponse, error) {
	if _, err := uc.books.Get(ctx, req.BookID); err != nil {
		return nil, err
	}
	summary, err := uc.reviews.Summary(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	nodes, err := uc.reviews.Threads(ctx, req.BookID, req.Viewer.ViewerID())
	if err != nil {
		return nil, err
	}
	return &ListBookReviewsResponse{Summary: summary, Reviews: NewThreadItems(nodes)}, nil
}
