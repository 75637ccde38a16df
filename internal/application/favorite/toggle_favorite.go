package favorite

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	"github.com/xiebiao/sbooks/internal/domain/favorite"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/pkg/metrics"
	"github.com/xiebiao/sbooks/pkg/tracing"
)

// ToggleFavoriteUseCase 收藏/取消收藏
// 收藏变化会影响收藏排行，成功后清除检索缓存
type ToggleFavoriteUseCase struct {
	favorites favorite.Service
	cache     catalog.Cache
	recorder  *appaudit.Recorder
	logger    *zap.Logger
}

func NewToggleFavoriteUseCase(favorites favorite.Service, cache catalog.Cache, recorder *appaudit.Recorder, logger *zap.Logger) *ToggleFavoriteUseCase {
	return &ToggleFavoriteUseCase{favorites: favorites, cache: cache, recorder: recorder, logger: logger}
}

type ToggleFavoriteRequest struct {
	BookID uint
	Actor  *identity.Principal
}

type ToggleFavoriteResponse struct {
	BookID    uint `json:"book_id"`
	Favorited bool `json:"favorited"`
}

func (uc *ToggleFavoriteUseCase) Execute(ctx context.Context, req ToggleFavoriteRequest) (resp *ToggleFavoriteResponse, err error) {
	userID, err := identity.RequireUser(req.Actor)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "favorite.Toggle", attribute.Int("book_id", int(req.BookID)))
	defer func() { tracing.End(span, err) }()

	favorited, err := uc.favorites.Toggle(ctx, userID, req.BookID)
	if err != nil {
		return nil, err
	}

	result := "unfavorited"
	if favorited {
		result = "favorited"
	}
	metrics.IncCounterVec(metrics.FavoriteTogglesTotal, map[string]string{"result": result})
	invalidate(ctx, uc.cache, uc.logger)
	uc.recorder.Activity(ctx, userID, audit.ActivityFavorite, fmt.Sprintf("%s book %d", result, req.BookID))

	return &ToggleFavoriteResponse{BookID: req.BookID, Favorited: favorited}, nil
}

// RemoveFavoriteUseCase 取消收藏，未收藏时不报错
type RemoveFavoriteUseCase struct {
	favorites favorite.Service
	cache     catalog.Cache
	logger    *zap.Logger
}

func NewRemoveFavoriteUseCase(favorites favorite.Service, cache catalog.Cache, logger *zap.Logger) *RemoveFavoriteUseCase {
	return &RemoveFavoriteUseCase{favorites: favorites, cache: cache, logger: logger}
}

func (uc *RemoveFavoriteUseCase) Execute(ctx context.Context, req ToggleFavoriteRequest) error {
	userID, err := identity.RequireUser(req.Actor)
	if err != nil {
		return err
	}
	if err := uc.favorites.Remove(ctx, userID, req.BookID); err != nil {
		return err
	}
	invalidate(ctx, uc.cache, uc.logger)
	return nil
}

func invalidate(ctx context.Context, cache catalog.Cache, logger *zap.Logger) {
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("清除检索缓存失败", zap.Error(err))
	}
}
