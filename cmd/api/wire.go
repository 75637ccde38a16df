//go:build wireinject
// +build wireinject

// Wire依赖注入配置，修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appadmin "github.com/xiebiao/sbooks/internal/application/admin"
	appbook "github.com/xiebiao/sbooks/internal/application/book"
	appcatalog "github.com/xiebiao/sbooks/internal/application/catalog"
	appfavorite "github.com/xiebiao/sbooks/internal/application/favorite"
	appreview "github.com/xiebiao/sbooks/internal/application/review"
	appuser "github.com/xiebiao/sbooks/internal/application/user"
	"github.com/xiebiao/sbooks/internal/domain/author"
	"github.com/xiebiao/sbooks/internal/domain/book"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	"github.com/xiebiao/sbooks/internal/domain/favorite"
	"github.com/xiebiao/sbooks/internal/domain/publisher"
	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	"github.com/xiebiao/sbooks/internal/domain/user"
	"github.com/xiebiao/sbooks/internal/infrastructure/config"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/sbooks/internal/interface/http/handler"
	"github.com/xiebiao/sbooks/internal/interface/http/middleware"
	"github.com/xiebiao/sbooks/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、审计落库方式
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideCatalogConfig,
	provideCatalogCache,
	provideAuditSink,
	provideRecorder,
	provideLimiter,
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
)

var repositorySet = wire.NewSet(
	rdb.NewTxManager,
	wire.Bind(new(shared.Transactor), new(*rdb.TxManager)),
	rdb.NewUserRepository,
	rdb.NewBookRepository,
	rdb.NewAuthorRepository,
	rdb.NewPublisherRepository,
	rdb.NewReviewRepository,
	rdb.NewFavoriteRepository,
	rdb.NewCatalogRepository,
	rdb.NewAuditRepository,
	rdb.NewReportRepository,
)

var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	author.NewService,
	publisher.NewService,
	review.NewService,
	favorite.NewService,
	catalog.NewService,
	wire.Bind(new(catalog.FavoriteLookup), new(favorite.Repository)),
)

var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewGetProfileUseCase,
	appuser.NewUpdateProfileUseCase,
	appuser.NewChangePasswordUseCase,
	appuser.NewListMyFavoritesUseCase,
	appuser.NewListMyReviewsUseCase,
	appuser.NewListMySearchesUseCase,

	appcatalog.NewSearchBooksUseCase,
	appcatalog.NewSuggestBooksUseCase,
	appcatalog.NewTopFavoritesUseCase,
	appcatalog.NewListGenresUseCase,
	appcatalog.NewGetBookDetailUseCase,
	appcatalog.NewListAuthorsUseCase,
	appcatalog.NewGetAuthorUseCase,
	appcatalog.NewListAuthorBooksUseCase,
	appcatalog.NewListPublishersUseCase,

	appreview.NewSubmitReviewUseCase,
	appreview.NewReplyReviewUseCase,
	appreview.NewVoteReviewUseCase,
	appreview.NewDeleteReviewUseCase,
	appreview.NewListBookReviewsUseCase,
	appfavorite.NewToggleFavoriteUseCase,
	appfavorite.NewRemoveFavoriteUseCase,

	appbook.NewManageBookUseCase,
	appadmin.NewManageAuthorUseCase,
	appadmin.NewManagePublisherUseCase,
	appadmin.NewManageUserUseCase,
	appadmin.NewDashboardUseCase,
)

var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCatalogHandler,
	handler.NewReviewHandler,
	handler.NewAdminHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideEngine,
)

// InitializeApp 组装整个应用，cleanup按依赖的逆序释放资源
func InitializeApp(cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
