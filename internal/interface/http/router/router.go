// Package router 注册全部HTTP路由
package router

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	// swag生成的API文档: swag init -g cmd/api/main.go
	_ "github.com/xiebiao/sbooks/docs"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/infrastructure/config"
	"github.com/xiebiao/sbooks/internal/interface/http/handler"
	"github.com/xiebiao/sbooks/internal/interface/http/middleware"
	"github.com/xiebiao/sbooks/pkg/ratelimit"
	"github.com/xiebiao/sbooks/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	User    *handler.UserHandler
	Book    *handler.BookHandler
	Catalog *handler.CatalogHandler
	Review  *handler.ReviewHandler
	Admin   *handler.AdminHandler
}

// New 创建Gin引擎并注册路由
// limiter为nil时公开检索接口不限流
func New(
	cfg *config.Config,
	logger *zap.Logger,
	auth *middleware.AuthMiddleware,
	limiter *ratelimit.KeyedLimiter,
	h Handlers,
) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		corsMiddleware(cfg.CORS),
		middleware.Logger(logger),
		middleware.Metrics(),
	)
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// 访问 /swagger/index.html 查看API文档（swag init生成docs后可用）
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	limited := middleware.RateLimit(limiter)

	// 图书（公开接口，可选登录）
	books := v1.Group("/books", auth.OptionalAuth())
	{
		books.GET("", limited, h.Book.Search)
		books.GET("/suggestions", limited, h.Book.Suggest)
		books.GET("/top-favorites", h.Book.TopFavorites)
		books.GET("/genres", h.Book.Genres)
		books.GET("/:id", h.Book.Detail)
		books.GET("/:id/reviews", h.Book.Reviews)
	}

	// 作者、出版社
	authors := v1.Group("/authors", auth.OptionalAuth())
	{
		authors.GET("", h.Catalog.ListAuthors)
		authors.GET("/:id", h.Catalog.GetAuthor)
		authors.GET("/:id/books", h.Catalog.AuthorBooks)
	}
	v1.GET("/publishers", h.Catalog.ListPublishers)

	// 用户
	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)

		me := users.Group("", auth.RequireAuth())
		me.POST("/logout", h.User.Logout)
		me.GET("/me", h.User.Profile)
		me.PUT("/me", h.User.UpdateProfile)
		me.PUT("/me/password", h.User.ChangePassword)
		me.GET("/me/favorites", h.User.MyFavorites)
		me.GET("/me/reviews", h.User.MyReviews)
		me.GET("/me/searches", h.User.MySearches)
	}

	// 评论、投票、收藏（需要登录）
	authorized := v1.Group("", auth.RequireAuth())
	{
		authorized.PUT("/books/:id/review", h.Review.Submit)
		authorized.POST("/books/:id/favorite", h.Review.ToggleFavorite)
		authorized.DELETE("/books/:id/favorite", h.Review.RemoveFavorite)
		authorized.POST("/reviews/:id/replies", h.Review.Reply)
		authorized.POST("/reviews/:id/vote", h.Review.Vote)
		authorized.DELETE("/reviews/:id", h.Review.Delete)
	}

	// 管理后台
	admin := v1.Group("/admin", auth.RequireAuth(), middleware.RequireRole(identity.RoleAdmin))
	{
		admin.POST("/books", h.Admin.CreateBook)
		admin.PUT("/books/:id", h.Admin.UpdateBook)
		admin.DELETE("/books/:id", h.Admin.DeleteBook)

		admin.POST("/authors", h.Admin.CreateAuthor)
		admin.PUT("/authors/:id", h.Admin.UpdateAuthor)
		admin.DELETE("/authors/:id", h.Admin.DeleteAuthor)

		admin.POST("/publishers", h.Admin.CreatePublisher)
		admin.PUT("/publishers/:id", h.Admin.UpdatePublisher)
		admin.DELETE("/publishers/:id", h.Admin.DeletePublisher)

		admin.GET("/users", h.Admin.ListUsers)
		admin.PUT("/users/:id/status", h.Admin.SetUserStatus)
		admin.PUT("/users/:id/roles", h.Admin.SetUserRoles)
		admin.DELETE("/users/:id", h.Admin.DeleteUser)

		admin.GET("/dashboard", h.Admin.Dashboard)
	}

	return r
}

func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
	}
	if len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	return cors.New(c)
}
