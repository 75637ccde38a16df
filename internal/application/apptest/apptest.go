// Package apptest 用例测试的装配：sqlite临时库上的全部仓储和领域服务
package apptest

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/author"
	"github.com/xiebiao/sbooks/internal/domain/book"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	"github.com/xiebiao/sbooks/internal/domain/favorite"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/publisher"
	"github.com/xiebiao/sbooks/internal/domain/report"
	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/internal/domain/user"
	"github.com/xiebiao/sbooks/internal/infrastructure/config"
	"github.com/xiebiao/sbooks/internal/infrastructure/messaging"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb/rdbtest"
)

func init() {
	// 测试中bcrypt使用最低开销
	user.HashCost = 4
}

// Env 测试环境
type Env struct {
	DB *gorm.DB

	AuditRepo  audit.Repository
	ReportRepo report.Repository

	Users      user.Service
	Books      book.Service
	Authors    author.Service
	Publishers publisher.Service
	Reviews    review.Service
	Favorites  favorite.Service
	Catalog    catalog.Service

	Recorder *appaudit.Recorder
	Catalogs config.CatalogConfig
}

// New 创建测试环境，审计日志直接写库
func New(t testing.TB) *Env {
	t.Helper()
	db := rdbtest.New(t)
	tx := rdb.NewTxManager(db)

	users := rdb.NewUserRepository(db)
	books := rdb.NewBookRepository(db)
	authors := rdb.NewAuthorRepository(db)
	publishers := rdb.NewPublisherRepository(db)
	reviews := rdb.NewReviewRepository(db)
	favorites := rdb.NewFavoriteRepository(db)
	auditRepo := rdb.NewAuditRepository(db)

	env := &Env{
		DB:         db,
		AuditRepo:  auditRepo,
		ReportRepo: rdb.NewReportRepository(db),
		Users:      user.NewService(users, tx),
		Books:      book.NewService(books, authors, publishers, tx),
		Authors:    author.NewService(authors, tx),
		Publishers: publisher.NewService(publishers, tx),
		Reviews:    review.NewService(reviews, books, tx),
		Favorites:  favorite.NewService(favorites, books, tx),
		Catalog:    catalog.NewService(rdb.NewCatalogRepository(db), favorites),
		Recorder:   appaudit.NewRecorder(messaging.NewStoreSink(auditRepo), zap.NewNop()),
		Catalogs: config.CatalogConfig{
			DefaultPageSize:   12,
			MaxPageSize:       50,
			SuggestionLimit:   10,
			RelatedLimit:      8,
			TopFavoritesLimit: 10,
			GenresCacheTTL:    10 * time.Minute,
			TopFavCacheTTL:    time.Minute,
		},
	}
	// 等待异步日志写完再关闭数据库
	t.Cleanup(env.Recorder.Wait)
	return env
}

// UserPrincipal 插入普通用户并返回其身份
func (e *Env) UserPrincipal(t testing.TB, username string) *identity.Principal {
	t.Helper()
	id := rdbtest.User(t, e.DB, username)
	return &identity.Principal{UserID: id, Username: username, Roles: []string{identity.RoleUser}}
}

// AdminPrincipal 插入管理员并返回其身份
func (e *Env) AdminPrincipal(t testing.TB, username string) *identity.Principal {
	t.Helper()
	p := e.UserPrincipal(t, username)
	if err := rdb.NewUserRepository(e.DB).SetRoles(context.Background(), p.UserID, []string{identity.RoleAdmin, identity.RoleUser}); err != nil {
		t.Fatalf("设置管理员角色失败: %v", err)
	}
	p.Roles = []string{identity.RoleAdmin, identity.RoleUser}
	return p
}

// Book 插入图书
func (e *Env) Book(t testing.TB, m rdb.BookModel) uint {
	t.Helper()
	return rdbtest.Book(t, e.DB, m)
}
