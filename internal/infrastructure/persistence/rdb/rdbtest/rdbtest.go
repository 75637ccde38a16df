// Package rdbtest 测试用数据库：t.TempDir()下的sqlite文件，已完成迁移
package rdbtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/sbooks/internal/infrastructure/config"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
)

// New 每次调用返回独立的空库
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			Path:        filepath.Join(t.TempDir(), "sbooks.db"),
			AutoMigrate: true,
		},
	}
	db, err := rdb.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// User 插入用户，返回ID
func User(t testing.TB, db *gorm.DB, username string) uint {
	t.Helper()
	m := &rdb.UserModel{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FullName:     username,
		IsActive:     true,
	}
	require.NoError(t, db.Create(m).Error)
	return m.ID
}

// Author 插入作者，返回ID
func Author(t testing.TB, db *gorm.DB, name string) uint {
	t.Helper()
	m := &rdb.AuthorModel{Name: name}
	require.NoError(t, db.Create(m).Error)
	return m.ID
}

// Publisher 插入出版社，返回ID
func Publisher(t testing.TB, db *gorm.DB, name string) uint {
	t.Helper()
	m := &rdb.PublisherModel{Name: name}
	require.NoError(t, db.Create(m).Error)
	return m.ID
}

// Book 插入图书；CreatedAt为零值时按插入顺序递增，保证newest/oldest排序可预期
func Book(t testing.TB, db *gorm.DB, m rdb.BookModel) uint {
	t.Helper()
	if m.CreatedAt.IsZero() {
		var n int64
		require.NoError(t, db.Model(&rdb.BookModel{}).Count(&n).Error)
		m.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Hour)
	}
	require.NoError(t, db.Create(&m).Error)
	return m.ID
}

// Review 插入顶层评论
func Review(t testing.TB, db *gorm.DB, bookID, userID uint, rating int) uint {
	t.Helper()
	key := rdb.TopLevelKey(bookID, userID)
	m := &rdb.ReviewModel{BookID: bookID, UserID: userID, Rating: &rating, TopLevelKey: &key, Comment: "ok"}
	require.NoError(t, db.Create(m).Error)
	return m.ID
}

// Reply 插入回复
func Reply(t testing.TB, db *gorm.DB, parentID, bookID, userID uint) uint {
	t.Helper()
	m := &rdb.ReviewModel{BookID: bookID, UserID: userID, ParentReviewID: &parentID, Comment: "re"}
	require.NoError(t, db.Create(m).Error)
	return m.ID
}

// Favorite 插入收藏
func Favorite(t testing.TB, db *gorm.DB, userID, bookID uint) {
	t.Helper()
	require.NoError(t, db.Create(&rdb.FavoriteModel{UserID: userID, BookID: bookID, CreatedAt: time.Now()}).Error)
}

// Ptr 取地址
func Ptr[T any](v T) *T {
	return &v
}
