package user_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/application/apptest"
	appuser "github.com/xiebiao/sbooks/internal/application/user"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb/rdbtest"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
	"github.com/xiebiao/sbooks/pkg/jwt"
)

// fakeSessions 内存会话存储
type fakeSessions struct {
	mu       sync.Mutex
	sessions map[uint]redis.Session
	ttls     map[uint]time.Duration
	revoked  map[string]time.Duration
	saveErr  error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		sessions: map[uint]redis.Session{},
		ttls:     map[uint]time.Duration{},
		revoked:  map[string]time.Duration{},
	}
}

func (f *fakeSessions) SaveSession(_ context.Context, userID uint, sess redis.Session, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[userID] = sess
	f.ttls[userID] = ttl
	return nil
}

func (f *fakeSessions) DeleteSession(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, userID)
	return nil
}

func (f *fakeSessions) Revoke(_ context.Context, token string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = ttl
	return nil
}

func TestRegisterLoginLogout(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()
	sessions := newFakeSessions()
	manager := jwt.NewManager("test-secret", 2*time.Hour, 7*24*time.Hour)

	register := appuser.NewRegisterUseCase(env.Users, env.Recorder)
	login := appuser.NewLoginUseCase(env.Users, manager, sessions, env.Recorder, zap.NewNop())
	logout := appuser.NewLogoutUseCase(sessions, manager, env.Recorder)

	var userID uint
	t.Run("注册成功", func(t *testing.T) {
		info, err := register.Execute(ctx, appuser.RegisterRequest{
			Username: "reader01",
			Email:    "Reader01@Example.com",
			Password: "secret123",
			FullName: "读者一号",
		})
		require.NoError(t, err)
		assert.Equal(t, "reader01@example.com", info.Email)
		assert.Equal(t, []string{identity.RoleUser}, info.Roles)
		assert.True(t, info.IsActive)
		userID = info.ID
	})

	t.Run("用户名重复", func(t *testing.T) {
		_, err := register.Execute(ctx, appuser.RegisterRequest{Username: "reader01", Email: "other@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, apperrors.ErrUsernameDuplicate)
	})

	t.Run("弱密码", func(t *testing.T) {
		_, err := register.Execute(ctx, appuser.RegisterRequest{Username: "reader02", Email: "r2@example.com", Password: "abcdefgh"})
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})

	var token string
	t.Run("用户名登录", func(t *testing.T) {
		resp, err := login.Execute(ctx, appuser.LoginRequest{Login: "reader01", Password: "secret123", ClientIP: "10.0.0.1"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, int64(7200), resp.ExpiresIn)

		claims, err := manager.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, []string{identity.RoleUser}, claims.Roles)

		assert.Equal(t, "10.0.0.1", sessions.sessions[userID].ClientIP)
		assert.Equal(t, manager.RefreshTokenTTL(), sessions.ttls[userID])
		token = resp.AccessToken
	})

	t.Run("邮箱登录", func(t *testing.T) {
		_, err := login.Execute(ctx, appuser.LoginRequest{Login: "reader01@example.com", Password: "secret123"})
		require.NoError(t, err)
	})

	t.Run("密码错误与账号不存在不区分", func(t *testing.T) {
		_, err := login.Execute(ctx, appuser.LoginRequest{Login: "reader01", Password: "wrong1234"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
		_, err = login.Execute(ctx, appuser.LoginRequest{Login: "nobody", Password: "secret123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("会话保存失败不影响登录", func(t *testing.T) {
		sessions.saveErr = errors.New("redis down")
		defer func() { sessions.saveErr = nil }()
		_, err := login.Execute(ctx, appuser.LoginRequest{Login: "reader01", Password: "secret123"})
		assert.NoError(t, err)
	})

	t.Run("停用账号不能登录", func(t *testing.T) {
		require.NoError(t, env.Users.SetActive(ctx, userID, false))
		defer func() { require.NoError(t, env.Users.SetActive(ctx, userID, true)) }()
		_, err := login.Execute(ctx, appuser.LoginRequest{Login: "reader01", Password: "secret123"})
		assert.ErrorIs(t, err, apperrors.ErrUserDisabled)
	})

	t.Run("登出吊销Token", func(t *testing.T) {
		actor := &identity.Principal{UserID: userID, Username: "reader01"}
		require.NoError(t, logout.Execute(ctx, actor, token))
		assert.NotContains(t, sessions.sessions, userID)
		assert.Equal(t, manager.AccessTokenTTL(), sessions.revoked[token])

		assert.ErrorIs(t, logout.Execute(ctx, nil, token), apperrors.ErrUnauthorized)
	})

	// 注册 + 登录3次 + 登出
	env.Recorder.Wait()
	n, err := env.AuditRepo.CountActivities(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	t.Logf("✓ 活动记录: %d", n)
}

func TestProfile(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()
	alice := env.UserPrincipal(t, "alice")
	bookA := env.Book(t, rdb.BookModel{Title: "围城"})
	bookB := env.Book(t, rdb.BookModel{Title: "边城"})

	rdbtest.Favorite(t, env.DB, alice.UserID, bookA)
	rdbtest.Favorite(t, env.DB, alice.UserID, bookB)
	reviewID := rdbtest.Review(t, env.DB, bookA, alice.UserID, 4)
	rdbtest.Reply(t, env.DB, reviewID, bookA, alice.UserID)
	env.Recorder.Search(ctx, alice.UserID, "钱钟书")
	env.Recorder.Wait()

	t.Run("统计", func(t *testing.T) {
		resp, err := appuser.NewGetProfileUseCase(env.Users, rdb.NewFavoriteRepository(env.DB), env.Reviews, env.AuditRepo).Execute(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, "alice", resp.User.Username)
		assert.Equal(t, appuser.ProfileStats{Favorites: 2, Reviews: 2, Searches: 1, Activities: 0}, resp.Stats)
	})

	t.Run("匿名", func(t *testing.T) {
		_, err := appuser.NewGetProfileUseCase(env.Users, rdb.NewFavoriteRepository(env.DB), env.Reviews, env.AuditRepo).Execute(ctx, nil)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("修改资料", func(t *testing.T) {
		uc := appuser.NewUpdateProfileUseCase(env.Users, env.Recorder)
		info, err := uc.Execute(ctx, appuser.UpdateProfileRequest{FullName: "Alice Wang", Actor: alice})
		require.NoError(t, err)
		assert.Equal(t, "Alice Wang", info.FullName)
		assert.Equal(t, "alice@example.com", info.Email)

		_, err = uc.Execute(ctx, appuser.UpdateProfileRequest{Email: "bad-email", Actor: alice})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
	})

	env.Recorder.Wait()
	n, err := env.AuditRepo.CountActivities(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestChangePassword(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()
	register := appuser.NewRegisterUseCase(env.Users, env.Recorder)
	change := appuser.NewChangePasswordUseCase(env.Users, env.Recorder)

	info, err := register.Execute(ctx, appuser.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "oldpass123"})
	require.NoError(t, err)
	actor := &identity.Principal{UserID: info.ID, Username: "bob"}

	t.Run("当前密码错误", func(t *testing.T) {
		err := change.Execute(ctx, appuser.ChangePasswordRequest{CurrentPassword: "nope12345", NewPassword: "newpass123", Actor: actor})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("新密码过弱", func(t *testing.T) {
		err := change.Execute(ctx, appuser.ChangePasswordRequest{CurrentPassword: "oldpass123", NewPassword: "short1", Actor: actor})
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})

	t.Run("修改后新密码可登录", func(t *testing.T) {
		require.NoError(t, change.Execute(ctx, appuser.ChangePasswordRequest{CurrentPassword: "oldpass123", NewPassword: "newpass123", Actor: actor}))

		_, err := env.Users.Authenticate(ctx, "bob", "oldpass123")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
		_, err = env.Users.Authenticate(ctx, "bob", "newpass123")
		assert.NoError(t, err)
	})
}

func TestHistory(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()
	alice := env.UserPrincipal(t, "alice")
	bob := env.UserPrincipal(t, "bob")

	var books []uint
	for _, title := range []string{"活着", "兄弟", "许三观卖血记"} {
		id := env.Book(t, rdb.BookModel{Title: title})
		rdbtest.Favorite(t, env.DB, alice.UserID, id)
		books = append(books, id)
	}
	rdbtest.Review(t, env.DB, books[0], alice.UserID, 5)
	rdbtest.Review(t, env.DB, books[1], bob.UserID, 3)
	env.Recorder.Search(ctx, alice.UserID, "余华")
	env.Recorder.Search(ctx, alice.UserID, "莫言")
	env.Recorder.Search(ctx, bob.UserID, "三体")
	env.Recorder.Wait()

	t.Run("我的收藏分页", func(t *testing.T) {
		uc := appuser.NewListMyFavoritesUseCase(env.Catalog, env.Catalogs)
		res, err := uc.Execute(ctx, appuser.HistoryRequest{Page: 1, PageSize: 2, Actor: alice})
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Total)
		assert.Len(t, res.Items, 2)
		for _, card := range res.Items {
			assert.True(t, card.IsFavorited)
		}

		empty, err := uc.Execute(ctx, appuser.HistoryRequest{Actor: bob})
		require.NoError(t, err)
		assert.NotNil(t, empty.Items)
		assert.Empty(t, empty.Items)
		assert.Equal(t, 12, empty.PageSize)
	})

	t.Run("我的评论", func(t *testing.T) {
		res, err := appuser.NewListMyReviewsUseCase(env.Reviews, env.Catalogs).Execute(ctx, appuser.HistoryRequest{Actor: alice})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "活着", res.Items[0].BookTitle)
	})

	t.Run("我的搜索", func(t *testing.T) {
		res, err := appuser.NewListMySearchesUseCase(env.AuditRepo, env.Catalogs).Execute(ctx, appuser.HistoryRequest{Actor: alice})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Total)
		var queries []string
		for _, l := range res.Items {
			queries = append(queries, l.Query)
		}
		assert.ElementsMatch(t, []string{"余华", "莫言"}, queries)
	})

	t.Run("负页码", func(t *testing.T) {
		_, err := appuser.NewListMySearchesUseCase(env.AuditRepo, env.Catalogs).Execute(ctx, appuser.HistoryRequest{Page: -1, Actor: alice})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
	})

	t.Run("匿名", func(t *testing.T) {
		_, err := appuser.NewListMyReviewsUseCase(env.Reviews, env.Catalogs).Execute(ctx, appuser.HistoryRequest{})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}
