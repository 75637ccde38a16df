package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// Session 登录会话
type Session struct {
	Username string
	ClientIP string
	LoginAt  time.Time
}

// SessionStore 会话存储
//   - sbooks:session:{user_id}  登录信息（Hash），过期时间与Refresh Token一致
//   - sbooks:blacklist:{sha256(token)}  已登出的Access Token，过期时间与Access Token一致
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("%ssession:%d", keyPrefix, userID)
}

// blacklistKey token较长，取摘要作为key
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + "blacklist:" + hex.EncodeToString(sum[:])
}

// SaveSession 保存会话，HSet与Expire在同一个MULTI中执行
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, sess Session, ttl time.Duration) error {
	key := sessionKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"username":  sess.Username,
			"client_ip": sess.ClientIP,
			"login_at":  sess.LoginAt.Unix(),
		})
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "保存会话失败", err)
	}
	return nil
}

// GetSession 会话不存在时返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (*Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeRedisError, "获取会话失败", err)
	}
	if len(fields) == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	loginAt, _ := strconv.ParseInt(fields["login_at"], 10, 64)
	return &Session{
		Username: fields["username"],
		ClientIP: fields["client_ip"],
		LoginAt:  time.Unix(loginAt, 0),
	}, nil
}

// DeleteSession 删除会话（登出）
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "删除会话失败", err)
	}
	return nil
}

// Revoke 将Token加入黑名单
func (s *SessionStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "添加Token到黑名单失败", err)
	}
	return nil
}

// IsRevoked Token是否在黑名单中
func (s *SessionStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.WithCode(apperrors.ErrCodeRedisError, "检查黑名单失败", err)
	}
	return n > 0, nil
}
