package main

import (
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	"github.com/xiebiao/sbooks/internal/infrastructure/config"
	"github.com/xiebiao/sbooks/internal/infrastructure/messaging"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/sbooks/internal/interface/http/middleware"
	"github.com/xiebiao/sbooks/internal/interface/http/router"
	"github.com/xiebiao/sbooks/pkg/circuitbreaker"
	"github.com/xiebiao/sbooks/pkg/jwt"
	"github.com/xiebiao/sbooks/pkg/mq"
	"github.com/xiebiao/sbooks/pkg/ratelimit"
)

// App 组装完成的应用
type App struct {
	Engine *gin.Engine
}

// 限流器回收空闲IP的周期
const limiterIdleTTL = 10 * time.Minute

func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := rdb.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func provideRedis(cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

func provideCatalogConfig(cfg *config.Config) config.CatalogConfig {
	return cfg.Catalog
}

func provideCatalogCache(client *goredis.Client) catalog.Cache {
	return redis.NewCatalogCache(client)
}

// provideAuditSink 启用MQ时审计事件经RabbitMQ投递，发布失败或熔断时直接写库
func provideAuditSink(cfg *config.Config, repo audit.Repository, log *zap.Logger) (audit.Sink, func(), error) {
	store := messaging.NewStoreSink(repo)
	if !cfg.MQ.Enabled {
		return store, func() {}, nil
	}

	publisher, err := mq.NewPublisher(mq.Config{URL: cfg.MQ.URL, Exchange: cfg.MQ.Exchange}, log)
	if err != nil {
		return nil, nil, err
	}
	breaker := circuitbreaker.New("audit-mq", circuitbreaker.Config{
		FailureThreshold: cfg.MQ.FailureThreshold,
		OpenTimeout:      cfg.MQ.OpenTimeout,
	})
	log.Info("✓ 审计事件经RabbitMQ投递", zap.String("exchange", cfg.MQ.Exchange))
	return messaging.NewMQSink(publisher, breaker, store, log), func() { _ = publisher.Close() }, nil
}

// provideRecorder 退出时等待未完成的审计日志写完
func provideRecorder(sink audit.Sink, log *zap.Logger) (*appaudit.Recorder, func()) {
	r := appaudit.NewRecorder(sink, log)
	return r, r.Wait
}

// provideLimiter 未启用限流时返回nil
func provideLimiter(cfg *config.Config) (*ratelimit.KeyedLimiter, func()) {
	if !cfg.RateLimit.Enabled {
		return nil, func() {}
	}
	l := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, limiterIdleTTL)
	return l, l.Stop
}

func provideEngine(cfg *config.Config, log *zap.Logger, auth *middleware.AuthMiddleware, limiter *ratelimit.KeyedLimiter, h router.Handlers) *gin.Engine {
	return router.New(cfg, log, auth, limiter, h)
}
