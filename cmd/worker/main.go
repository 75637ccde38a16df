// Package main 审计事件消费者：从RabbitMQ读取搜索/活动事件写入数据库
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/infrastructure/config"
	"github.com/xiebiao/sbooks/internal/infrastructure/messaging"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/sbooks/pkg/logger"
	"github.com/xiebiao/sbooks/pkg/metrics"
	"github.com/xiebiao/sbooks/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zl, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("worker异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	if !cfg.MQ.Enabled {
		return errors.New("mq.enabled=false，审计事件直接写库，无需启动worker")
	}
	metrics.InitMetrics()

	db, err := rdb.NewDB(cfg, zl)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	consumer, err := mq.NewConsumer(
		mq.Config{URL: cfg.MQ.URL, Exchange: cfg.MQ.Exchange},
		cfg.MQ.Queue,
		[]string{messaging.BindingPattern},
		cfg.MQ.Prefetch,
		zl,
	)
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zl.Info("🚀 审计worker启动", zap.String("queue", cfg.MQ.Queue))
	return consumer.Consume(ctx, messaging.NewAuditHandler(rdb.NewAuditRepository(db), zl))
}
