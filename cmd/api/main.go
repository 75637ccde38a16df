// Package main sbooks HTTP服务入口
//
// @title           sbooks API
// @version         1.0
// @description     图书目录、检索、评论与收藏服务
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/infrastructure/config"
	"github.com/xiebiao/sbooks/pkg/logger"
	"github.com/xiebiao/sbooks/pkg/metrics"
	"github.com/xiebiao/sbooks/pkg/tracing"
	"github.com/xiebiao/sbooks/pkg/validator"
)

// version 构建时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

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
		zl.Fatal("服务异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	if err := validator.Register(); err != nil {
		return err
	}
	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(context.Background(), tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Version:     version,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				zl.Warn("关闭链路追踪失败", zap.Error(err))
			}
		}()
		zl.Info("✓ 链路追踪已启用", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	app, cleanup, err := InitializeApp(cfg, zl)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("🚀 服务启动成功",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		zl.Info("📴 收到关闭信号，开始优雅关闭", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	// cleanup中等待审计日志写完后再关闭数据库
	zl.Info("✅ 服务已安全关闭")
	return nil
}
