// Package rdb 关系数据库持久化（GORM），支持MySQL、PostgreSQL、SQLite
package rdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ecodeclub/ekit/retry"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// 纯Go实现的sqlite驱动，注册名为"sqlite"
	_ "modernc.org/sqlite"

	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/infrastructure/config"
)

// NewDB 创建数据库连接
//  1. 按driver选择GORM方言
//  2. 配置连接池（sqlite只允许单连接，避免写锁冲突）
//  3. 等待数据库就绪（容器编排时数据库可能晚于应用启动）
//  4. 按配置自动迁移表结构并初始化角色
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := newDialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.Database.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := waitForDB(context.Background(), sqlDB, cfg.Database.WaitTimeout, log); err != nil {
		return nil, err
	}
	log.Info("✓ 数据库连接成功", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}
	return db, nil
}

func newDialector(d config.DatabaseConfig) (gorm.Dialector, error) {
	switch d.Driver {
	case config.DriverMySQL:
		return mysql.Open(d.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(d.DSN()), nil
	case config.DriverSQLite:
		return &sqlite.Dialector{DriverName: "sqlite", DSN: d.DSN()}, nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", d.Driver)
	}
}

// waitForDB 指数退避重试Ping，timeout<=0时只尝试一次
func waitForDB(ctx context.Context, sqlDB *sql.DB, timeout time.Duration, log *zap.Logger) error {
	if timeout <= 0 {
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("数据库连接测试失败: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	strategy, err := retry.NewExponentialBackoffRetryStrategy(200*time.Millisecond, 5*time.Second, 30)
	if err != nil {
		return err
	}
	for {
		err := sqlDB.PingContext(ctx)
		if err == nil {
			return nil
		}
		next, ok := strategy.Next()
		if !ok {
			return fmt.Errorf("数据库连接测试失败: %w", err)
		}
		log.Warn("数据库未就绪，稍后重试", zap.Duration("retry_after", next), zap.Error(err))
		select {
		case <-ctx.Done():
			return fmt.Errorf("等待数据库超时: %w", err)
		case <-time.After(next):
		}
	}
}

// AutoMigrate 迁移表结构并写入内置角色
// AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&UserModel{},
		&RoleModel{},
		&UserRoleModel{},
		&AuthorModel{},
		&PublisherModel{},
		&BookModel{},
		&ReviewModel{},
		&ReviewVoteModel{},
		&FavoriteModel{},
		&SearchLogModel{},
		&ActivityLogModel{},
	); err != nil {
		return err
	}

	for _, name := range identity.KnownRoles {
		if err := db.Where(RoleModel{Name: name}).FirstOrCreate(&RoleModel{}).Error; err != nil {
			return fmt.Errorf("初始化角色%s失败: %w", name, err)
		}
	}
	return nil
}
