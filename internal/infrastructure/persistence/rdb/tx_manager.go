package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/sbooks/internal/domain/shared"
)

type txKey struct{}

// TxManager 事务管理器
// fn内的所有仓储操作通过ctx拿到同一个事务连接；嵌套调用时GORM使用Savepoint
type TxManager struct {
	db *gorm.DB
}

var _ shared.Transactor = (*TxManager)(nil)

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务，fn返回error时ROLLBACK，返回nil时COMMIT
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    r, err := reviewRepo.LockByID(ctx, reviewID)
//	    ...
//	    return reviewRepo.AdjustCounters(ctx, reviewID, 1, 0)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn 从ctx取事务连接，没有事务时使用默认连接
// sqlite只有一个连接，事务内绕过ctx直接使用db会死锁，所以仓储必须统一经由conn取连接
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
