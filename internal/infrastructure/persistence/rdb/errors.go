package rdb

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// isDuplicateError 判断是否违反唯一约束
//   - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
//   - PostgreSQL 23505: duplicate key value violates unique constraint
//   - SQLite: UNIQUE constraint failed: table.column
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// dbError 包装数据库错误，细节只写日志不返回给客户端
func dbError(err error, message string) error {
	return apperrors.WithCode(apperrors.ErrCodeDatabaseError, message, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
