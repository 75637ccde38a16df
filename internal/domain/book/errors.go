package book

import (
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// 图书校验错误
var (
	ErrEmptyTitle   = apperrors.Invalid("书名不能为空")
	ErrTitleTooLong = apperrors.Invalid("书名不能超过200个字符")
	ErrInvalidPrice = apperrors.Invalid("价格不能为负数")
	ErrInvalidYear  = apperrors.Invalid("出版年份不合法")
)
