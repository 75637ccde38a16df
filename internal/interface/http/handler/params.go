package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/sbooks/pkg/errors"
	"github.com/xiebiao/sbooks/pkg/response"
)

// pathID 解析路径中的正整数ID，失败时写入参数错误响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: 无效的"+name)
		return 0, false
	}
	return uint(id), true
}
