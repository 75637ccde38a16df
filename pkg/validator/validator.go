// Package validator 注册gin binding使用的自定义校验规则
//
// 已注册规则：
//   - notblank: 字符串去除首尾空白后不能为空（回复内容、作者名等）
//   - sortkey:  图书列表排序键（newest/oldest/title/rating/favorites）
package validator

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SortKeys 合法的图书列表排序键
var SortKeys = []string{"newest", "oldest", "title", "rating", "favorites"}

var once sync.Once

// Register 向gin默认校验引擎注册自定义规则（可重复调用）
func Register() error {
	var err error
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err = v.RegisterValidation("notblank", notBlank); err != nil {
			return
		}
		err = v.RegisterValidation("sortkey", sortKey)
	})
	return err
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func sortKey(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	for _, k := range SortKeys {
		if s == k {
			return true
		}
	}
	return false
}
