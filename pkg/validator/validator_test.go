package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replyForm struct {
	Comment string `binding:"required,notblank"`
	SortBy  string `binding:"omitempty,sortkey"`
}

func TestRegister(t *testing.T) {
	require.NoError(t, Register())
	require.NoError(t, Register())

	t.Run("空白内容被拒绝", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&replyForm{Comment: "   "})
		assert.Error(t, err)
	})

	t.Run("正常内容通过", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&replyForm{Comment: "写得好", SortBy: "rating"})
		assert.NoError(t, err)
	})

	t.Run("未知排序键被拒绝", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&replyForm{Comment: "ok", SortBy: "price"})
		assert.Error(t, err)
	})
}
