package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

func TestPage(t *testing.T) {
	t.Run("页码小于1", func(t *testing.T) {
		err := Page{Page: 0, PageSize: 10}.Validate()
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
	})

	t.Run("每页数量小于1", func(t *testing.T) {
		assert.Error(t, Page{Page: 1, PageSize: 0}.Validate())
	})

	t.Run("偏移量", func(t *testing.T) {
		p := Page{Page: 3, PageSize: 12}
		assert.NoError(t, p.Validate())
		assert.Equal(t, 24, p.Offset())
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Page{Page: 1, PageSize: 12}, Normalize(0, 0, 12, 50))
	assert.Equal(t, Page{Page: 2, PageSize: 50}, Normalize(2, 500, 12, 50))
	assert.Equal(t, Page{Page: 5, PageSize: 20}, Normalize(5, 20, 12, 50))

	p := Normalize(-1, 10, 12, 50)
	assert.Equal(t, -1, p.Page, "负数页码保留")
	assert.Error(t, p.Validate())
}

func TestNewResult(t *testing.T) {
	r := NewResult[string](nil, 0, Page{Page: 3, PageSize: 10})
	assert.NotNil(t, r.Items, "空结果序列化为[]")
	assert.Equal(t, 3, r.Page)
	assert.Equal(t, 10, r.PageSize)
}
