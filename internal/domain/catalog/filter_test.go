package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/sbooks/internal/domain/shared"
)

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, k)

	k, err = ParseSortKey(" Rating ")
	require.NoError(t, err)
	assert.Equal(t, SortRating, k)

	_, err = ParseSortKey("price")
	assert.Error(t, err)
}

func TestFilter_Validate(t *testing.T) {
	page := shared.Page{Page: 1, PageSize: 10}
	int64p := func(v int64) *int64 { return &v }
	intp := func(v int) *int { return &v }

	t.Run("负页码", func(t *testing.T) {
		f := Filter{Page: shared.Page{Page: -1, PageSize: 10}}
		assert.Error(t, f.Validate())
	})

	t.Run("默认排序与去空白", func(t *testing.T) {
		f := Filter{Query: "  go ", Page: page}
		require.NoError(t, f.Validate())
		assert.Equal(t, SortNewest, f.SortBy)
		assert.Equal(t, "go", f.Query)
	})

	t.Run("区间颠倒", func(t *testing.T) {
		f := Filter{MinPrice: int64p(500), MaxPrice: int64p(100), Page: page}
		assert.Error(t, f.Validate())

		f = Filter{MinYear: intp(2020), MaxYear: intp(2010), Page: page}
		assert.Error(t, f.Validate())

		from, before := time.Now(), time.Now().Add(-time.Hour)
		f = Filter{CreatedFrom: &from, CreatedBefore: &before, Page: page}
		assert.Error(t, f.Validate())
	})

	t.Run("起止同一天", func(t *testing.T) {
		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		f := Filter{CreatedFrom: &day, CreatedBefore: NextDay(&day), Page: page}
		assert.NoError(t, f.Validate())
	})
}

func TestNextDay(t *testing.T) {
	assert.Nil(t, NextDay(nil))

	day := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *NextDay(&day))

	noon := time.Date(2024, 12, 31, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *NextDay(&noon), "忽略时分秒")
	t.Logf("✓ 结束日期转为次日零点")
}
