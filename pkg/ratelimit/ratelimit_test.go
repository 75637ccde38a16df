package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiter_Allow(t *testing.T) {
	l := New(1, 2, 0)
	defer l.Stop()

	t.Run("桶容量内放行", func(t *testing.T) {
		assert.True(t, l.Allow("1.1.1.1"))
		assert.True(t, l.Allow("1.1.1.1"))
	})

	t.Run("超出容量拒绝", func(t *testing.T) {
		assert.False(t, l.Allow("1.1.1.1"))
	})

	t.Run("不同key互不影响", func(t *testing.T) {
		assert.True(t, l.Allow("2.2.2.2"))
	})
}

func TestKeyedLimiter_Evict(t *testing.T) {
	l := New(10, 10, time.Minute)
	defer l.Stop()

	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	l.evict(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, l.Len())
}
