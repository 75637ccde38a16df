// Package ratelimit 按key（如客户端IP）限流的令牌桶
//
// 每个key拥有独立的rate.Limiter，长时间未访问的key会被后台协程回收，
// 避免公开接口被大量不同IP访问后map无限增长。
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter 按key限流
type KeyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// New 创建限流器
// rps: 每秒允许的请求数；burst: 桶容量；idleTTL: key空闲多久后回收（<=0表示不回收）
func New(rps float64, burst int, idleTTL time.Duration) *KeyedLimiter {
	l := &KeyedLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		done:    make(chan struct{}),
	}
	if idleTTL > 0 {
		go l.evictLoop()
	}
	return l
}

// Allow 非阻塞判断key当前请求是否放行
func (l *KeyedLimiter) Allow(key string) bool {
	return l.get(key, time.Now()).Allow()
}

// Len 当前跟踪的key数量
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Stop 停止后台回收协程
func (l *KeyedLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

func (l *KeyedLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (l *KeyedLimiter) evictLoop() {
	ticker := time.NewTicker(l.idleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			l.evict(now)
		}
	}
}

// evict 回收空闲超过idleTTL的key
func (l *KeyedLimiter) evict(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.entries, k)
		}
	}
}
