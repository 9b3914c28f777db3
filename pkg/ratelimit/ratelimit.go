// Package ratelimit 按客户端地址限制请求频率。
// Redis 可用时计数在实例间共享，否则退化为进程内计数，保证策略始终生效。
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"herois-da-vida/backend/pkg/redis"
)

// Limiter 限流器接口
type Limiter interface {
	// Allow 判断 key 在 window 内是否仍允许请求（最多 limit 次）
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// ── Redis 实现 ──

type redisLimiter struct {
	client *redis.Client
}

// NewRedis 基于 Redis 滑动窗口的限流器
func NewRedis(client *redis.Client) Limiter {
	return &redisLimiter{client: client}
}

func (l *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return l.client.CheckRateLimit(ctx, key, limit, window)
}

// ── 进程内实现 ──

// memoryLimiter 每个 key 一个计数窗口，从该 key 首次请求开始计时，
// 窗口内最多放行 limit 次，窗口结束后整体重置
type memoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	now      func() time.Time
	idleTTL  time.Duration
	lastGC   time.Time
}

type entry struct {
	limiter  *rate.Limiter
	resetAt  time.Time
	lastSeen time.Time
}

// NewMemory 创建进程内限流器
func NewMemory() Limiter {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memoryLimiter {
	return &memoryLimiter{
		limiters: make(map[string]*entry),
		now:      now,
		idleTTL:  time.Hour,
		lastGC:   now(),
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.gc(now)

	e, ok := l.limiters[key]
	if !ok || !now.Before(e.resetAt) {
		// 每个窗口补充不足一个令牌，窗口内放行次数不超过 limit
		e = &entry{
			limiter: rate.NewLimiter(rate.Every(window), limit),
			resetAt: now.Add(window),
		}
		l.limiters[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1), nil
}

// gc 清理长时间未使用的 key，调用方须持有锁
func (l *memoryLimiter) gc(now time.Time) {
	if now.Sub(l.lastGC) < l.idleTTL {
		return
	}
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.limiters, k)
		}
	}
	l.lastGC = now
}
