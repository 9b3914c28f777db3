package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_LoginPolicy(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newMemory(func() time.Time { return clock })

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4:/api/auth/login", 5, 15*time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "第 %d 次应允许", i+1)
	}

	ok, _ := l.Allow(ctx, "1.2.3.4:/api/auth/login", 5, 15*time.Minute)
	assert.False(t, ok, "第 6 次应被拒绝")

	// 其他地址不受影响
	ok, _ = l.Allow(ctx, "5.6.7.8:/api/auth/login", 5, 15*time.Minute)
	assert.True(t, ok)

	// 窗口内不补充额度：首次请求后 15 分钟内始终拒绝
	clock = clock.Add(3 * time.Minute)
	ok, _ = l.Allow(ctx, "1.2.3.4:/api/auth/login", 5, 15*time.Minute)
	assert.False(t, ok, "3 分钟后仍应拒绝")
	clock = clock.Add(12*time.Minute - time.Second)
	ok, _ = l.Allow(ctx, "1.2.3.4:/api/auth/login", 5, 15*time.Minute)
	assert.False(t, ok, "窗口结束前一秒仍应拒绝")

	// 首次请求满 15 分钟后恢复全部额度
	clock = clock.Add(time.Second)
	for i := 0; i < 5; i++ {
		ok, _ = l.Allow(ctx, "1.2.3.4:/api/auth/login", 5, 15*time.Minute)
		assert.True(t, ok, "新窗口第 %d 次应允许", i+1)
	}
	ok, _ = l.Allow(ctx, "1.2.3.4:/api/auth/login", 5, 15*time.Minute)
	assert.False(t, ok)
}

// 每 10 秒尝试一次，持续一个窗口，放行次数不超过额度
func TestMemoryLimiter_SteadyAttemptsWithinWindow(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newMemory(func() time.Time { return clock })

	allowed := 0
	for elapsed := time.Duration(0); elapsed < 15*time.Minute; elapsed += 10 * time.Second {
		if ok, _ := l.Allow(ctx, "login:1.2.3.4", 5, 15*time.Minute); ok {
			allowed++
		}
		clock = clock.Add(10 * time.Second)
	}
	assert.Equal(t, 5, allowed)
}

func TestMemoryLimiter_GCRemovesIdleKeys(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newMemory(func() time.Time { return clock })

	_, _ = l.Allow(ctx, "a", 1, time.Minute)
	require.Len(t, l.limiters, 1)

	clock = clock.Add(2 * time.Hour)
	_, _ = l.Allow(ctx, "b", 1, time.Minute)
	assert.Len(t, l.limiters, 1)
	_, exists := l.limiters["a"]
	assert.False(t, exists)
}
