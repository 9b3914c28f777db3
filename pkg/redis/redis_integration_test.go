//go:build integration

package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"herois-da-vida/backend/config"
)

func TestCheckRateLimit_SlidingWindow(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	c, err := NewClient(&config.RedisConfig{Addr: addr}, zap.NewNop())
	if err != nil {
		t.Skipf("Redis 不可用: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	key := fmt.Sprintf("test:%d", time.Now().UnixNano())

	for i := 0; i < 3; i++ {
		ok, err := c.CheckRateLimit(ctx, key, 3, time.Second)
		if err != nil {
			t.Fatalf("CheckRateLimit 失败: %v", err)
		}
		if !ok {
			t.Fatalf("第 %d 次应允许", i+1)
		}
	}
	if ok, _ := c.CheckRateLimit(ctx, key, 3, time.Second); ok {
		t.Error("超出限额应拒绝")
	}

	time.Sleep(1100 * time.Millisecond)
	if ok, _ := c.CheckRateLimit(ctx, key, 3, time.Second); !ok {
		t.Error("窗口滑过后应恢复")
	}
}
