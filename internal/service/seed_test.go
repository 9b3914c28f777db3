package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"herois-da-vida/backend/config"
	"herois-da-vida/backend/internal/dto"
	"herois-da-vida/backend/internal/model"
)

func TestSeeder_SeedOnce(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ok, err := env.svc.Seeder.Seed(ctx)
	if err != nil || !ok {
		t.Fatalf("首次初始化应写入数据: ok=%v err=%v", ok, err)
	}

	users, _ := env.repo.User.List(ctx)
	if len(users) != 2 || users[0].Role != model.RoleAdmin || users[1].Role != model.RoleUser {
		t.Fatalf("演示用户不符: %+v", users)
	}
	campaigns, _ := env.repo.Campaign.List(ctx)
	if len(campaigns) != 2 {
		t.Fatalf("期望 2 个演示活动，实际=%d", len(campaigns))
	}
	if !campaigns[0].Participants.Contains(users[1].ID) {
		t.Error("首个活动应包含测试用户")
	}

	// 演示账号可登录
	res, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "admin@heroisdevidas.com", Password: "admin123"})
	if err != nil {
		t.Fatalf("演示管理员应可登录: %v", err)
	}
	if res.User.Role != model.RoleAdmin {
		t.Errorf("期望 admin，实际=%s", res.User.Role)
	}

	ok, err = env.svc.Seeder.Seed(ctx)
	if err != nil || ok {
		t.Errorf("已有数据时不应再次写入: ok=%v err=%v", ok, err)
	}
	if n, _ := env.repo.User.Count(ctx); n != 2 {
		t.Errorf("用户数应保持 2，实际=%d", n)
	}
}

func TestSeeder_Disabled(t *testing.T) {
	env := newTestEnv()
	env.cfg.Seed.Enabled = false

	ok, err := env.svc.Seeder.Seed(context.Background())
	if err != nil || ok {
		t.Errorf("关闭时不应写入: ok=%v err=%v", ok, err)
	}
}

func TestSeeder_WarnsOnDefaultAdminPassword(t *testing.T) {
	for _, tc := range []struct {
		password string
		warn     bool
	}{
		{config.DefaultSeedAdminPassword, true},
		{"Outra-Senha-42", false},
	} {
		env := newTestEnv()
		env.cfg.Seed.AdminPassword = tc.password
		core, logs := observer.New(zap.WarnLevel)
		seeder := NewSeeder(&env.cfg.Seed, env.repo, env.hasher, zap.New(core))

		if _, err := seeder.Seed(context.Background()); err != nil {
			t.Fatalf("初始化失败: %v", err)
		}
		if got := logs.FilterMessageSnippet("默认密码").Len() > 0; got != tc.warn {
			t.Errorf("密码 %q: 期望告警=%v，实际=%v", tc.password, tc.warn, got)
		}
	}
}
