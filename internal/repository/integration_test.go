//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"herois-da-vida/backend/internal/model"
	"herois-da-vida/backend/internal/repository"
	"herois-da-vida/backend/pkg/database"
	pkgerrors "herois-da-vida/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=herois password=herois_password dbname=herois_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	version, err := database.RunMigrations(sqlDB, zap.NewNop())
	if err != nil || version < 1 {
		fmt.Fprintf(os.Stderr, "迁移失败: version=%d err=%v\n", version, err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@Test.com", prefix, time.Now().UnixNano())
}

// ═══════════════════════════════════════════════════════════
// UserRepository
// ═══════════════════════════════════════════════════════════

func TestUserRepo_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepo(testDB)

	u := &model.User{Name: "Ana", Email: uniqueEmail("ana"), PasswordHash: "digest", Role: model.RoleUser,
		DonatedOrgans: model.StringArray{model.OrganHeart, model.OrganKidney}}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("期望分配 ID")
	}

	got, err := repo.GetByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("GetByEmail 失败: %v", err)
	}
	if got.ID != u.ID || len(got.DonatedOrgans) != 2 {
		t.Errorf("读取结果不符: %+v", got)
	}

	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := repo.GetByID(ctx, u.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
	if err := repo.Delete(ctx, u.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("重复删除期望 ErrNotFound，实际: %v", err)
	}
}

func TestUserRepo_DuplicateEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepo(testDB)

	email := uniqueEmail("dup")
	first := &model.User{Name: "A", Email: email, PasswordHash: "d", Role: model.RoleUser}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, first.ID) })

	second := &model.User{Name: "B", Email: email, PasswordHash: "d", Role: model.RoleUser}
	if err := repo.Create(ctx, second); !errors.Is(err, pkgerrors.ErrDuplicate) {
		t.Errorf("期望 ErrDuplicate，实际: %v", err)
	}
}

func TestUserRepo_UpdateNotFound(t *testing.T) {
	repo := repository.NewUserRepo(testDB)
	err := repo.Update(context.Background(), &model.User{ID: -1, Name: "x", Email: uniqueEmail("x"), Role: model.RoleUser})
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// CampaignRepository
// ═══════════════════════════════════════════════════════════

func TestCampaignRepo_AddParticipant(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCampaignRepo(testDB)

	c := &model.Campaign{Title: "Campanha Teste", Description: "descrição longa o bastante",
		TargetOrgan: model.OrganLung, Goal: 10, Status: model.CampaignActive, CreatedBy: 1}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, c.ID) })

	if err := repo.AddParticipant(ctx, c.ID, 7); err != nil {
		t.Fatalf("AddParticipant 失败: %v", err)
	}
	if err := repo.AddParticipant(ctx, c.ID, 7); !errors.Is(err, pkgerrors.ErrDuplicate) {
		t.Errorf("期望 ErrDuplicate，实际: %v", err)
	}
	if err := repo.AddParticipant(ctx, -1, 7); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}

	got, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if !got.Participants.Contains(7) {
		t.Errorf("期望参与者包含 7，实际: %v", got.Participants)
	}
}

func TestCampaignRepo_UpdateKeepsParticipants(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCampaignRepo(testDB)

	c := &model.Campaign{Title: "Campanha Fígado", Description: "descrição longa o bastante",
		TargetOrgan: model.OrganLiver, Goal: 10, Status: model.CampaignActive, CreatedBy: 1}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, c.ID) })

	stale, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if err := repo.AddParticipant(ctx, c.ID, 7); err != nil {
		t.Fatalf("AddParticipant 失败: %v", err)
	}

	stale.Goal = 50
	if err := repo.Update(ctx, stale); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	got, _ := repo.GetByID(ctx, c.ID)
	if got.Goal != 50 || !got.Participants.Contains(7) {
		t.Errorf("更新后应保留并发加入的参与者: goal=%d participants=%v", got.Goal, got.Participants)
	}
}

func TestUserRepo_TouchLastLogin(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepo(testDB)

	u := &model.User{Name: "Ana", Email: uniqueEmail("touch"), PasswordHash: "digest", Role: model.RoleUser}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, u.ID) })

	at := time.Now().UTC().Truncate(time.Second)
	if err := repo.TouchLastLogin(ctx, u.ID, at); err != nil {
		t.Fatalf("TouchLastLogin 失败: %v", err)
	}
	got, _ := repo.GetByID(ctx, u.ID)
	if got.LastLogin == nil || !got.LastLogin.Equal(at) {
		t.Errorf("最近登录时间不符: %v", got.LastLogin)
	}
	if got.PasswordHash != "digest" {
		t.Error("TouchLastLogin 不应改动其他字段")
	}

	if err := repo.TouchLastLogin(ctx, -1, at); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}
