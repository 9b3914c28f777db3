package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"herois-da-vida/backend/config"
	"herois-da-vida/backend/internal/access"
	"herois-da-vida/backend/internal/model"
	"herois-da-vida/backend/internal/repository"
	"herois-da-vida/backend/pkg/jwt"
	"herois-da-vida/backend/pkg/password"
)

// ── 测试辅助 ──
//
// 业务测试直接使用内存仓储；需要注入存储故障时用下面的 failing* 包装。

var errStorageDown = errors.New("storage down")

// failingUserRepo 在 failOn 指定的方法上返回 errStorageDown，其余方法透传
type failingUserRepo struct {
	repository.UserRepository
	failOn string
}

func (f *failingUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.failOn == "GetByEmail" {
		return nil, errStorageDown
	}
	return f.UserRepository.GetByEmail(ctx, email)
}

func (f *failingUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if f.failOn == "GetByID" {
		return nil, errStorageDown
	}
	return f.UserRepository.GetByID(ctx, id)
}

func (f *failingUserRepo) List(ctx context.Context) ([]model.User, error) {
	if f.failOn == "List" {
		return nil, errStorageDown
	}
	return f.UserRepository.List(ctx)
}

// racingUserRepo 在 GetByEmail 返回后执行 afterGetByEmail，模拟并发写入
type racingUserRepo struct {
	repository.UserRepository
	afterGetByEmail func(u *model.User)
}

func (r *racingUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := r.UserRepository.GetByEmail(ctx, email)
	if err == nil {
		r.afterGetByEmail(u)
	}
	return u, err
}

// failingHasher 哈希总是失败
type failingHasher struct{ PasswordHasher }

func (failingHasher) Hash(string) (string, error) { return "", password.ErrHashFailed }

type testEnv struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	hasher *password.Hasher
	svc    *Service
}

func newTestEnv() *testEnv {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret-key-for-unit-testing-2026",
			Issuer:     "herois-da-vida",
			TokenTTL:   24 * time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		Seed: config.SeedConfig{
			Enabled:       true,
			AdminEmail:    "admin@heroisdevidas.com",
			AdminPassword: "admin123",
			UserEmail:     "usuario@teste.com",
			UserPassword:  "user123",
		},
	}
	repo := repository.NewMemoryRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	hasher := password.NewHasher(bcrypt.MinCost)
	return &testEnv{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		hasher: hasher,
		svc:    NewService(cfg, repo, jwtMgr, hasher, zap.NewNop()),
	}
}

// createUser 直接写入存储，返回对应身份
func (e *testEnv) createUser(name, email, plain, role string) (*model.User, access.Identity) {
	digest, _ := e.hasher.Hash(plain)
	u := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		Role:         role,
	}
	if err := e.repo.User.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u, access.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
