package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"herois-da-vida/backend/config"
	"herois-da-vida/backend/internal/access"
	"herois-da-vida/backend/internal/dto"
	"herois-da-vida/backend/internal/model"
	"herois-da-vida/backend/internal/repository"
	pkgerrors "herois-da-vida/backend/pkg/errors"
	"herois-da-vida/backend/pkg/jwt"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrTokenInvalid       = errors.New("Token 无效或已过期")
	ErrEmailExists        = errors.New("该邮箱已被注册")
	ErrUserNotFound       = errors.New("用户不存在")
)

// PasswordHasher 密码哈希接口，由 pkg/password.Hasher 实现
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error)
	// Authenticate 校验 Token 并确认主体仍存在，返回带最新角色的身份
	Authenticate(ctx context.Context, token string) (*access.Identity, error)
	GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	hasher PasswordHasher
	logger *zap.Logger
	now    func() time.Time

	// 邮箱不存在时也执行一次比对，使两条失败路径耗时接近
	dummyOnce   sync.Once
	dummyDigest string
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	hasher PasswordHasher,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}
}

// NormalizeEmail 邮箱规范化：去除首尾空白并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ═══════════════════════════════════════════════════════════
// Login：邮箱 + 密码登录
// ═══════════════════════════════════════════════════════════

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	// 1. 按规范化邮箱查询用户
	user, err := s.repo.User.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			s.hasher.Verify(req.Password, s.dummy())
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码，与"用户不存在"返回同一错误
	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// 3. 记录最近登录时间；期间用户被删除视为凭证无效
	now := s.now()
	if err := s.repo.User.TouchLastLogin(ctx, user.ID, now); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("更新最近登录时间失败", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	user.LastLogin = &now

	return s.issue(user)
}

// ═══════════════════════════════════════════════════════════
// Register：自助注册，角色固定为普通用户
// ═══════════════════════════════════════════════════════════

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error) {
	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         NormalizeEmail(req.Email),
		PasswordHash:  digest,
		Role:          model.RoleUser,
		DonatedOrgans: model.StringArray{},
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("新用户注册", zap.Int64("user_id", user.ID))
	return s.issue(user)
}

// ═══════════════════════════════════════════════════════════
// Authenticate：Token 验证 + 主体存在性检查
// ═══════════════════════════════════════════════════════════

func (s *authService) Authenticate(ctx context.Context, token string) (*access.Identity, error) {
	claims, err := s.jwtMgr.Parse(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	// 主体已被删除的 Token 视为无效
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		s.logger.Error("查询 Token 主体失败", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return nil, err
	}

	return &access.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

// GetCurrentUser 获取当前登录用户完整信息
func (s *authService) GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询当前用户失败", zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ── 内部方法 ──

func (s *authService) issue(user *model.User) (*dto.AuthResult, error) {
	token, err := s.jwtMgr.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("生成 Token 失败", zap.Error(err))
		return nil, err
	}
	return &dto.AuthResult{User: toUserResponse(user), Token: token}, nil
}

func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("herois-da-vida-dummy")
		if err != nil {
			s.logger.Warn("生成占位摘要失败", zap.Error(err))
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}
