package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"herois-da-vida/backend/internal/access"
	"herois-da-vida/backend/internal/dto"
	"herois-da-vida/backend/internal/model"
	"herois-da-vida/backend/internal/repository"
	pkgerrors "herois-da-vida/backend/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserSelfRoleChange = errors.New("不能修改自己的角色")
	ErrUserSelfDelete     = errors.New("不能删除自己的账号")
	ErrNoPermission       = errors.New("无权操作")
)

// UserService 用户业务接口
// viewer 为已通过认证的调用者，路由层已做角色/所有权检查，这里再做一次业务校验
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id int64, viewer access.Identity) (interface{}, error)
	List(ctx context.Context, viewer access.Identity) ([]interface{}, int, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest, viewer access.Identity) (*dto.UserResponse, error)
	Delete(ctx context.Context, id int64, viewer access.Identity) error
}

type userService struct {
	repo   *repository.Repository
	hasher PasswordHasher
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, hasher PasswordHasher, logger *zap.Logger) UserService {
	return &userService{repo: repo, hasher: hasher, logger: logger}
}

// Create 管理员创建用户，未指定角色时为普通用户
func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         NormalizeEmail(req.Email),
		PasswordHash:  digest,
		Role:          role,
		IsDonor:       req.IsDonor,
		DonatedOrgans: model.StringArray{},
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// GetByID 读取单个用户，非本人非管理员返回 ErrNoPermission
// 先做权限判断再查询，避免向无权调用者暴露用户是否存在
func (s *userService) GetByID(ctx context.Context, id int64, viewer access.Identity) (interface{}, error) {
	if !access.CanAccessOwned(viewer, id) {
		return nil, ErrNoPermission
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err)
	}
	return ProjectUser(user, viewer), nil
}

// List 按插入顺序列出全部用户，投影取决于调用者角色
func (s *userService) List(ctx context.Context, viewer access.Identity) ([]interface{}, int, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}
	return ProjectUserList(users, viewer), len(users), nil
}

// ═══════════════════════════════════════════════════════════
// Update：部分更新
// ═══════════════════════════════════════════════════════════
//
// 规则：
//   - 本人或管理员可更新
//   - 邮箱规范化后需唯一（排除自身）
//   - 修改角色仅限管理员，且管理员不能修改自己的角色
//   - 新密码重新哈希

func (s *userService) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest, viewer access.Identity) (*dto.UserResponse, error) {
	if !access.CanAccessOwned(viewer, id) {
		return nil, ErrNoPermission
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err)
	}

	if req.Role != nil && *req.Role != user.Role {
		if !access.CanChangeRole(viewer) {
			return nil, ErrNoPermission
		}
		if viewer.UserID == id {
			return nil, ErrUserSelfRoleChange
		}
		user.Role = *req.Role
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}

	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		if email != user.Email {
			existing, err := s.repo.User.GetByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != id:
				return nil, ErrEmailExists
			case err != nil && !errors.Is(err, pkgerrors.ErrNotFound):
				s.logger.Error("检查邮箱唯一性失败", zap.Error(err))
				return nil, err
			}
			user.Email = email
		}
	}

	if req.Password != nil {
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = digest
	}

	if req.IsDonor != nil {
		user.IsDonor = *req.IsDonor
	}

	if req.DonatedOrgans != nil {
		user.DonatedOrgans = dedupeOrgans(req.DonatedOrgans)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrDuplicate):
			return nil, ErrEmailExists
		case errors.Is(err, pkgerrors.ErrNotFound):
			return nil, ErrUserNotFound
		}
		s.logger.Error("更新用户失败", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// Delete 删除用户，管理员不能删除自己
// 该用户创建或参与的活动保留原引用
func (s *userService) Delete(ctx context.Context, id int64, viewer access.Identity) error {
	if !access.CanDeleteUser(viewer, id) {
		return ErrUserSelfDelete
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		return s.mapLookupError(err)
	}

	s.logger.Info("用户已删除", zap.Int64("user_id", id), zap.Int64("operator_id", viewer.UserID))
	return nil
}

// ── 内部方法 ──

func (s *userService) mapLookupError(err error) error {
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return ErrUserNotFound
	}
	s.logger.Error("查询用户失败", zap.Error(err))
	return err
}

func dedupeOrgans(organs []string) model.StringArray {
	seen := make(map[string]bool, len(organs))
	result := make(model.StringArray, 0, len(organs))
	for _, o := range organs {
		if seen[o] {
			continue
		}
		seen[o] = true
		result = append(result, o)
	}
	return result
}
