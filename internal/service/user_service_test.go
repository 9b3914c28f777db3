package service

import (
	"context"
	"errors"
	"testing"

	"herois-da-vida/backend/internal/access"
	"herois-da-vida/backend/internal/dto"
	"herois-da-vida/backend/internal/model"
)

// ── Create ──

func TestUserService_Create_DefaultRole(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.User.Create(context.Background(), &dto.CreateUserRequest{
		Name: "Carlos", Email: "Carlos@Test.com", Password: "Senha123", IsDonor: true,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Role != model.RoleUser {
		t.Errorf("未指定角色时应为 user，实际=%s", resp.Role)
	}
	if !resp.IsDonor {
		t.Error("IsDonor 应为 true")
	}
	if resp.Email != "carlos@test.com" {
		t.Errorf("邮箱应规范化，实际=%s", resp.Email)
	}
}

func TestUserService_Create_DuplicateEmailIgnoresCase(t *testing.T) {
	env := newTestEnv()
	env.createUser("A", "a@x.com", "Senha123", model.RoleUser)

	_, err := env.svc.User.Create(context.Background(), &dto.CreateUserRequest{
		Name: "Outro", Email: "A@X.com", Password: "Senha123",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
	if n, _ := env.repo.User.Count(context.Background()); n != 1 {
		t.Errorf("冲突时不应写入，实际数量=%d", n)
	}
}

// ── GetByID ──

func TestUserService_GetByID_OwnerAndAdmin(t *testing.T) {
	env := newTestEnv()
	_, admin := env.createUser("Admin", "admin@x.com", "Senha123", model.RoleAdmin)
	user, self := env.createUser("Maria", "maria@x.com", "Senha123", model.RoleUser)

	for name, viewer := range map[string]access.Identity{"本人": self, "管理员": admin} {
		got, err := env.svc.User.GetByID(context.Background(), user.ID, viewer)
		if err != nil {
			t.Fatalf("%s 读取应成功: %v", name, err)
		}
		if _, ok := got.(dto.UserResponse); !ok {
			t.Errorf("%s 应得到完整投影，实际类型=%T", name, got)
		}
	}
}

func TestUserService_GetByID_Forbidden(t *testing.T) {
	env := newTestEnv()
	target, _ := env.createUser("Maria", "maria@x.com", "Senha123", model.RoleUser)
	_, other := env.createUser("Outro", "outro@x.com", "Senha123", model.RoleUser)

	// 目标不存在时同样返回 ErrNoPermission，不暴露存在性
	for _, id := range []int64{target.ID, 999} {
		_, err := env.svc.User.GetByID(context.Background(), id, other)
		if !errors.Is(err, ErrNoPermission) {
			t.Errorf("id=%d 期望 ErrNoPermission，实际: %v", id, err)
		}
	}
}

func TestUserService_GetByID_NotFoundForAdmin(t *testing.T) {
	env := newTestEnv()
	_, admin := env.createUser("Admin", "admin@x.com", "Senha123", model.RoleAdmin)

	_, err := env.svc.User.GetByID(context.Background(), 999, admin)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── List ──

func TestUserService_List_Projection(t *testing.T) {
	env := newTestEnv()
	_, admin := env.createUser("Admin", "admin@x.com", "Senha123", model.RoleAdmin)
	_, user := env.createUser("Maria", "maria@x.com", "Senha123", model.RoleUser)
	env.createUser("João", "joao@x.com", "Senha123", model.RoleUser)

	adminView, total, err := env.svc.User.List(context.Background(), admin)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 3 || len(adminView) != 3 {
		t.Fatalf("期望 3 条，实际 total=%d len=%d", total, len(adminView))
	}
	for i, item := range adminView {
		if _, ok := item.(dto.UserResponse); !ok {
			t.Errorf("管理员第 %d 条应为完整投影，实际=%T", i, item)
		}
	}

	userView, _, err := env.svc.User.List(context.Background(), user)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	for i, item := range userView {
		if _, ok := item.(dto.UserPublicResponse); !ok {
			t.Errorf("普通用户第 %d 条应为精简投影，实际=%T", i, item)
		}
	}
	if first := userView[0].(dto.UserPublicResponse); first.Name != "Admin" {
		t.Errorf("列表应保持插入顺序，首条=%s", first.Name)
	}
}

// ── Update ──

func TestUserService_Update_EmailConflict(t *testing.T) {
	env := newTestEnv()
	env.createUser("A", "a@x.com", "Senha123", model.RoleUser)
	_, b := env.createUser("B", "b@x.com", "Senha123", model.RoleUser)

	_, err := env.svc.User.Update(context.Background(), b.UserID, &dto.UpdateUserRequest{
		Email: strPtr("A@x.com"),
	}, b)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestUserService_Update_OwnEmailNoConflict(t *testing.T) {
	env := newTestEnv()
	_, a := env.createUser("A", "a@x.com", "Senha123", model.RoleUser)

	resp, err := env.svc.User.Update(context.Background(), a.UserID, &dto.UpdateUserRequest{
		Email: strPtr("A@X.com"),
		Name:  strPtr("  Alice  "),
	}, a)
	if err != nil {
		t.Fatalf("更新为自身邮箱不应冲突: %v", err)
	}
	if resp.Email != "a@x.com" || resp.Name != "Alice" {
		t.Errorf("结果不符: email=%s name=%q", resp.Email, resp.Name)
	}
}

func TestUserService_Update_Password(t *testing.T) {
	env := newTestEnv()
	_, a := env.createUser("A", "a@x.com", "Senha123", model.RoleUser)

	if _, err := env.svc.User.Update(context.Background(), a.UserID, &dto.UpdateUserRequest{
		Password: strPtr("NovaSenha9"),
	}, a); err != nil {
		t.Fatalf("更新密码应成功: %v", err)
	}

	if _, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{Email: "a@x.com", Password: "NovaSenha9"}); err != nil {
		t.Errorf("新密码应可登录: %v", err)
	}
	if _, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{Email: "a@x.com", Password: "Senha123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}
}

func TestUserService_Update_DonorFields(t *testing.T) {
	env := newTestEnv()
	_, a := env.createUser("A", "a@x.com", "Senha123", model.RoleUser)

	resp, err := env.svc.User.Update(context.Background(), a.UserID, &dto.UpdateUserRequest{
		IsDonor:       boolPtr(true),
		DonatedOrgans: []string{"heart", "kidney", "heart"},
	}, a)
	if err != nil {
		t.Fatalf("更新应成功: %v", err)
	}
	if !resp.IsDonor {
		t.Error("IsDonor 应为 true")
	}
	if len(resp.DonatedOrgans) != 2 {
		t.Errorf("器官应去重，实际=%v", resp.DonatedOrgans)
	}
}

func TestUserService_Update_RoleRules(t *testing.T) {
	env := newTestEnv()
	_, admin := env.createUser("Admin", "admin@x.com", "Senha123", model.RoleAdmin)
	_, user := env.createUser("Maria", "maria@x.com", "Senha123", model.RoleUser)
	ctx := context.Background()

	// 普通用户不能提升自己
	_, err := env.svc.User.Update(ctx, user.UserID, &dto.UpdateUserRequest{Role: strPtr(model.RoleAdmin)}, user)
	if !errors.Is(err, ErrNoPermission) {
		t.Errorf("期望 ErrNoPermission，实际: %v", err)
	}

	// 管理员不能修改自己的角色
	_, err = env.svc.User.Update(ctx, admin.UserID, &dto.UpdateUserRequest{Role: strPtr(model.RoleUser)}, admin)
	if !errors.Is(err, ErrUserSelfRoleChange) {
		t.Errorf("期望 ErrUserSelfRoleChange，实际: %v", err)
	}

	// 管理员可修改他人角色
	resp, err := env.svc.User.Update(ctx, user.UserID, &dto.UpdateUserRequest{Role: strPtr(model.RoleAdmin)}, admin)
	if err != nil {
		t.Fatalf("管理员修改角色应成功: %v", err)
	}
	if resp.Role != model.RoleAdmin {
		t.Errorf("期望 role=admin，实际=%s", resp.Role)
	}
}

func TestUserService_Update_OtherUserForbidden(t *testing.T) {
	env := newTestEnv()
	a, _ := env.createUser("A", "a@x.com", "Senha123", model.RoleUser)
	_, b := env.createUser("B", "b@x.com", "Senha123", model.RoleUser)

	_, err := env.svc.User.Update(context.Background(), a.ID, &dto.UpdateUserRequest{Name: strPtr("Hack")}, b)
	if !errors.Is(err, ErrNoPermission) {
		t.Errorf("期望 ErrNoPermission，实际: %v", err)
	}
}

// ── Delete ──

func TestUserService_Delete_Self(t *testing.T) {
	env := newTestEnv()
	_, admin := env.createUser("Admin", "admin@x.com", "Senha123", model.RoleAdmin)

	err := env.svc.User.Delete(context.Background(), admin.UserID, admin)
	if !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("期望 ErrUserSelfDelete，实际: %v", err)
	}
	if _, err := env.repo.User.GetByID(context.Background(), admin.UserID); err != nil {
		t.Error("自删失败后管理员应仍存在")
	}
}

func TestUserService_Delete_Other(t *testing.T) {
	env := newTestEnv()
	_, admin := env.createUser("Admin", "admin@x.com", "Senha123", model.RoleAdmin)
	target, _ := env.createUser("Maria", "maria@x.com", "Senha123", model.RoleUser)

	if err := env.svc.User.Delete(context.Background(), target.ID, admin); err != nil {
		t.Fatalf("删除应成功: %v", err)
	}

	list, total, _ := env.svc.User.List(context.Background(), admin)
	if total != 1 {
		t.Errorf("删除后应剩 1 条，实际=%d", total)
	}
	for _, item := range list {
		if item.(dto.UserResponse).ID == target.ID {
			t.Error("被删除用户不应出现在列表中")
		}
	}

	if err := env.svc.User.Delete(context.Background(), target.ID, admin); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("重复删除期望 ErrUserNotFound，实际: %v", err)
	}
}
