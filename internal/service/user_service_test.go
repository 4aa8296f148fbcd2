package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ahinoa17/RedSolidaria/internal/dto"
	"github.com/ahinoa17/RedSolidaria/internal/model"
)

// ── 测试辅助 ──

func setupTestUserService() (UserService, *testMocks) {
	repo, mocks := newTestRepo()
	svc := NewUserService(repo, zap.NewNop())
	return svc, mocks
}

// ── 资料测试 ──

func TestGetProfile_Success(t *testing.T) {
	svc, mocks := setupTestUserService()
	createTestUser(mocks, "ana@test.com", "password123")

	result, err := svc.GetProfile(context.Background(), "user-ana@test.com")
	if err != nil {
		t.Fatalf("GetProfile 应成功: %v", err)
	}
	if result.Email != "ana@test.com" {
		t.Errorf("期望 Email=ana@test.com，实际=%s", result.Email)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.GetProfile(context.Background(), "nonexistent")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	svc, mocks := setupTestUserService()
	createTestUser(mocks, "ana@test.com", "password123")

	result, err := svc.UpdateProfile(context.Background(), "user-ana@test.com", &dto.UpdateUserRequest{
		Phone: strPtr("+34 600 111 222"),
	})

	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}
	if result.Phone != "+34 600 111 222" {
		t.Errorf("电话未更新，实际=%s", result.Phone)
	}
	// 未传字段保持原值
	if result.Name != "测试用户" {
		t.Errorf("未传姓名不应变化，实际=%s", result.Name)
	}
}

// ── 角色分配测试 ──

func TestAssignRole_Success(t *testing.T) {
	svc, mocks := setupTestUserService()
	createTestUser(mocks, "ana@test.com", "password123")

	err := svc.AssignRole(context.Background(), "user-ana@test.com", model.RoleOrganizer, "u-admin")
	if err != nil {
		t.Fatalf("AssignRole 应成功: %v", err)
	}
	if got := mocks.users.users["user-ana@test.com"].Role; got != model.RoleOrganizer {
		t.Errorf("期望角色 organizer，实际=%s", got)
	}
}

func TestAssignRole_UserNotFound(t *testing.T) {
	svc, _ := setupTestUserService()

	err := svc.AssignRole(context.Background(), "nonexistent", model.RoleAdmin, "u-admin")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── 列表测试 ──

func TestListUsers_Pagination(t *testing.T) {
	svc, mocks := setupTestUserService()
	createTestUser(mocks, "a@test.com", "password123")
	createTestUser(mocks, "b@test.com", "password123")
	createTestUser(mocks, "c@test.com", "password123")

	result, total, err := svc.List(context.Background(), &dto.PaginationRequest{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 3 {
		t.Errorf("期望 total=3，实际=%d", total)
	}
	if len(result) != 2 {
		t.Errorf("期望每页 2 条，实际=%d", len(result))
	}
}
