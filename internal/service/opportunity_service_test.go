package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ahinoa17/RedSolidaria/internal/dto"
	"github.com/ahinoa17/RedSolidaria/internal/model"
	"github.com/ahinoa17/RedSolidaria/internal/repository"
)

// ── 测试辅助 ──

func setupOpportunityFixture(t *testing.T) (OpportunityService, *repository.Repository, *testMocks) {
	t.Helper()
	repo, mocks := newTestRepo()
	svc := NewOpportunityService(repo, zap.NewNop())

	_ = mocks.orgs.Create(context.Background(), &model.Organization{
		OrganizationID: "org-1",
		Name:           "Cruz Verde",
	})

	return svc, repo, mocks
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// ── 创建测试 ──

func TestCreateOpportunity_Success(t *testing.T) {
	svc, _, _ := setupOpportunityFixture(t)

	result, err := svc.Create(context.Background(), &dto.CreateOpportunityRequest{
		OrganizationID: "org-1",
		Title:          "食物银行分拣",
		Location:       "马德里",
		StartDate:      "2026-09-15",
		EndDate:        "2026-12-15",
		Seats:          10,
	}, "u-admin")

	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Status != model.OpportunityOpen {
		t.Errorf("新机会期望 open，实际=%s", result.Status)
	}
	if result.Seats != 10 {
		t.Errorf("期望名额 10，实际=%d", result.Seats)
	}
	if result.StartDate != "2026-09-15" || result.EndDate != "2026-12-15" {
		t.Errorf("日期往返失真: %s ~ %s", result.StartDate, result.EndDate)
	}
}

func TestCreateOpportunity_DateOrder(t *testing.T) {
	svc, _, _ := setupOpportunityFixture(t)

	_, err := svc.Create(context.Background(), &dto.CreateOpportunityRequest{
		OrganizationID: "org-1",
		Title:          "日期颠倒",
		StartDate:      "2026-12-15",
		EndDate:        "2026-09-15",
		Seats:          5,
	}, "u-admin")

	if !errors.Is(err, ErrOpportunityDateOrder) {
		t.Errorf("期望 ErrOpportunityDateOrder，实际: %v", err)
	}
}

func TestCreateOpportunity_OrganizationNotFound(t *testing.T) {
	svc, _, _ := setupOpportunityFixture(t)

	_, err := svc.Create(context.Background(), &dto.CreateOpportunityRequest{
		OrganizationID: "nonexistent",
		Title:          "无组织",
		StartDate:      "2026-09-15",
		EndDate:        "2026-12-15",
		Seats:          5,
	}, "u-admin")

	if !errors.Is(err, ErrOrganizationNotFound) {
		t.Errorf("期望 ErrOrganizationNotFound，实际: %v", err)
	}
}

// ── 更新测试 ──

func TestUpdateOpportunity_PartialFields(t *testing.T) {
	svc, _, mocks := setupOpportunityFixture(t)
	addOpportunity(mocks, "opp-1", "食物银行分拣", 10, time.Now().AddDate(0, 3, 0), time.Now())

	result, err := svc.Update(context.Background(), "opp-1", &dto.UpdateOpportunityRequest{
		Title: strPtr("食物银行分拣（周末场）"),
	}, "u-admin")

	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Title != "食物银行分拣（周末场）" {
		t.Errorf("标题未更新，实际=%s", result.Title)
	}
	// 未传字段保持原值
	if result.Seats != 10 {
		t.Errorf("未传名额不应变化，实际=%d", result.Seats)
	}
}

func TestUpdateOpportunity_ZeroSeatsCloses(t *testing.T) {
	svc, _, mocks := setupOpportunityFixture(t)
	addOpportunity(mocks, "opp-1", "食物银行分拣", 10, time.Now().AddDate(0, 3, 0), time.Now())

	result, err := svc.Update(context.Background(), "opp-1", &dto.UpdateOpportunityRequest{
		Seats: intPtr(0),
	}, "u-admin")

	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Status != model.OpportunityClosed {
		t.Errorf("名额清零应自动关闭，实际=%s", result.Status)
	}
}

func TestUpdateOpportunity_VersionConflict(t *testing.T) {
	svc, _, mocks := setupOpportunityFixture(t)
	addOpportunity(mocks, "opp-1", "食物银行分拣", 10, time.Now().AddDate(0, 3, 0), time.Now())
	mocks.opportunities.conflictIDs["opp-1"] = true

	_, err := svc.Update(context.Background(), "opp-1", &dto.UpdateOpportunityRequest{
		Title: strPtr("并发修改"),
	}, "u-admin")

	if !errors.Is(err, ErrOpportunityConflict) {
		t.Errorf("期望 ErrOpportunityConflict，实际: %v", err)
	}
}

func TestUpdateOpportunity_NotFound(t *testing.T) {
	svc, _, _ := setupOpportunityFixture(t)

	_, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateOpportunityRequest{
		Title: strPtr("不存在"),
	}, "u-admin")

	if !errors.Is(err, ErrOpportunityNotFound) {
		t.Errorf("期望 ErrOpportunityNotFound，实际: %v", err)
	}
}

// ── 列表测试 ──

func TestListOpportunities_FilterByStatus(t *testing.T) {
	svc, _, mocks := setupOpportunityFixture(t)
	addOpportunity(mocks, "opp-1", "开放机会", 5, time.Now().AddDate(0, 3, 0), time.Now())
	closed := addOpportunity(mocks, "opp-2", "关闭机会", 0, time.Now().AddDate(0, 3, 0), time.Now())
	closed.Status = model.OpportunityClosed

	result, total, err := svc.List(context.Background(), &dto.OpportunityListRequest{
		Status: model.OpportunityOpen,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(result) != 1 {
		t.Fatalf("期望 1 条开放机会，实际 total=%d len=%d", total, len(result))
	}
	if result[0].ID != "opp-1" {
		t.Errorf("期望 opp-1，实际=%s", result[0].ID)
	}
}
