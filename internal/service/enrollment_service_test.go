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

func setupEnrollmentFixture(t *testing.T) (EnrollmentService, *repository.Repository, *testMocks) {
	t.Helper()
	repo, mocks := newTestRepo()
	svc := NewEnrollmentService(repo, zap.NewNop())
	ctx := context.Background()

	for _, u := range []*model.User{
		{UserID: "u-1", Name: "Ana", Email: "ana@test.com", Role: model.RoleVolunteer},
		{UserID: "u-2", Name: "Luis", Email: "luis@test.com", Role: model.RoleVolunteer},
	} {
		_ = mocks.users.Create(ctx, u)
	}

	addOpportunity(mocks, "opp-1", "食物银行分拣", 2, time.Now().AddDate(0, 3, 0), time.Now().Add(-time.Hour))

	return svc, repo, mocks
}

func enrollPending(t *testing.T, svc EnrollmentService, userID, opportunityID string) string {
	t.Helper()
	result, err := svc.Enroll(context.Background(), &dto.EnrollRequest{OpportunityID: opportunityID}, userID)
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	return result.ID
}

// ── 报名测试 ──

func TestEnroll_Success(t *testing.T) {
	svc, _, mocks := setupEnrollmentFixture(t)

	result, err := svc.Enroll(context.Background(), &dto.EnrollRequest{
		OpportunityID: "opp-1",
		Comment:       "周末有空",
	}, "u-1")

	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	if result.Status != model.EnrollmentPending {
		t.Errorf("期望状态 pending，实际=%s", result.Status)
	}
	// 待审核报名不占名额
	if got := mocks.opportunities.opps["opp-1"].Seats; got != 2 {
		t.Errorf("报名不应扣减名额，实际=%d", got)
	}
}

func TestEnroll_Duplicate(t *testing.T) {
	svc, _, _ := setupEnrollmentFixture(t)
	enrollPending(t, svc, "u-1", "opp-1")

	_, err := svc.Enroll(context.Background(), &dto.EnrollRequest{OpportunityID: "opp-1"}, "u-1")
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("期望 ErrAlreadyEnrolled，实际: %v", err)
	}
}

func TestEnroll_ClosedOpportunity(t *testing.T) {
	svc, _, mocks := setupEnrollmentFixture(t)
	mocks.opportunities.opps["opp-1"].Status = model.OpportunityClosed

	_, err := svc.Enroll(context.Background(), &dto.EnrollRequest{OpportunityID: "opp-1"}, "u-1")
	if !errors.Is(err, ErrOpportunityClosed) {
		t.Errorf("期望 ErrOpportunityClosed，实际: %v", err)
	}
}

func TestEnroll_OpportunityNotFound(t *testing.T) {
	svc, _, _ := setupEnrollmentFixture(t)

	_, err := svc.Enroll(context.Background(), &dto.EnrollRequest{OpportunityID: "nonexistent"}, "u-1")
	if !errors.Is(err, ErrOpportunityNotFound) {
		t.Errorf("期望 ErrOpportunityNotFound，实际: %v", err)
	}
}

// ── 审核测试 ──

func TestApprove_DecrementsSeats(t *testing.T) {
	svc, _, mocks := setupEnrollmentFixture(t)
	id := enrollPending(t, svc, "u-1", "opp-1")

	result, err := svc.Approve(context.Background(), id, "org-admin")
	if err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}
	if result.Status != model.EnrollmentAccepted {
		t.Errorf("期望状态 accepted，实际=%s", result.Status)
	}
	if got := mocks.opportunities.opps["opp-1"].Seats; got != 1 {
		t.Errorf("审核通过应扣减 1 个名额，实际=%d", got)
	}
	// 志愿者收到通知
	if got := len(mocks.notifications.forUser("u-1")); got != 1 {
		t.Errorf("期望志愿者收到 1 条通知，实际=%d", got)
	}
}

func TestApprove_LastSeatClosesOpportunity(t *testing.T) {
	svc, _, mocks := setupEnrollmentFixture(t)
	mocks.opportunities.opps["opp-1"].Seats = 1
	id := enrollPending(t, svc, "u-1", "opp-1")

	if _, err := svc.Approve(context.Background(), id, "org-admin"); err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}

	opp := mocks.opportunities.opps["opp-1"]
	if opp.Seats != 0 {
		t.Errorf("期望名额 0，实际=%d", opp.Seats)
	}
	if opp.Status != model.OpportunityClosed {
		t.Errorf("最后一个名额用尽后机会应关闭，实际=%s", opp.Status)
	}
}

func TestApprove_FullOpportunity(t *testing.T) {
	svc, _, mocks := setupEnrollmentFixture(t)
	id := enrollPending(t, svc, "u-1", "opp-1")
	mocks.opportunities.opps["opp-1"].Seats = 0

	_, err := svc.Approve(context.Background(), id, "org-admin")
	if !errors.Is(err, ErrOpportunityFull) {
		t.Errorf("期望 ErrOpportunityFull，实际: %v", err)
	}
	// 扣减失败先于状态变更：报名仍为 pending
	if got := mocks.enrollments.enrollments[id].Status; got != model.EnrollmentPending {
		t.Errorf("审核失败报名应保持 pending，实际=%s", got)
	}
}

func TestApprove_AlreadyReviewed(t *testing.T) {
	svc, _, _ := setupEnrollmentFixture(t)
	id := enrollPending(t, svc, "u-1", "opp-1")

	if _, err := svc.Approve(context.Background(), id, "org-admin"); err != nil {
		t.Fatalf("首次 Approve 应成功: %v", err)
	}

	_, err := svc.Approve(context.Background(), id, "org-admin")
	if !errors.Is(err, ErrEnrollmentNotPending) {
		t.Errorf("期望 ErrEnrollmentNotPending，实际: %v", err)
	}
}

func TestReject_Enrollment(t *testing.T) {
	svc, _, mocks := setupEnrollmentFixture(t)
	id := enrollPending(t, svc, "u-1", "opp-1")

	result, err := svc.Reject(context.Background(), id, "org-admin")
	if err != nil {
		t.Fatalf("Reject 应成功: %v", err)
	}
	if result.Status != model.EnrollmentRejected {
		t.Errorf("期望状态 rejected，实际=%s", result.Status)
	}
	// 拒绝不影响名额
	if got := mocks.opportunities.opps["opp-1"].Seats; got != 2 {
		t.Errorf("拒绝不应影响名额，实际=%d", got)
	}
}

// ── 完成 / 退出测试 ──

func TestComplete_Success(t *testing.T) {
	svc, _, _ := setupEnrollmentFixture(t)
	id := enrollPending(t, svc, "u-1", "opp-1")

	if _, err := svc.Approve(context.Background(), id, "org-admin"); err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}

	result, err := svc.Complete(context.Background(), id, "org-admin")
	if err != nil {
		t.Fatalf("Complete 应成功: %v", err)
	}
	if result.Status != model.EnrollmentCompleted {
		t.Errorf("期望状态 completed，实际=%s", result.Status)
	}
}

func TestComplete_NotAccepted(t *testing.T) {
	svc, _, _ := setupEnrollmentFixture(t)
	id := enrollPending(t, svc, "u-1", "opp-1")

	_, err := svc.Complete(context.Background(), id, "org-admin")
	if !errors.Is(err, ErrEnrollmentNotDone) {
		t.Errorf("期望 ErrEnrollmentNotDone，实际: %v", err)
	}
}

func TestWithdraw_AcceptedRefundsSeat(t *testing.T) {
	svc, _, mocks := setupEnrollmentFixture(t)
	mocks.opportunities.opps["opp-1"].Seats = 1
	id := enrollPending(t, svc, "u-1", "opp-1")

	if _, err := svc.Approve(context.Background(), id, "org-admin"); err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}
	// 名额用尽，机会关闭
	if got := mocks.opportunities.opps["opp-1"].Status; got != model.OpportunityClosed {
		t.Fatalf("前置条件失败：机会应已关闭，实际=%s", got)
	}

	if err := svc.Withdraw(context.Background(), id, "u-1"); err != nil {
		t.Fatalf("Withdraw 应成功: %v", err)
	}

	opp := mocks.opportunities.opps["opp-1"]
	if opp.Seats != 1 {
		t.Errorf("退出已通过报名应回补名额，实际=%d", opp.Seats)
	}
	if opp.Status != model.OpportunityOpen {
		t.Errorf("回补名额后机会应重新开放，实际=%s", opp.Status)
	}
	if _, ok := mocks.enrollments.enrollments[id]; ok {
		t.Error("退出后报名记录应被删除")
	}
}

func TestWithdraw_PendingNoRefund(t *testing.T) {
	svc, _, mocks := setupEnrollmentFixture(t)
	id := enrollPending(t, svc, "u-1", "opp-1")

	if err := svc.Withdraw(context.Background(), id, "u-1"); err != nil {
		t.Fatalf("Withdraw 应成功: %v", err)
	}
	// 待审核报名从未占名额
	if got := mocks.opportunities.opps["opp-1"].Seats; got != 2 {
		t.Errorf("退出待审核报名不应改动名额，实际=%d", got)
	}
}

func TestWithdraw_NotOwner(t *testing.T) {
	svc, _, _ := setupEnrollmentFixture(t)
	id := enrollPending(t, svc, "u-1", "opp-1")

	err := svc.Withdraw(context.Background(), id, "u-2")
	if !errors.Is(err, ErrEnrollmentNotOwner) {
		t.Errorf("期望 ErrEnrollmentNotOwner，实际: %v", err)
	}
}

func TestListMine_FilterByStatus(t *testing.T) {
	svc, _, mocks := setupEnrollmentFixture(t)
	addOpportunity(mocks, "opp-2", "流浪动物救助", 2, time.Now().AddDate(0, 3, 0), time.Now())

	id1 := enrollPending(t, svc, "u-1", "opp-1")
	enrollPending(t, svc, "u-1", "opp-2")
	if _, err := svc.Approve(context.Background(), id1, "org-admin"); err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}

	accepted, err := svc.ListMine(context.Background(), "u-1", model.EnrollmentAccepted)
	if err != nil {
		t.Fatalf("ListMine 应成功: %v", err)
	}
	if len(accepted) != 1 || accepted[0].ID != id1 {
		t.Errorf("期望仅 1 条 accepted 报名，实际=%d", len(accepted))
	}

	all, err := svc.ListMine(context.Background(), "u-1", "")
	if err != nil {
		t.Fatalf("ListMine 应成功: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("期望 2 条报名，实际=%d", len(all))
	}
}
