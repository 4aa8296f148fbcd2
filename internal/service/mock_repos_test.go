package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ahinoa17/RedSolidaria/internal/model"
	"github.com/ahinoa17/RedSolidaria/internal/repository"
	pkgerrors "github.com/ahinoa17/RedSolidaria/pkg/errors"
)

// ── Mock TxManager ──
//
// 单测中没有真实数据库事务：Atomic 直接以同一 Repository 执行回调。
// 事务语义（回滚）由各测试对错误路径单独验证。

type mockTxManager struct {
	repo *repository.Repository
}

func (m *mockTxManager) Atomic(_ context.Context, fn func(*repository.Repository) error) error {
	return fn(m.repo)
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id 与 "email:"+email
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	if user.Email != "" {
		m.users["email:"+user.Email] = user
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users["email:"+email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.users["email:"+email]
	return ok, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	if user.Email != "" {
		m.users["email:"+user.Email] = user
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	seen := make(map[string]bool)
	var all []model.User
	for key, u := range m.users {
		if strings.HasPrefix(key, "email:") || seen[u.UserID] {
			continue
		}
		seen[u.UserID] = true
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

// ── Mock OrganizationRepository ──

type mockOrganizationRepo struct {
	orgs map[string]*model.Organization
}

func newMockOrganizationRepo() *mockOrganizationRepo {
	return &mockOrganizationRepo{orgs: make(map[string]*model.Organization)}
}

func (m *mockOrganizationRepo) Create(_ context.Context, org *model.Organization) error {
	if org.OrganizationID == "" {
		org.OrganizationID = "org-" + org.Name
	}
	m.orgs[org.OrganizationID] = org
	return nil
}

func (m *mockOrganizationRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrganizationRepo) Update(_ context.Context, org *model.Organization) error {
	m.orgs[org.OrganizationID] = org
	return nil
}

func (m *mockOrganizationRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.orgs, id)
	return nil
}

func (m *mockOrganizationRepo) List(_ context.Context, offset, limit int) ([]model.Organization, int64, error) {
	var all []model.Organization
	for _, o := range m.orgs {
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OrganizationID < all[j].OrganizationID })
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

// ── Mock OpportunityRepository ──

type mockOpportunityRepo struct {
	opps        map[string]*model.Opportunity
	conflictIDs map[string]bool // 测试注入：对指定 ID 的 Update 模拟版本冲突
}

func newMockOpportunityRepo() *mockOpportunityRepo {
	return &mockOpportunityRepo{
		opps:        make(map[string]*model.Opportunity),
		conflictIDs: make(map[string]bool),
	}
}

func (m *mockOpportunityRepo) Create(_ context.Context, opp *model.Opportunity) error {
	if opp.OpportunityID == "" {
		opp.OpportunityID = "opp-" + opp.Title
	}
	m.opps[opp.OpportunityID] = opp
	return nil
}

func (m *mockOpportunityRepo) GetByID(_ context.Context, id string) (*model.Opportunity, error) {
	if o, ok := m.opps[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOpportunityRepo) Update(_ context.Context, opp *model.Opportunity) error {
	if m.conflictIDs[opp.OpportunityID] {
		return pkgerrors.ErrOptimisticLock
	}
	if _, ok := m.opps[opp.OpportunityID]; !ok {
		return gorm.ErrRecordNotFound
	}
	opp.Version++
	m.opps[opp.OpportunityID] = opp
	return nil
}

func (m *mockOpportunityRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.opps, id)
	return nil
}

func (m *mockOpportunityRepo) List(_ context.Context, organizationID, status string, offset, limit int) ([]model.Opportunity, int64, error) {
	var all []model.Opportunity
	for _, o := range m.opps {
		if organizationID != "" && o.OrganizationID != organizationID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OpportunityID < all[j].OpportunityID })
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

func (m *mockOpportunityRepo) ListOpenForExchange(_ context.Context, excludeID string, minEndDate time.Time) ([]model.Opportunity, error) {
	var result []model.Opportunity
	for _, o := range m.opps {
		if o.OpportunityID == excludeID {
			continue
		}
		if o.Status != model.OpportunityOpen || o.Seats <= 0 {
			continue
		}
		if o.EndDate.Before(minEndDate) {
			continue
		}
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *mockOpportunityRepo) DecrementSeats(_ context.Context, id string) (bool, error) {
	o, ok := m.opps[id]
	if !ok || o.Seats <= 0 {
		return false, nil
	}
	o.Seats--
	return true, nil
}

func (m *mockOpportunityRepo) IncrementSeats(_ context.Context, id string) error {
	if o, ok := m.opps[id]; ok {
		o.Seats++
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockOpportunityRepo) SetStatus(_ context.Context, id, status string, _ string) error {
	if o, ok := m.opps[id]; ok {
		o.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment
	nextID      int
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: make(map[string]*model.Enrollment)}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *model.Enrollment) error {
	if enrollment.EnrollmentID == "" {
		m.nextID++
		enrollment.EnrollmentID = fmt.Sprintf("enr-%d", m.nextID)
	}
	m.enrollments[enrollment.EnrollmentID] = enrollment
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) GetByUserOpportunity(_ context.Context, userID, opportunityID string) (*model.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.UserID == userID && e.OpportunityID == opportunityID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) GetAccepted(_ context.Context, userID, opportunityID string) (*model.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.UserID == userID && e.OpportunityID == opportunityID && e.Status == model.EnrollmentAccepted {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) GetAcceptedLocked(ctx context.Context, userID, opportunityID string) (*model.Enrollment, error) {
	// mock 中与非锁版本行为一致
	return m.GetAccepted(ctx, userID, opportunityID)
}

func (m *mockEnrollmentRepo) ExistsByUserOpportunity(_ context.Context, userID, opportunityID string) (bool, error) {
	for _, e := range m.enrollments {
		if e.UserID == userID && e.OpportunityID == opportunityID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) ListAcceptedByOpportunity(_ context.Context, opportunityID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.OpportunityID == opportunityID && e.Status == model.EnrollmentAccepted {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *mockEnrollmentRepo) ListByUser(_ context.Context, userID, status string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.UserID != userID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EnrollmentID < result[j].EnrollmentID })
	return result, nil
}

func (m *mockEnrollmentRepo) ListByOpportunity(_ context.Context, opportunityID, status string, offset, limit int) ([]model.Enrollment, int64, error) {
	var all []model.Enrollment
	for _, e := range m.enrollments {
		if e.OpportunityID != opportunityID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		all = append(all, *e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EnrollmentID < all[j].EnrollmentID })
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

func (m *mockEnrollmentRepo) Update(_ context.Context, enrollment *model.Enrollment) error {
	if _, ok := m.enrollments[enrollment.EnrollmentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.enrollments[enrollment.EnrollmentID] = enrollment
	return nil
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, id string) error {
	delete(m.enrollments, id)
	return nil
}

// ── Mock ExchangeRequestRepository ──

type mockExchangeRequestRepo struct {
	requests map[string]*model.ExchangeRequest
	nextID   int

	// 测试注入：在 ListPendingConflicting 返回前执行，模拟读取与改写之间的并发提交
	afterListConflicting func()
}

func newMockExchangeRequestRepo() *mockExchangeRequestRepo {
	return &mockExchangeRequestRepo{requests: make(map[string]*model.ExchangeRequest)}
}

func (m *mockExchangeRequestRepo) Create(_ context.Context, req *model.ExchangeRequest) error {
	if req.ExchangeRequestID == "" {
		m.nextID++
		req.ExchangeRequestID = fmt.Sprintf("exch-%d", m.nextID)
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	m.requests[req.ExchangeRequestID] = req
	return nil
}

func (m *mockExchangeRequestRepo) GetByID(_ context.Context, id string) (*model.ExchangeRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExchangeRequestRepo) GetByIDLocked(ctx context.Context, id string) (*model.ExchangeRequest, error) {
	// mock 中与非锁版本行为一致
	return m.GetByID(ctx, id)
}

func (m *mockExchangeRequestRepo) ExistsPending(_ context.Context, requesterID, recipientID, sourceOppID, destOppID string) (bool, error) {
	for _, r := range m.requests {
		if r.Status == model.ExchangePending &&
			r.RequesterID == requesterID && r.RecipientID == recipientID &&
			r.SourceOpportunityID == sourceOppID && r.DestOpportunityID == destOppID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockExchangeRequestRepo) ExistsPendingToOpportunity(_ context.Context, requesterID, sourceOppID, destOppID string) (bool, error) {
	for _, r := range m.requests {
		if r.Status == model.ExchangePending &&
			r.RequesterID == requesterID &&
			r.SourceOpportunityID == sourceOppID && r.DestOpportunityID == destOppID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockExchangeRequestRepo) ListByUser(_ context.Context, userID string) ([]model.ExchangeRequest, error) {
	var result []model.ExchangeRequest
	for _, r := range m.requests {
		if r.RequesterID == userID || r.RecipientID == userID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockExchangeRequestRepo) Update(_ context.Context, req *model.ExchangeRequest) error {
	if _, ok := m.requests[req.ExchangeRequestID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.requests[req.ExchangeRequestID] = req
	return nil
}

func (m *mockExchangeRequestRepo) ListPendingConflicting(_ context.Context, req *model.ExchangeRequest) ([]model.ExchangeRequest, error) {
	var result []model.ExchangeRequest
	for _, r := range m.requests {
		if r.Status != model.ExchangePending || r.ExchangeRequestID == req.ExchangeRequestID {
			continue
		}
		hit := (r.RequesterID == req.RequesterID && r.SourceOpportunityID == req.SourceOpportunityID) ||
			(r.RequesterID == req.RecipientID && r.SourceOpportunityID == req.DestOpportunityID) ||
			(r.RecipientID == req.RequesterID && r.DestOpportunityID == req.SourceOpportunityID) ||
			(r.RecipientID == req.RecipientID && r.DestOpportunityID == req.DestOpportunityID)
		if hit {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	if m.afterListConflicting != nil {
		m.afterListConflicting()
	}
	return result, nil
}

func (m *mockExchangeRequestRepo) MarkRejectedIfPending(_ context.Context, id string, updatedBy *string) (bool, error) {
	r, ok := m.requests[id]
	if !ok || r.Status != model.ExchangePending {
		return false, nil
	}
	r.Status = model.ExchangeRejected
	r.UpdatedAt = time.Now()
	r.UpdatedBy = updatedBy
	return true, nil
}

// ── Mock ExchangeHistoryRepository ──

type mockExchangeHistoryRepo struct {
	entries []model.ExchangeHistory
	nextID  int
}

func newMockExchangeHistoryRepo() *mockExchangeHistoryRepo {
	return &mockExchangeHistoryRepo{}
}

func (m *mockExchangeHistoryRepo) Create(_ context.Context, entry *model.ExchangeHistory) error {
	m.nextID++
	entry.ExchangeHistoryID = fmt.Sprintf("hist-%d", m.nextID)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockExchangeHistoryRepo) ListByRequest(_ context.Context, requestID string) ([]model.ExchangeHistory, error) {
	var result []model.ExchangeHistory
	for _, e := range m.entries {
		if e.ExchangeRequestID == requestID {
			result = append(result, e)
		}
	}
	return result, nil
}

// byAction 按动作过滤（测试断言用）
func (m *mockExchangeHistoryRepo) byAction(requestID, action string) []model.ExchangeHistory {
	var result []model.ExchangeHistory
	for _, e := range m.entries {
		if e.ExchangeRequestID == requestID && e.Action == action {
			result = append(result, e)
		}
	}
	return result
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []model.Notification
	nextID        int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	m.nextID++
	notification.NotificationID = fmt.Sprintf("notif-%d", m.nextID)
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var all []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		all = append(all, n)
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for i := range m.notifications {
		if m.notifications[i].NotificationID == id && m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for i := range m.notifications {
		if m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// forUser 按用户过滤（测试断言用）
func (m *mockNotificationRepo) forUser(userID string) []model.Notification {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// ── Mock ParticipationReportRepository ──

type mockParticipationReportRepo struct {
	reports map[string]*model.ParticipationReport
	nextID  int
}

func newMockParticipationReportRepo() *mockParticipationReportRepo {
	return &mockParticipationReportRepo{reports: make(map[string]*model.ParticipationReport)}
}

func (m *mockParticipationReportRepo) Create(_ context.Context, report *model.ParticipationReport) error {
	if report.ReportID == "" {
		m.nextID++
		report.ReportID = fmt.Sprintf("rep-%d", m.nextID)
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	m.reports[report.ReportID] = report
	return nil
}

func (m *mockParticipationReportRepo) GetByID(_ context.Context, id string) (*model.ParticipationReport, error) {
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockParticipationReportRepo) ListByUser(_ context.Context, userID string) ([]model.ParticipationReport, error) {
	var result []model.ParticipationReport
	for _, r := range m.reports {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReportDate.After(result[j].ReportDate) })
	return result, nil
}

func (m *mockParticipationReportRepo) Update(_ context.Context, report *model.ParticipationReport) error {
	if _, ok := m.reports[report.ReportID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.reports[report.ReportID] = report
	return nil
}

func (m *mockParticipationReportRepo) Delete(_ context.Context, id string) error {
	delete(m.reports, id)
	return nil
}

// ── 测试 Repository 聚合 ──

type testMocks struct {
	users         *mockUserRepo
	orgs          *mockOrganizationRepo
	opportunities *mockOpportunityRepo
	enrollments   *mockEnrollmentRepo
	exchanges     *mockExchangeRequestRepo
	histories     *mockExchangeHistoryRepo
	notifications *mockNotificationRepo
	reports       *mockParticipationReportRepo
}

func newTestRepo() (*repository.Repository, *testMocks) {
	mocks := &testMocks{
		users:         newMockUserRepo(),
		orgs:          newMockOrganizationRepo(),
		opportunities: newMockOpportunityRepo(),
		enrollments:   newMockEnrollmentRepo(),
		exchanges:     newMockExchangeRequestRepo(),
		histories:     newMockExchangeHistoryRepo(),
		notifications: newMockNotificationRepo(),
		reports:       newMockParticipationReportRepo(),
	}
	repo := &repository.Repository{
		User:                mocks.users,
		Organization:        mocks.orgs,
		Opportunity:         mocks.opportunities,
		Enrollment:          mocks.enrollments,
		ExchangeRequest:     mocks.exchanges,
		ExchangeHistory:     mocks.histories,
		Notification:        mocks.notifications,
		ParticipationReport: mocks.reports,
	}
	repo.Tx = &mockTxManager{repo: repo}
	return repo, mocks
}
