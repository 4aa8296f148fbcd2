package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahinoa17/RedSolidaria/internal/model"
)

// ExchangeRequestRepository 换岗申请数据访问接口
type ExchangeRequestRepository interface {
	Create(ctx context.Context, req *model.ExchangeRequest) error
	// GetByID 带参与者与机会预加载（展示用）
	GetByID(ctx context.Context, id string) (*model.ExchangeRequest, error)
	// GetByIDLocked 行锁版本（SELECT … FOR UPDATE），仅限事务内使用；不做预加载
	GetByIDLocked(ctx context.Context, id string) (*model.ExchangeRequest, error)
	// ExistsPending 同一四元组是否已有 pending 申请
	ExistsPending(ctx context.Context, requesterID, recipientID, sourceOppID, destOppID string) (bool, error)
	// ExistsPendingToOpportunity 用户就某对机会是否已有 pending 申请（不限接收人）
	ExistsPendingToOpportunity(ctx context.Context, requesterID, sourceOppID, destOppID string) (bool, error)
	// ListByUser 用户作为申请人或接收人的全部申请，按创建时间倒序
	ListByUser(ctx context.Context, userID string) ([]model.ExchangeRequest, error)
	Update(ctx context.Context, req *model.ExchangeRequest) error
	// ListPendingConflicting 与给定申请共享 (用户, 机会) 槽位的其他 pending 申请。
	// 命中条件（任一）：
	//   申请人 = req.申请人 且 来源 = req.来源
	//   申请人 = req.接收人 且 来源 = req.目标
	//   接收人 = req.申请人 且 目标 = req.来源
	//   接收人 = req.接收人 且 目标 = req.目标
	ListPendingConflicting(ctx context.Context, req *model.ExchangeRequest) ([]model.ExchangeRequest, error)
	// MarkRejectedIfPending 带状态条件的拒绝改写：仅当申请仍为 pending 时生效，
	// 返回是否真正改写。终态记录不受影响。
	MarkRejectedIfPending(ctx context.Context, id string, updatedBy *string) (bool, error)
}

// exchangeRequestRepo ExchangeRequestRepository 的 GORM 实现
type exchangeRequestRepo struct {
	db *gorm.DB
}

// NewExchangeRequestRepo 创建 ExchangeRequestRepository 实例
func NewExchangeRequestRepo(db *gorm.DB) ExchangeRequestRepository {
	return &exchangeRequestRepo{db: db}
}

func (r *exchangeRequestRepo) Create(ctx context.Context, req *model.ExchangeRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *exchangeRequestRepo) GetByID(ctx context.Context, id string) (*model.ExchangeRequest, error) {
	var req model.ExchangeRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Recipient").
		Preload("SourceOpportunity").
		Preload("DestOpportunity").
		Where("exchange_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *exchangeRequestRepo) GetByIDLocked(ctx context.Context, id string) (*model.ExchangeRequest, error) {
	var req model.ExchangeRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("exchange_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *exchangeRequestRepo) ExistsPending(ctx context.Context, requesterID, recipientID, sourceOppID, destOppID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ExchangeRequest{}).
		Where("requester_id = ? AND recipient_id = ? AND source_opportunity_id = ? AND dest_opportunity_id = ? AND status = ?",
			requesterID, recipientID, sourceOppID, destOppID, model.ExchangePending).
		Count(&count).Error
	return count > 0, err
}

func (r *exchangeRequestRepo) ExistsPendingToOpportunity(ctx context.Context, requesterID, sourceOppID, destOppID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ExchangeRequest{}).
		Where("requester_id = ? AND source_opportunity_id = ? AND dest_opportunity_id = ? AND status = ?",
			requesterID, sourceOppID, destOppID, model.ExchangePending).
		Count(&count).Error
	return count > 0, err
}

func (r *exchangeRequestRepo) ListByUser(ctx context.Context, userID string) ([]model.ExchangeRequest, error) {
	var reqs []model.ExchangeRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Recipient").
		Preload("SourceOpportunity").
		Preload("DestOpportunity").
		Where("requester_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *exchangeRequestRepo) Update(ctx context.Context, req *model.ExchangeRequest) error {
	return r.db.WithContext(ctx).
		Omit("Requester", "Recipient", "SourceOpportunity", "DestOpportunity").
		Save(req).Error
}

func (r *exchangeRequestRepo) ListPendingConflicting(ctx context.Context, req *model.ExchangeRequest) ([]model.ExchangeRequest, error) {
	var reqs []model.ExchangeRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND exchange_request_id <> ?", model.ExchangePending, req.ExchangeRequestID).
		Where(
			r.db.Where("requester_id = ? AND source_opportunity_id = ?", req.RequesterID, req.SourceOpportunityID).
				Or("requester_id = ? AND source_opportunity_id = ?", req.RecipientID, req.DestOpportunityID).
				Or("recipient_id = ? AND dest_opportunity_id = ?", req.RequesterID, req.SourceOpportunityID).
				Or("recipient_id = ? AND dest_opportunity_id = ?", req.RecipientID, req.DestOpportunityID),
		).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *exchangeRequestRepo) MarkRejectedIfPending(ctx context.Context, id string, updatedBy *string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ExchangeRequest{}).
		Where("exchange_request_id = ? AND status = ?", id, model.ExchangePending).
		Updates(map[string]interface{}{
			"status":     model.ExchangeRejected,
			"updated_at": time.Now(),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// [自证通过] internal/repository/exchange_request_repo.go
