package dto

// ── 换岗模块 DTO ──

// CreateExchangeRequest 发起换岗申请请求
type CreateExchangeRequest struct {
	RecipientID         string `json:"recipient_id"          binding:"required,uuid"`
	SourceOpportunityID string `json:"source_opportunity_id" binding:"required,uuid"`
	DestOpportunityID   string `json:"dest_opportunity_id"   binding:"required,uuid"`
	Message             string `json:"message"               binding:"omitempty,max=500"`
}

// ExchangeRequestResponse 换岗申请响应
type ExchangeRequestResponse struct {
	ID                string            `json:"id"`
	Status            string            `json:"status"`
	Message           string            `json:"message,omitempty"`
	Requester         *UserResponse     `json:"requester,omitempty"`
	Recipient         *UserResponse     `json:"recipient,omitempty"`
	SourceOpportunity *OpportunityBrief `json:"source_opportunity,omitempty"`
	DestOpportunity   *OpportunityBrief `json:"dest_opportunity,omitempty"`
	CreatedAt         string            `json:"created_at"`
	UpdatedAt         string            `json:"updated_at"`
}

// ExchangeOutcomeResponse 接受换岗的业务结果
// Result 为业务结论而非错误：accepted | rejected | error
type ExchangeOutcomeResponse struct {
	Result  string                   `json:"result"`
	Message string                   `json:"message"`
	Request *ExchangeRequestResponse `json:"request,omitempty"`
}

// ExchangeCandidateUser 可换岗用户
type ExchangeCandidateUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	EnrolledAt string `json:"enrolled_at"`
}

// ExchangeCandidateResponse 某一机会下的可换岗候选
type ExchangeCandidateResponse struct {
	Opportunity   OpportunityResponse     `json:"opportunity"`
	EligibleUsers []ExchangeCandidateUser `json:"eligible_users"`
	// HasPendingRequest 当前用户是否已有指向该机会的 pending 申请
	HasPendingRequest bool `json:"has_pending_request"`
}

// ExchangeHistoryResponse 换岗历史条目响应
type ExchangeHistoryResponse struct {
	ID        string        `json:"id"`
	Action    string        `json:"action"`
	Details   string        `json:"details"`
	Actor     *UserResponse `json:"actor,omitempty"`
	CreatedAt string        `json:"created_at"`
}

// [自证通过] internal/dto/exchange.go
