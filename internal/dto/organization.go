package dto

// ── 组织模块 DTO ──

// CreateOrganizationRequest 创建组织请求
type CreateOrganizationRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=150"`
	Description  string `json:"description"   binding:"omitempty,max=5000"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	Phone        string `json:"phone"         binding:"omitempty,max=30"`
	Address      string `json:"address"       binding:"omitempty,max=255"`
	Website      string `json:"website"       binding:"omitempty,url"`
}

// UpdateOrganizationRequest 更新组织请求
type UpdateOrganizationRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=150"`
	Description  *string `json:"description"   binding:"omitempty,max=5000"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	Phone        *string `json:"phone"         binding:"omitempty,max=30"`
	Address      *string `json:"address"       binding:"omitempty,max=255"`
	Website      *string `json:"website"       binding:"omitempty,url"`
}

// OrganizationResponse 组织响应
type OrganizationResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	Website      string `json:"website,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// OrganizationBrief 组织简要信息（嵌套在机会响应中）
type OrganizationBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// [自证通过] internal/dto/organization.go
