package model

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleUser  UserRole = "user"  // 普通用户
	UserRoleAdmin UserRole = "admin" // 管理员，可操作他人记录与报表
)

// UserStatus 用户状态枚举
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// User 用户模型
type User struct {
	BaseModel
	PublicID     int64      `gorm:"uniqueIndex;not null" json:"public_id"`
	Name         string     `gorm:"type:varchar(64);not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;type:varchar(128);not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(128);not null" json:"-"`
	Phone        string     `gorm:"type:varchar(20);not null;default:''" json:"phone"`
	Role         UserRole   `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	Status       UserStatus `gorm:"type:varchar(16);not null;default:'active';index:idx_users_status" json:"status"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 管理员可更新、删除任意考勤记录并查看全员报表
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// DisplayName 报表展示用，兜底占位名
func (u *User) DisplayName() string {
	if u == nil || u.Name == "" {
		return "User Tidak Dikenal"
	}
	return u.Name
}
