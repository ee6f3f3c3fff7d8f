package domain

import (
	"time"

	"gorm.io/gorm"
)

// Role 闭集角色，避免散落的字符串比较
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	DisplayName  string `gorm:"size:64" json:"displayName,omitempty"`
	Avatar       string `gorm:"size:255" json:"avatar,omitempty"`
	Bio          string `gorm:"size:500" json:"bio,omitempty"`
	Role         Role   `gorm:"size:16;not null;default:member" json:"role"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Snapshot 身份快照：作者/评论者随帖子序列化时暴露的字段
type UserSnapshot struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Role        Role   `json:"role"`
}

func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		Role:        u.Role,
	}
}
