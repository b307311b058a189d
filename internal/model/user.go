package model

import "time"

// User 用户模型
type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Username   string    `gorm:"size:255;not null;uniqueIndex:uq_users_username;comment:用户名" json:"username"`
	Email      string    `gorm:"size:255;not null;uniqueIndex:uq_users_email;comment:邮箱" json:"email"`
	Password   string    `gorm:"size:255;not null;comment:密码哈希" json:"-"` // json:"-" 序列化时忽略密码
	ProfilePic *string   `gorm:"size:500;comment:头像地址" json:"profile_pic"`
	CreatedAt  time.Time `gorm:"autoCreateTime;comment:注册时间" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
