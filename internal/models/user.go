package models

import (
	"time"

	"mferp/internal/permissions"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// User 用户模型
// 每个用户恰好持有一个角色和一份权限矩阵；
// IsActive是独立于矩阵的总开关，停用后矩阵内容一律无效
type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"unique;not null;size:50;index"`
	Email        string     `json:"email" gorm:"unique;not null;size:100;index"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	Name         string     `json:"name" gorm:"not null;size:100"`
	Phone        *string    `json:"phone" gorm:"size:20"`
	Role         string     `json:"role" gorm:"not null;size:30;index"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	CompanyID    *uint      `json:"company_id" gorm:"index"` // 所属单位，平台级账号为空
	LastLoginAt  *time.Time `json:"last_login_at"`

	// 权限矩阵，jsonb整体存储、整体替换
	Permissions datatypes.JSONType[permissions.Matrix] `json:"permissions" gorm:"type:jsonb"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}

// SetPassword 设置密码
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsSuperAdmin 是否超级管理员（角色旁路在矩阵之前判断）
func (u *User) IsSuperAdmin() bool {
	return permissions.IsSuperRole(u.Role)
}

// Matrix 取出权限矩阵（按目录补齐缺失键）
func (u *User) Matrix() permissions.Matrix {
	m := u.Permissions.Data()
	if m == nil {
		return permissions.EmptyMatrix()
	}
	return m.Backfill()
}

// SetMatrix 写入权限矩阵
func (u *User) SetMatrix(m permissions.Matrix) {
	u.Permissions = datatypes.NewJSONType(m)
}
