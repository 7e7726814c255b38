package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"mferp/internal/database"
	"mferp/internal/models"
	"mferp/internal/permissions"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService() *UserService {
	return &UserService{
		db: database.GetDB(),
	}
}

// NewUserServiceWithDB 指定数据库实例创建（测试用）
func NewUserServiceWithDB(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserStats 用户统计信息
type UserStats struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"active"`
	Inactive int64            `json:"inactive"`
	ByRole   map[string]int64 `json:"by_role"`
}

// ========== 基础CRUD方法 ==========

// Create 创建用户，权限矩阵按角色默认值生成
func (s *UserService) Create(username, email, password, name, role string, phone *string, companyID *uint) (*models.User, error) {
	if err := s.ValidateCreateParams(username, email, password, name, role); err != nil {
		return nil, err
	}

	// 检查单位是否存在
	if companyID != nil {
		var companyCount int64
		s.db.Model(&models.Company{}).Where("id = ?", *companyID).Count(&companyCount)
		if companyCount == 0 {
			return nil, fmt.Errorf("单位不存在")
		}
	}

	// 检查用户名是否重复
	var usernameCount int64
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&usernameCount)
	if usernameCount > 0 {
		return nil, fmt.Errorf("用户名已存在")
	}

	// 检查邮箱是否重复
	var emailCount int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&emailCount)
	if emailCount > 0 {
		return nil, fmt.Errorf("邮箱已存在")
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Name:      name,
		Phone:     phone,
		Role:      role,
		IsActive:  true,
		CompanyID: companyID,
	}
	user.SetMatrix(permissions.DefaultMatrix(role))

	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	// 重新加载数据（包含关联）
	if err := s.db.Preload("Company").First(user, user.ID).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID 根据ID获取用户
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Company").First(&user, id).Error
	return &user, err
}

// GetByUsername 根据用户名获取用户
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Company").Where("username = ?", username).First(&user).Error
	return &user, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *UserService) GetWithFiltersAndPage(companyID *uint, role, keyword string, page, pageSize int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := s.db.Model(&models.User{})

	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("username LIKE ? OR email LIKE ? OR name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Company").Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update 更新用户基础信息
func (s *UserService) Update(id uint, name, email string, phone *string) (*models.User, error) {
	if err := s.ValidateUpdateParams(name, email); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	// 如果邮箱变更，检查是否重复
	if user.Email != email {
		var emailCount int64
		s.db.Model(&models.User{}).Where("email = ? AND id != ?", email, id).Count(&emailCount)
		if emailCount > 0 {
			return nil, fmt.Errorf("邮箱已存在")
		}
	}

	user.Name = name
	user.Email = email
	user.Phone = phone

	err := s.db.Save(&user).Error
	return &user, err
}

// Delete 删除用户（权限矩阵随用户一并删除，无独立生命周期）
func (s *UserService) Delete(id uint) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return err
	}
	return s.db.Delete(&user).Error
}

// ========== 快捷操作方法 ==========

// Activate 激活用户
func (s *UserService) Activate(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	user.IsActive = true
	err := s.db.Save(&user).Error
	return &user, err
}

// Deactivate 停用用户（总开关，停用后矩阵内容一律无效）
func (s *UserService) Deactivate(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	user.IsActive = false
	err := s.db.Save(&user).Error
	return &user, err
}

// ResetPassword 重置密码
func (s *UserService) ResetPassword(id uint, newPassword string) (*models.User, error) {
	if err := s.ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	err := s.db.Save(&user).Error
	return &user, err
}

// UpdateLastLogin 更新最后登录时间
func (s *UserService) UpdateLastLogin(id uint) error {
	now := time.Now()
	return s.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", now).Error
}

// ========== 权限矩阵存取 ==========

// LoadMatrix 读取用户当前权限矩阵
// 目录演进后旧账号缺的键补为false，不报错
func (s *UserService) LoadMatrix(userID uint) (permissions.Matrix, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return user.Matrix(), nil
}

// ReplaceMatrix 整体替换用户权限矩阵
// 先按目录校验提交的键名，校验失败不落库；成功则单文档覆盖写入
func (s *UserService) ReplaceMatrix(userID uint, raw permissions.RawMatrix) (*models.User, error) {
	matrix, err := permissions.FromRaw(raw)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	user.SetMatrix(matrix)
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// ChangeRole 变更用户角色，按新角色重新生成默认矩阵（不与旧矩阵合并）
func (s *UserService) ChangeRole(userID uint, role string) (*models.User, error) {
	if !permissions.KnownRole(role) {
		return nil, fmt.Errorf("未知的角色: %s", role)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	user.Role = role
	user.SetMatrix(permissions.DefaultMatrix(role))
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// ========== 权限检查 ==========

// HasPermission 检查用户对 (模块, 功能, 操作) 是否有权限
// 顺序：停用检查 → 超级管理员旁路 → 矩阵求值。矩阵每次现读，不做缓存
func (s *UserService) HasPermission(userID uint, module, feature, action string) (bool, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return false, err
	}

	if !user.IsActive {
		return false, nil
	}

	if user.IsSuperAdmin() {
		return true, nil
	}

	return permissions.Can(user.Matrix(), module, feature, action), nil
}

// HasRole 检查用户是否为指定角色（超级管理员视同任意角色）
func (s *UserService) HasRole(userID uint, role string) (bool, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return false, err
	}

	if !user.IsActive {
		return false, nil
	}

	if user.IsSuperAdmin() {
		return true, nil
	}

	return user.Role == role, nil
}

// ========== 统计相关方法 ==========

// GetStats 获取用户统计
func (s *UserService) GetStats(companyID *uint) (*UserStats, error) {
	stats := &UserStats{ByRole: make(map[string]int64)}

	query := s.db.Model(&models.User{})
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}

	query.Session(&gorm.Session{}).Count(&stats.Total)
	query.Session(&gorm.Session{}).Where("is_active = ?", true).Count(&stats.Active)
	stats.Inactive = stats.Total - stats.Active

	type roleCount struct {
		Role  string
		Count int64
	}
	var counts []roleCount
	if err := query.Session(&gorm.Session{}).Select("role, COUNT(*) as count").Group("role").Find(&counts).Error; err != nil {
		return nil, err
	}
	for _, rc := range counts {
		stats.ByRole[rc.Role] = rc.Count
	}

	return stats, nil
}

// ========== 参数校验 ==========

// ValidateCreateParams 校验创建参数
func (s *UserService) ValidateCreateParams(username, email, password, name, role string) error {
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < 3 || utf8.RuneCountInString(username) > 50 {
		return fmt.Errorf("用户名长度必须在3-50个字符之间")
	}

	if !strings.Contains(email, "@") {
		return fmt.Errorf("邮箱格式错误")
	}

	if err := s.ValidatePassword(password); err != nil {
		return err
	}

	if utf8.RuneCountInString(name) < 1 || utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("姓名长度必须在1-100个字符之间")
	}

	if !permissions.KnownRole(role) {
		return fmt.Errorf("未知的角色: %s", role)
	}

	return nil
}

// ValidateUpdateParams 校验更新参数
func (s *UserService) ValidateUpdateParams(name, email string) error {
	if utf8.RuneCountInString(name) < 1 || utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("姓名长度必须在1-100个字符之间")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("邮箱格式错误")
	}
	return nil
}

// ValidatePassword 校验密码强度
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("密码长度不能少于8位")
	}
	return nil
}
