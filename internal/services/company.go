package services

import (
	"fmt"
	"unicode/utf8"

	"mferp/internal/database"
	"mferp/internal/models"

	"gorm.io/gorm"
)

type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService() *CompanyService {
	return &CompanyService{
		db: database.GetDB(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建单位
func (s *CompanyService) Create(name, code, address, gstNumber string) (*models.Company, error) {
	if utf8.RuneCountInString(name) < 2 || utf8.RuneCountInString(name) > 100 {
		return nil, fmt.Errorf("单位名称长度必须在2-100个字符之间")
	}
	if utf8.RuneCountInString(code) < 2 || utf8.RuneCountInString(code) > 50 {
		return nil, fmt.Errorf("单位代码长度必须在2-50个字符之间")
	}

	var count int64
	s.db.Model(&models.Company{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("单位代码已存在")
	}

	company := &models.Company{
		Name:      name,
		Code:      code,
		Address:   address,
		GSTNumber: gstNumber,
		Status:    models.CompanyStatusActive,
	}

	err := s.db.Create(company).Error
	return company, err
}

// GetByID 根据ID获取单位
func (s *CompanyService) GetByID(id uint) (*models.Company, error) {
	var company models.Company
	err := s.db.First(&company, id).Error
	if err != nil {
		return nil, err
	}

	// 附带用户数量
	var userCount int64
	s.db.Model(&models.User{}).Where("company_id = ?", id).Count(&userCount)
	company.UserCount = int(userCount)

	return &company, nil
}

// GetWithPage 分页获取单位列表
func (s *CompanyService) GetWithPage(status string, page, pageSize int) ([]*models.Company, int64, error) {
	var companies []*models.Company
	var total int64

	query := s.db.Model(&models.Company{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&companies).Error
	if err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}

// Update 更新单位
func (s *CompanyService) Update(id uint, name, address, gstNumber, status string) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, id).Error; err != nil {
		return nil, err
	}

	if status != "" && status != models.CompanyStatusActive && status != models.CompanyStatusInactive {
		return nil, fmt.Errorf("状态只能是 active 或 inactive")
	}

	if name != "" {
		company.Name = name
	}
	company.Address = address
	company.GSTNumber = gstNumber
	if status != "" {
		company.Status = status
	}

	err := s.db.Save(&company).Error
	return &company, err
}

// Delete 删除单位（仍有用户挂靠时拒绝）
func (s *CompanyService) Delete(id uint) error {
	var company models.Company
	if err := s.db.First(&company, id).Error; err != nil {
		return err
	}

	var userCount int64
	s.db.Model(&models.User{}).Where("company_id = ?", id).Count(&userCount)
	if userCount > 0 {
		return fmt.Errorf("单位下仍有用户，不允许删除")
	}

	return s.db.Delete(&company).Error
}
