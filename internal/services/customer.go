package services

import (
	"fmt"
	"unicode/utf8"

	"mferp/internal/database"
	"mferp/internal/models"

	"gorm.io/gorm"
)

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService() *CustomerService {
	return &CustomerService{
		db: database.GetDB(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建客户
func (s *CustomerService) Create(companyID uint, name, contactPerson, address, gstNumber string, phone, email *string, salesUserID *uint) (*models.Customer, error) {
	if utf8.RuneCountInString(name) < 2 || utf8.RuneCountInString(name) > 100 {
		return nil, fmt.Errorf("客户名称长度必须在2-100个字符之间")
	}

	var companyCount int64
	s.db.Model(&models.Company{}).Where("id = ?", companyID).Count(&companyCount)
	if companyCount == 0 {
		return nil, fmt.Errorf("单位不存在")
	}

	customer := &models.Customer{
		CompanyID:     companyID,
		Name:          name,
		ContactPerson: contactPerson,
		Phone:         phone,
		Email:         email,
		Address:       address,
		GSTNumber:     gstNumber,
		SalesUserID:   salesUserID,
		Status:        models.CustomerStatusActive,
	}

	err := s.db.Create(customer).Error
	return customer, err
}

// GetByID 根据ID获取客户（带单位校验）
func (s *CustomerService) GetByID(id, companyID uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.Preload("SalesUser").Where("id = ? AND company_id = ?", id, companyID).First(&customer).Error
	return &customer, err
}

// GetWithPage 分页获取客户列表
// salesUserID非空时只返回该销售名下的客户（"我的客户"）
func (s *CustomerService) GetWithPage(companyID uint, salesUserID *uint, keyword string, page, pageSize int) ([]*models.Customer, int64, error) {
	var customers []*models.Customer
	var total int64

	query := s.db.Model(&models.Customer{}).Where("company_id = ?", companyID)
	if salesUserID != nil {
		query = query.Where("sales_user_id = ?", *salesUserID)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR contact_person LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("SalesUser").Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// Update 更新客户
func (s *CustomerService) Update(id, companyID uint, name, contactPerson, address, gstNumber string, phone, email *string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&customer).Error; err != nil {
		return nil, err
	}

	if name != "" {
		if utf8.RuneCountInString(name) < 2 || utf8.RuneCountInString(name) > 100 {
			return nil, fmt.Errorf("客户名称长度必须在2-100个字符之间")
		}
		customer.Name = name
	}
	customer.ContactPerson = contactPerson
	customer.Address = address
	customer.GSTNumber = gstNumber
	customer.Phone = phone
	customer.Email = email

	err := s.db.Save(&customer).Error
	return &customer, err
}

// Delete 删除客户（存在订单时拒绝）
func (s *CustomerService) Delete(id, companyID uint) error {
	var customer models.Customer
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&customer).Error; err != nil {
		return err
	}

	var orderCount int64
	s.db.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orderCount)
	if orderCount > 0 {
		return fmt.Errorf("客户名下存在订单，不允许删除")
	}

	return s.db.Delete(&customer).Error
}
