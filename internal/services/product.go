package services

import (
	"fmt"
	"unicode/utf8"

	"mferp/internal/database"
	"mferp/internal/models"

	"gorm.io/gorm"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService() *ProductService {
	return &ProductService{
		db: database.GetDB(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建产品
func (s *ProductService) Create(companyID uint, name, sku, category, unit string, price, reorderLevel float64) (*models.Product, error) {
	if utf8.RuneCountInString(name) < 2 || utf8.RuneCountInString(name) > 100 {
		return nil, fmt.Errorf("产品名称长度必须在2-100个字符之间")
	}
	if sku == "" {
		return nil, fmt.Errorf("SKU不能为空")
	}
	if price < 0 {
		return nil, fmt.Errorf("价格不能为负数")
	}

	var count int64
	s.db.Model(&models.Product{}).Where("sku = ?", sku).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("SKU已存在")
	}

	product := &models.Product{
		CompanyID:    companyID,
		Name:         name,
		SKU:          sku,
		Category:     category,
		Unit:         unit,
		Price:        price,
		ReorderLevel: reorderLevel,
		Status:       models.ProductStatusActive,
	}

	err := s.db.Create(product).Error
	return product, err
}

// GetByID 根据ID获取产品
func (s *ProductService) GetByID(id, companyID uint) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&product).Error
	return &product, err
}

// GetWithPage 分页获取产品列表
func (s *ProductService) GetWithPage(companyID uint, category, keyword string, lowStock bool, page, pageSize int) ([]*models.Product, int64, error) {
	var products []*models.Product
	var total int64

	query := s.db.Model(&models.Product{}).Where("company_id = ?", companyID)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR sku LIKE ?", searchPattern, searchPattern)
	}
	if lowStock {
		query = query.Where("stock_qty < reorder_level")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("name").Offset(offset).Limit(pageSize).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Update 更新产品
func (s *ProductService) Update(id, companyID uint, name, category, unit string, price, reorderLevel float64, status string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&product).Error; err != nil {
		return nil, err
	}

	if status != "" && status != models.ProductStatusActive && status != models.ProductStatusDiscontinued {
		return nil, fmt.Errorf("状态只能是 active 或 discontinued")
	}
	if price < 0 {
		return nil, fmt.Errorf("价格不能为负数")
	}

	if name != "" {
		product.Name = name
	}
	product.Category = category
	product.Unit = unit
	product.Price = price
	product.ReorderLevel = reorderLevel
	if status != "" {
		product.Status = status
	}

	err := s.db.Save(&product).Error
	return &product, err
}

// AdjustStock 调整库存（delta可为负，结果不允许为负）
func (s *ProductService) AdjustStock(id, companyID uint, delta float64) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&product).Error; err != nil {
		return nil, err
	}

	if product.StockQty+delta < 0 {
		return nil, fmt.Errorf("库存不足")
	}

	product.StockQty += delta
	err := s.db.Save(&product).Error
	return &product, err
}

// Delete 删除产品
func (s *ProductService) Delete(id, companyID uint) error {
	var product models.Product
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&product).Error; err != nil {
		return err
	}
	return s.db.Delete(&product).Error
}
