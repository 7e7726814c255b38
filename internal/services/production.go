package services

import (
	"fmt"
	"strings"
	"time"

	"mferp/internal/database"
	"mferp/internal/events"
	"mferp/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductionService struct {
	db  *gorm.DB
	hub *events.Hub
}

func NewProductionService() *ProductionService {
	return &ProductionService{
		db:  database.GetDB(),
		hub: events.GetHub(),
	}
}

// generateBatchNumber 生成批次号：BAT-<日期>-<uuid前8位>
func generateBatchNumber() string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("BAT-%s-%s", time.Now().Format("20060102"), strings.ToUpper(suffix))
}

// ========== 基础CRUD方法 ==========

// Create 创建生产批次
func (s *ProductionService) Create(companyID, productID uint, orderID *uint, plannedQty float64, createdBy uint) (*models.ProductionBatch, error) {
	if plannedQty <= 0 {
		return nil, fmt.Errorf("计划数量必须大于0")
	}

	var product models.Product
	if err := s.db.Where("id = ? AND company_id = ?", productID, companyID).First(&product).Error; err != nil {
		return nil, fmt.Errorf("产品不存在")
	}

	if orderID != nil {
		var order models.Order
		if err := s.db.Where("id = ? AND company_id = ?", *orderID, companyID).First(&order).Error; err != nil {
			return nil, fmt.Errorf("订单不存在")
		}
		if order.Status != models.OrderStatusApproved && order.Status != models.OrderStatusInProduction {
			return nil, fmt.Errorf("只有已审批的订单才能排产")
		}
	}

	batch := &models.ProductionBatch{
		BatchNumber: generateBatchNumber(),
		CompanyID:   companyID,
		OrderID:     orderID,
		ProductID:   productID,
		PlannedQty:  plannedQty,
		Status:      models.BatchStatusPlanned,
		CreatedBy:   createdBy,
	}

	err := s.db.Create(batch).Error
	return batch, err
}

// GetByID 根据ID获取批次
func (s *ProductionService) GetByID(id, companyID uint) (*models.ProductionBatch, error) {
	var batch models.ProductionBatch
	err := s.db.Preload("Product").Preload("Order").
		Where("id = ? AND company_id = ?", id, companyID).First(&batch).Error
	return &batch, err
}

// GetWithPage 分页获取批次列表
func (s *ProductionService) GetWithPage(companyID uint, status string, page, pageSize int) ([]*models.ProductionBatch, int64, error) {
	var batches []*models.ProductionBatch
	var total int64

	query := s.db.Model(&models.ProductionBatch{}).Where("company_id = ?", companyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Product").Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&batches).Error
	if err != nil {
		return nil, 0, err
	}

	return batches, total, nil
}

// ========== 状态流转 ==========

// Start 开始生产
func (s *ProductionService) Start(id, companyID uint) (*models.ProductionBatch, error) {
	var batch models.ProductionBatch
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&batch).Error; err != nil {
		return nil, err
	}

	if batch.Status != models.BatchStatusPlanned {
		return nil, fmt.Errorf("只有计划中的批次才能开始生产")
	}

	now := time.Now()
	batch.Status = models.BatchStatusInProgress
	batch.StartedAt = &now

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&batch).Error; err != nil {
			return err
		}
		// 关联订单进入生产中
		if batch.OrderID != nil {
			return tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", *batch.OrderID, models.OrderStatusApproved).
				Update("status", models.OrderStatusInProduction).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(events.TypeBatchStatus, companyID, &batch)
	return &batch, nil
}

// Complete 完成生产，入库实际产量
func (s *ProductionService) Complete(id, companyID uint, producedQty float64) (*models.ProductionBatch, error) {
	if producedQty <= 0 {
		return nil, fmt.Errorf("实际产量必须大于0")
	}

	var batch models.ProductionBatch
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&batch).Error; err != nil {
		return nil, err
	}

	if batch.Status != models.BatchStatusInProgress {
		return nil, fmt.Errorf("只有生产中的批次才能完成")
	}

	now := time.Now()
	batch.Status = models.BatchStatusCompleted
	batch.ProducedQty = producedQty
	batch.CompletedAt = &now

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&batch).Error; err != nil {
			return err
		}
		// 产量入库
		return tx.Model(&models.Product{}).Where("id = ?", batch.ProductID).
			Update("stock_qty", gorm.Expr("stock_qty + ?", producedQty)).Error
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(events.TypeBatchStatus, companyID, &batch)
	return &batch, nil
}

// Cancel 取消批次
func (s *ProductionService) Cancel(id, companyID uint) (*models.ProductionBatch, error) {
	var batch models.ProductionBatch
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&batch).Error; err != nil {
		return nil, err
	}

	if batch.Status == models.BatchStatusCompleted {
		return nil, fmt.Errorf("已完成的批次不允许取消")
	}

	batch.Status = models.BatchStatusCancelled
	err := s.db.Save(&batch).Error
	return &batch, err
}
