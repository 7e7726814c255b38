package handlers

import (
	"errors"
	"strings"

	"mferp/internal/middleware"
	"mferp/internal/services"
	"mferp/pkg/pagination"
	"mferp/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductionHandler struct {
	service *services.ProductionService
}

func NewProductionHandler(service *services.ProductionService) *ProductionHandler {
	return &ProductionHandler{
		service: service,
	}
}

type CreateBatchRequest struct {
	ProductID  uint    `json:"product_id" binding:"required"`
	OrderID    *uint   `json:"order_id"`
	PlannedQty float64 `json:"planned_qty" binding:"required,gt=0"`
}

type CompleteBatchRequest struct {
	ProducedQty float64 `json:"produced_qty" binding:"required,gt=0"`
}

// ========== 基础CRUD方法 ==========

// Create 创建生产批次
func (h *ProductionHandler) Create(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	batch, err := h.service.Create(companyID, req.ProductID, req.OrderID, req.PlannedQty, user.ID)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "不存在") || strings.Contains(errMsg, "必须大于") ||
			strings.Contains(errMsg, "只有") {
			response.BadRequest(c, errMsg)
			return
		}
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, batch)
}

// GetByID 获取批次
func (h *ProductionHandler) GetByID(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	batch, err := h.service.GetByID(id, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "批次不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, batch)
}

// GetAll 批次列表（支持分页和状态筛选）
func (h *ProductionHandler) GetAll(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")

	batches, total, err := h.service.GetWithPage(companyID, status, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, batches, pageInfo)
}

// ========== 状态流转 ==========

// Start 开始生产
func (h *ProductionHandler) Start(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	batch, err := h.service.Start(id, companyID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}

	response.Success(c, batch)
}

// Cancel 取消批次
func (h *ProductionHandler) Cancel(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	batch, err := h.service.Cancel(id, companyID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}

	response.Success(c, batch)
}

// Complete 完成生产
func (h *ProductionHandler) Complete(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req CompleteBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	batch, err := h.service.Complete(id, companyID, req.ProducedQty)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "批次不存在")
			return
		}
		if strings.Contains(err.Error(), "只有") || strings.Contains(err.Error(), "必须大于") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, batch)
}

// writeTransitionError 批次状态流转错误统一转HTTP响应
func (h *ProductionHandler) writeTransitionError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "批次不存在")
		return
	}
	if strings.Contains(err.Error(), "只有") || strings.Contains(err.Error(), "不允许") {
		response.BadRequest(c, err.Error())
		return
	}
	response.ServerError(c, "操作失败")
}
