package handlers

import (
	"errors"
	"strings"
	"time"

	"mferp/internal/middleware"
	"mferp/internal/models"
	"mferp/internal/services"
	"mferp/pkg/pagination"
	"mferp/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderHandler struct {
	service *services.OrderService
}

func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

type CreateOrderRequest struct {
	CustomerID       uint                        `json:"customer_id" binding:"required"`
	Items            []services.OrderItemInput   `json:"items" binding:"required,min=1,dive"`
	ExpectedDelivery *time.Time                  `json:"expected_delivery"`
	Remark           string                      `json:"remark"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ========== 基础CRUD方法 ==========

// Create 创建订单
func (h *OrderHandler) Create(c *gin.Context) {
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

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	order, err := h.service.Create(companyID, req.CustomerID, user.ID, req.Items, req.ExpectedDelivery, req.Remark)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "不存在") || strings.Contains(errMsg, "至少") ||
			strings.Contains(errMsg, "必须大于") {
			response.BadRequest(c, errMsg)
			return
		}
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, order)
}

// GetByID 获取订单
func (h *OrderHandler) GetByID(c *gin.Context) {
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

	order, err := h.service.GetByID(id, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "订单不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, order)
}

// GetAll 获取订单列表（支持分页、状态和超期筛选）
func (h *OrderHandler) GetAll(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")
	overdueOnly := c.Query("overdue") == "true"

	orders, total, err := h.service.GetWithPage(companyID, nil, status, overdueOnly, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, orders, pageInfo)
}

// GetMine 我的订单（当前销售名下）
func (h *OrderHandler) GetMine(c *gin.Context) {
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

	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")

	orders, total, err := h.service.GetWithPage(companyID, &user.ID, status, false, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, orders, pageInfo)
}

// GetTodaysIndents 今日请购（已审批待生产）
func (h *OrderHandler) GetTodaysIndents(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pageParams := pagination.ParsePageParams(c)

	orders, total, err := h.service.GetTodaysIndents(companyID, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, orders, pageInfo)
}

// GetPackingQueue 待包装订单（生产中）
func (h *OrderHandler) GetPackingQueue(c *gin.Context) {
	h.listByStatus(c, models.OrderStatusInProduction)
}

// GetPacked 已包装订单
func (h *OrderHandler) GetPacked(c *gin.Context) {
	h.listByStatus(c, models.OrderStatusPacked)
}

// listByStatus 按固定状态分页查询
func (h *OrderHandler) listByStatus(c *gin.Context, status string) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pageParams := pagination.ParsePageParams(c)

	orders, total, err := h.service.GetWithPage(companyID, nil, status, false, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, orders, pageInfo)
}

// ========== 状态流转 ==========

// Approve 审批订单
func (h *OrderHandler) Approve(c *gin.Context) {
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

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	order, err := h.service.Approve(id, companyID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "订单不存在")
			return
		}
		if strings.Contains(err.Error(), "不允许") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "审批失败")
		return
	}

	response.Success(c, order)
}

// UpdateStatus 订单状态流转
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
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

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	order, err := h.service.UpdateStatus(id, companyID, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "订单不存在")
			return
		}
		if strings.Contains(err.Error(), "不允许") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, order)
}

// MarkPacked 包装完成
func (h *OrderHandler) MarkPacked(c *gin.Context) {
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

	order, err := h.service.UpdateStatus(id, companyID, models.OrderStatusPacked)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "订单不存在")
			return
		}
		if strings.Contains(err.Error(), "不允许") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, order)
}
