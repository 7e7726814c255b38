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

type DispatchHandler struct {
	service *services.DispatchService
}

func NewDispatchHandler(service *services.DispatchService) *DispatchHandler {
	return &DispatchHandler{
		service: service,
	}
}

type CreateDispatchRequest struct {
	OrderID       uint   `json:"order_id" binding:"required"`
	VehicleNumber string `json:"vehicle_number"`
	DriverName    string `json:"driver_name"`
	DriverPhone   string `json:"driver_phone"`
	Remark        string `json:"remark"`
}

// ========== 基础CRUD方法 ==========

// Create 创建发运单
func (h *DispatchHandler) Create(c *gin.Context) {
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

	var req CreateDispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	dispatch, err := h.service.Create(companyID, req.OrderID, req.VehicleNumber, req.DriverName, req.DriverPhone, req.Remark, user.ID)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "不存在") || strings.Contains(errMsg, "只有") {
			response.BadRequest(c, errMsg)
			return
		}
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, dispatch)
}

// GetByID 获取发运单
func (h *DispatchHandler) GetByID(c *gin.Context) {
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

	dispatch, err := h.service.GetByID(id, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "发运单不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, dispatch)
}

// GetPending 待发运列表
func (h *DispatchHandler) GetPending(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pageParams := pagination.ParsePageParams(c)

	dispatches, total, err := h.service.GetPendingWithPage(companyID, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, dispatches, pageInfo)
}

// GetHistory 发运历史列表
func (h *DispatchHandler) GetHistory(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pageParams := pagination.ParsePageParams(c)

	dispatches, total, err := h.service.GetHistoryWithPage(companyID, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, dispatches, pageInfo)
}

// ========== 状态流转 ==========

// MarkInTransit 发车
func (h *DispatchHandler) MarkInTransit(c *gin.Context) {
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

	dispatch, err := h.service.MarkInTransit(id, companyID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}

	response.Success(c, dispatch)
}

// MarkDelivered 签收送达
func (h *DispatchHandler) MarkDelivered(c *gin.Context) {
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

	dispatch, err := h.service.MarkDelivered(id, companyID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}

	response.Success(c, dispatch)
}

// writeTransitionError 发运状态流转错误统一转HTTP响应
func (h *DispatchHandler) writeTransitionError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "发运单不存在")
		return
	}
	if strings.Contains(err.Error(), "只有") {
		response.BadRequest(c, err.Error())
		return
	}
	response.ServerError(c, "操作失败")
}
