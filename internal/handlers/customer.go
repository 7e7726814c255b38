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

type CustomerHandler struct {
	service *services.CustomerService
}

func NewCustomerHandler(service *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		service: service,
	}
}

type CreateCustomerRequest struct {
	Name          string  `json:"name" binding:"required"`
	ContactPerson string  `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       string  `json:"address"`
	GSTNumber     string  `json:"gst_number"`
	SalesUserID   *uint   `json:"sales_user_id"`
}

type UpdateCustomerRequest struct {
	Name          string  `json:"name"`
	ContactPerson string  `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       string  `json:"address"`
	GSTNumber     string  `json:"gst_number"`
}

// ========== 基础CRUD方法 ==========

// Create 创建客户
func (h *CustomerHandler) Create(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	// 销售创建客户时默认挂到自己名下
	salesUserID := req.SalesUserID
	if salesUserID == nil {
		if user, ok := middleware.CurrentUser(c); ok {
			salesUserID = &user.ID
		}
	}

	customer, err := h.service.Create(companyID, req.Name, req.ContactPerson, req.Address, req.GSTNumber, req.Phone, req.Email, salesUserID)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "长度") || strings.Contains(errMsg, "不存在") {
			response.BadRequest(c, errMsg)
			return
		}
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, customer)
}

// GetByID 获取客户
func (h *CustomerHandler) GetByID(c *gin.Context) {
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

	customer, err := h.service.GetByID(id, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "客户不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, customer)
}

// GetAll 获取客户列表（支持分页）
func (h *CustomerHandler) GetAll(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pageParams := pagination.ParsePageParams(c)
	keyword := c.Query("keyword")

	customers, total, err := h.service.GetWithPage(companyID, nil, keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, customers, pageInfo)
}

// GetMine 我的客户（当前销售名下）
func (h *CustomerHandler) GetMine(c *gin.Context) {
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
	keyword := c.Query("keyword")

	customers, total, err := h.service.GetWithPage(companyID, &user.ID, keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, customers, pageInfo)
}

// Update 更新客户
func (h *CustomerHandler) Update(c *gin.Context) {
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

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	customer, err := h.service.Update(id, companyID, req.Name, req.ContactPerson, req.Address, req.GSTNumber, req.Phone, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "客户不存在")
			return
		}
		if strings.Contains(err.Error(), "长度") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "更新失败")
		return
	}

	response.Success(c, customer)
}

// Delete 删除客户
func (h *CustomerHandler) Delete(c *gin.Context) {
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

	if err := h.service.Delete(id, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "客户不存在")
			return
		}
		if strings.Contains(err.Error(), "不允许删除") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.Success(c, nil)
}
