package handlers

import (
	"errors"
	"strings"

	"mferp/internal/services"
	"mferp/pkg/pagination"
	"mferp/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CompanyHandler struct {
	service *services.CompanyService
}

func NewCompanyHandler(service *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		service: service,
	}
}

type CreateCompanyRequest struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
	Address   string `json:"address"`
	GSTNumber string `json:"gst_number"`
}

type UpdateCompanyRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	GSTNumber string `json:"gst_number"`
	Status    string `json:"status"`
}

// ========== 基础CRUD方法 ==========

// Create 创建单位
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	company, err := h.service.Create(req.Name, req.Code, req.Address, req.GSTNumber)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "长度") || strings.Contains(errMsg, "已存在") {
			response.BadRequest(c, errMsg)
			return
		}
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, company)
}

// GetByID 获取单位
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "单位不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, company)
}

// GetAll 获取单位列表（支持分页）
func (h *CompanyHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")

	companies, total, err := h.service.GetWithPage(status, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, companies, pageInfo)
}

// Update 更新单位
func (h *CompanyHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	company, err := h.service.Update(id, req.Name, req.Address, req.GSTNumber, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "单位不存在")
			return
		}
		if strings.Contains(err.Error(), "状态只能") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "更新失败")
		return
	}

	response.Success(c, company)
}

// Delete 删除单位
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "单位不存在")
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
