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

type ProductHandler struct {
	service *services.ProductService
}

func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	SKU          string  `json:"sku" binding:"required"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price" binding:"gte=0"`
	ReorderLevel float64 `json:"reorder_level" binding:"gte=0"`
}

type UpdateProductRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price" binding:"gte=0"`
	ReorderLevel float64 `json:"reorder_level" binding:"gte=0"`
	Status       string  `json:"status"`
}

type AdjustStockRequest struct {
	Delta float64 `json:"delta" binding:"required"`
}

// ========== 基础CRUD方法 ==========

// Create 创建产品
func (h *ProductHandler) Create(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	product, err := h.service.Create(companyID, req.Name, req.SKU, req.Category, req.Unit, req.Price, req.ReorderLevel)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "长度") || strings.Contains(errMsg, "已存在") ||
			strings.Contains(errMsg, "不能") {
			response.BadRequest(c, errMsg)
			return
		}
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, product)
}

// GetByID 获取产品
func (h *ProductHandler) GetByID(c *gin.Context) {
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

	product, err := h.service.GetByID(id, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "产品不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, product)
}

// GetAll 获取产品列表（支持分页、低库存筛选）
func (h *ProductHandler) GetAll(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pageParams := pagination.ParsePageParams(c)
	category := c.Query("category")
	keyword := c.Query("keyword")
	lowStock := c.Query("low_stock") == "true"

	products, total, err := h.service.GetWithPage(companyID, category, keyword, lowStock, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, products, pageInfo)
}

// Update 更新产品
func (h *ProductHandler) Update(c *gin.Context) {
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

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	product, err := h.service.Update(id, companyID, req.Name, req.Category, req.Unit, req.Price, req.ReorderLevel, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "产品不存在")
			return
		}
		errMsg := err.Error()
		if strings.Contains(errMsg, "状态只能") || strings.Contains(errMsg, "不能") {
			response.BadRequest(c, errMsg)
			return
		}
		response.ServerError(c, "更新失败")
		return
	}

	response.Success(c, product)
}

// AdjustStock 调整库存
func (h *ProductHandler) AdjustStock(c *gin.Context) {
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

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	product, err := h.service.AdjustStock(id, companyID, req.Delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "产品不存在")
			return
		}
		if strings.Contains(err.Error(), "库存不足") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, product)
}

// Delete 删除产品
func (h *ProductHandler) Delete(c *gin.Context) {
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
			response.NotFound(c, "产品不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.Success(c, nil)
}
