package handlers

import (
	"errors"

	"mferp/internal/middleware"
	"mferp/internal/services"
	"mferp/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SettingHandler struct {
	service *services.SettingService
}

func NewSettingHandler(service *services.SettingService) *SettingHandler {
	return &SettingHandler{
		service: service,
	}
}

type SetSettingRequest struct {
	Key   string `json:"key" binding:"required,max=100"`
	Value string `json:"value" binding:"required"`
}

// GetAll 获取公司全部配置
func (h *SettingHandler) GetAll(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settings, err := h.service.GetAll(companyID)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, settings)
}

// Get 按键获取配置
func (h *SettingHandler) Get(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, "配置键不能为空")
		return
	}

	setting, err := h.service.Get(companyID, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "配置不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, setting)
}

// Set 设置配置(不存在则创建)
func (h *SettingHandler) Set(c *gin.Context) {
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

	var req SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	setting, err := h.service.Set(companyID, req.Key, req.Value, user.ID)
	if err != nil {
		response.ServerError(c, "保存失败")
		return
	}

	response.Success(c, setting)
}

// Delete 删除配置
func (h *SettingHandler) Delete(c *gin.Context) {
	companyID, err := resolveCompanyID(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, "配置键不能为空")
		return
	}

	if err := h.service.Delete(companyID, key); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "配置不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
