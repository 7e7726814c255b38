package handlers

import (
	"errors"
	"strconv"
	"strings"

	apperrors "mferp/pkg/errors"
	"mferp/internal/middleware"
	"mferp/internal/permissions"
	"mferp/internal/services"
	"mferp/pkg/pagination"
	"mferp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler() *UserHandler {
	return &UserHandler{
		service: services.NewUserService(),
	}
}

type CreateUserRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Name      string  `json:"name" binding:"required,max=100"`
	Role      string  `json:"role" binding:"required"`
	Phone     *string `json:"phone"`
	CompanyID *uint   `json:"company_id"`
}

type UpdateUserRequest struct {
	Name  string  `json:"name" binding:"required,max=100"`
	Email string  `json:"email" binding:"required,email"`
	Phone *string `json:"phone"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// ReplaceMatrixRequest 权限矩阵整体替换请求
// 提交完整矩阵，服务端校验键名后整体覆盖，从不局部合并
type ReplaceMatrixRequest struct {
	Permissions permissions.RawMatrix `json:"permissions" binding:"required"`
}

// bindError 把绑定错误翻译成可读提示
func bindError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fe.Field())
		}
		return "参数校验失败: " + strings.Join(fields, ", ")
	}
	return "参数错误"
}

// ========== 基础CRUD方法 ==========

// Create 创建用户（权限矩阵按角色默认值生成）
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	user, err := h.service.Create(req.Username, req.Email, req.Password, req.Name, req.Role, req.Phone, req.CompanyID)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "已存在") || strings.Contains(errMsg, "长度") ||
			strings.Contains(errMsg, "未知的角色") || strings.Contains(errMsg, "格式") ||
			strings.Contains(errMsg, "不存在") || strings.Contains(errMsg, "密码") {
			response.BadRequest(c, errMsg)
			return
		}
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, user)
}

// GetByID 获取用户
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	user, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, user)
}

// GetAll 获取用户列表（支持分页和筛选）
func (h *UserHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)
	role := c.Query("role")
	keyword := c.Query("keyword")

	// 非超级管理员只能看本单位用户
	var companyID *uint
	if user, ok := middleware.CurrentUser(c); ok && !user.IsSuperAdmin() {
		companyID = user.CompanyID
	} else if idStr := c.Query("company_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			response.BadRequest(c, "单位ID格式错误")
			return
		}
		cid := uint(id)
		companyID = &cid
	}

	users, total, err := h.service.GetWithFiltersAndPage(companyID, role, keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, users, pageInfo)
}

// Update 更新用户基础信息
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	user, err := h.service.Update(uint(id), req.Name, req.Email, req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		errMsg := err.Error()
		if strings.Contains(errMsg, "已存在") || strings.Contains(errMsg, "长度") || strings.Contains(errMsg, "格式") {
			response.BadRequest(c, errMsg)
			return
		}
		response.ServerError(c, "更新失败")
		return
	}

	response.Success(c, user)
}

// Delete 删除用户
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.Success(c, nil)
}

// ========== 快捷操作 ==========

// Activate 激活用户
func (h *UserHandler) Activate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	user, err := h.service.Activate(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, user)
}

// Deactivate 停用用户（停用后该用户的一切请求都会被拒绝，与矩阵内容无关）
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	user, err := h.service.Deactivate(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, user)
}

// ResetPassword 重置密码
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	user, err := h.service.ResetPassword(uint(id), req.Password)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		errMsg := err.Error()
		if strings.Contains(errMsg, "密码") {
			response.BadRequest(c, errMsg)
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, user)
}

// ChangeRole 变更角色（矩阵按新角色重新生成，不与旧矩阵合并）
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	user, err := h.service.ChangeRole(uint(id), req.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		if strings.Contains(err.Error(), "未知的角色") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, user)
}

// ========== 权限矩阵管理 ==========

// GetMatrix 获取目标用户的权限矩阵
func (h *UserHandler) GetMatrix(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	matrix, err := h.service.LoadMatrix(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, gin.H{"permissions": matrix})
}

// ReplaceMatrix 整体替换目标用户的权限矩阵
// 未知的模块/功能/操作名拒绝并指明出错的键；失败时不应用任何变更
func (h *UserHandler) ReplaceMatrix(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req ReplaceMatrixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误：矩阵必须是 模块→功能→操作→布尔 的嵌套结构")
		return
	}

	user, err := h.service.ReplaceMatrix(uint(id), req.Permissions)
	if err != nil {
		if apperrors.IsValidationError(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.ServerError(c, "更新失败")
		return
	}

	response.Success(c, user)
}

// GetCatalog 获取权限目录（管理界面渲染矩阵编辑器用）
func (h *UserHandler) GetCatalog(c *gin.Context) {
	response.Success(c, gin.H{
		"catalog": permissions.Catalog(),
		"roles":   permissions.RoleNames,
	})
}

// ========== 统计 ==========

// GetStats 获取用户统计
func (h *UserHandler) GetStats(c *gin.Context) {
	var companyID *uint
	if user, ok := middleware.CurrentUser(c); ok && !user.IsSuperAdmin() {
		companyID = user.CompanyID
	}

	stats, err := h.service.GetStats(companyID)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, stats)
}
