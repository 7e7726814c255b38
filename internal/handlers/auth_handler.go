package handlers

import (
	"time"

	"mferp/internal/middleware"
	"mferp/internal/permissions"
	"mferp/internal/services"
	"mferp/pkg/jwt"
	"mferp/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *services.UserService
	blacklist   *services.TokenBlacklistService
	jwtManager  *jwt.JWTManager
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		blacklist:   services.NewTokenBlacklistService(),
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Token string `json:"token" binding:"required"`
}

type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"`
	User      UserInfo `json:"user"`
}

// UserInfo 登录/会话返回的用户信息
// 矩阵和目录一起下发，前端网关用与服务端完全相同的语义决定渲染；
// 前端判断只是体验优化，放行与否始终以服务端为准
type UserInfo struct {
	ID           uint                            `json:"id"`
	Username     string                          `json:"username"`
	Email        string                          `json:"email"`
	Name         string                          `json:"name"`
	Role         string                          `json:"role"`
	IsSuperAdmin bool                            `json:"is_super_admin"`
	CompanyID    *uint                           `json:"company_id"`
	Permissions  permissions.Matrix              `json:"permissions"`
	Catalog      []permissions.ModuleDescriptor  `json:"catalog"`
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := h.userService.GetByUsername(req.Username)
	if err != nil {
		response.Unauthorized(c, "用户名或密码错误")
		return
	}

	// 停用检查先于一切
	if !user.IsActive {
		response.Unauthorized(c, "用户已被停用")
		return
	}

	if !user.CheckPassword(req.Password) {
		response.Unauthorized(c, "用户名或密码错误")
		return
	}

	var companyID uint
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}

	token, err := h.jwtManager.GenerateToken(user.ID, companyID, user.Username, user.Role, user.IsSuperAdmin())
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	_ = h.userService.UpdateLastLogin(user.ID)

	response.Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.jwtManager.GetTokenDuration()).Unix(),
		User: UserInfo{
			ID:           user.ID,
			Username:     user.Username,
			Email:        user.Email,
			Name:         user.Name,
			Role:         user.Role,
			IsSuperAdmin: user.IsSuperAdmin(),
			CompanyID:    user.CompanyID,
			Permissions:  user.Matrix(),
			Catalog:      permissions.CatalogFor(user.Role),
		},
	})
}

// Logout 用户登出（jti加入吊销名单，TTL取令牌剩余有效期）
func (h *AuthHandler) Logout(c *gin.Context) {
	claimsValue, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, "请先登录")
		return
	}

	claims := claimsValue.(*jwt.JWTClaims)
	if claims.ID != "" && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := h.blacklist.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
			response.ServerError(c, "登出失败")
			return
		}
	}

	response.SuccessWithMessage(c, "登出成功", nil)
}

// RefreshToken 刷新Token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	newToken, err := h.jwtManager.RefreshToken(req.Token)
	if err != nil {
		response.Unauthorized(c, "Token无效或已过期")
		return
	}

	response.Success(c, gin.H{
		"token":      newToken,
		"expires_at": time.Now().Add(h.jwtManager.GetTokenDuration()).Unix(),
	})
}

// Me 获取当前用户完整信息（前端权限网关的矩阵来源）
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	response.Success(c, UserInfo{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Name:         user.Name,
		Role:         user.Role,
		IsSuperAdmin: user.IsSuperAdmin(),
		CompanyID:    user.CompanyID,
		Permissions:  user.Matrix(),
		Catalog:      permissions.CatalogFor(user.Role),
	})
}
