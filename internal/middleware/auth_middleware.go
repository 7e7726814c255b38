package middleware

import (
	"context"
	"strconv"
	"strings"

	"mferp/internal/models"
	"mferp/internal/permissions"
	"mferp/internal/services"
	"mferp/pkg/jwt"
	"mferp/pkg/response"

	"github.com/gin-gonic/gin"
)

// userSource 中间件所需的用户查询能力（便于测试替身）
type userSource interface {
	GetByID(id uint) (*models.User, error)
	HasPermission(userID uint, module, feature, action string) (bool, error)
	HasRole(userID uint, role string) (bool, error)
}

// tokenChecker 令牌吊销名单查询能力
type tokenChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware 权限中间件
// 服务端是唯一可信边界：前端的权限网关只影响渲染，放行与否以这里为准
type AuthMiddleware struct {
	users      userSource
	blacklist  tokenChecker
	jwtManager *jwt.JWTManager
}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{
		users:      services.NewUserService(),
		blacklist:  services.NewTokenBlacklistService(),
		jwtManager: jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

// NewAuthMiddlewareWith 注入依赖创建（测试用）
func NewAuthMiddlewareWith(users userSource, blacklist tokenChecker, jwtManager *jwt.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		users:      users,
		blacklist:  blacklist,
		jwtManager: jwtManager,
	}
}

// RequireLogin 登录检查
// 顺序：令牌验证 → 吊销名单 → 现查用户 → 停用总开关 → 写入上下文
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从Authorization头获取JWT token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		// 检查Bearer格式
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "认证头格式错误")
			c.Abort()
			return
		}

		tokenString := authHeader[7:] // 去掉 "Bearer "

		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Token无效或已过期")
			c.Abort()
			return
		}

		// 检查登出吊销名单
		if m.blacklist != nil && claims.ID != "" {
			revoked, err := m.blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, "Token已失效")
				c.Abort()
				return
			}
		}

		// 每次请求现查用户，权限编辑即时生效
		user, err := m.users.GetByID(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			c.Abort()
			return
		}

		// 停用是独立于矩阵的总开关
		if !user.IsActive {
			response.Unauthorized(c, "用户已被停用")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", user.Role)
		c.Set("is_super_admin", user.IsSuperAdmin())
		if user.CompanyID != nil {
			c.Set("company_id", *user.CompanyID)
		}
		c.Set("claims", claims)

		c.Next()
	}
}

// RequirePermission 要求 (模块, 功能, 操作) 权限
// 超级管理员旁路和矩阵求值顺序由服务层保证：先旁路后查矩阵
func (m *AuthMiddleware) RequirePermission(module, feature, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		hasPermission, err := m.users.HasPermission(userID.(uint), module, feature, action)
		if err != nil {
			response.ServerError(c, "权限检查失败")
			c.Abort()
			return
		}

		if !hasPermission {
			// 不回显所需权限，避免暴露权限模型结构
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireModule 模块粒度模块的权限检查（隐式access功能）
func (m *AuthMiddleware) RequireModule(module, action string) gin.HandlerFunc {
	return m.RequirePermission(module, permissions.ModuleAccessFeature, action)
}

// RequireRole 要求特定角色（超级管理员始终放行）
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		hasRole, err := m.users.HasRole(userID.(uint), role)
		if err != nil {
			response.ServerError(c, "角色检查失败")
			c.Abort()
			return
		}

		if !hasRole {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSuperAdmin 要求超级管理员
func (m *AuthMiddleware) RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !user.(*models.User).IsSuperAdmin() {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSameCompany 单位数据隔离
// 行范围约束与权限矩阵正交：矩阵决定能做什么操作，单位决定对哪些行生效
func (m *AuthMiddleware) RequireSameCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		userObj := user.(*models.User)

		// 超级管理员可以访问所有单位的数据
		if userObj.IsSuperAdmin() {
			c.Next()
			return
		}

		// 从URL参数或查询参数中获取目标单位ID
		targetIDStr := c.Param("company_id")
		if targetIDStr == "" {
			targetIDStr = c.Query("company_id")
		}

		if targetIDStr != "" {
			targetID, err := strconv.ParseUint(targetIDStr, 10, 32)
			if err != nil {
				response.BadRequest(c, "单位ID格式错误")
				c.Abort()
				return
			}

			if userObj.CompanyID == nil || *userObj.CompanyID != uint(targetID) {
				response.Forbidden(c, "无权访问其他单位的数据")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// RequireOwnerOrSuperAdmin 要求是资源所有者（:id指向自己）或超级管理员
func (m *AuthMiddleware) RequireOwnerOrSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		userObj := user.(*models.User)
		if userObj.IsSuperAdmin() {
			c.Next()
			return
		}

		resourceIDStr := c.Param("id")
		if resourceIDStr != "" {
			resourceID, err := strconv.ParseUint(resourceIDStr, 10, 32)
			if err != nil {
				response.BadRequest(c, "用户ID格式错误")
				c.Abort()
				return
			}

			if userObj.ID == uint(resourceID) {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "只能操作自己的资源")
		c.Abort()
	}
}

// CurrentUser 从上下文取当前用户
func CurrentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	userObj, ok := user.(*models.User)
	return userObj, ok
}

// CurrentCompanyID 从上下文取当前单位ID（平台级账号返回false）
func CurrentCompanyID(c *gin.Context) (uint, bool) {
	companyID, exists := c.Get("company_id")
	if !exists {
		return 0, false
	}
	id, ok := companyID.(uint)
	return id, ok
}
