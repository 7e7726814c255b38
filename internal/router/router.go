package router

import (
	"time"

	"mferp/internal/handlers"
	"mferp/internal/middleware"
	"mferp/internal/permissions"
	"mferp/internal/services"
	"mferp/pkg/response"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter() *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	// 注册路由
	registerRoutes(router)
	return router
}

// 注册所有路由
func registerRoutes(router *gin.Engine) {

	auth := middleware.NewAuthMiddleware()

	userService := services.NewUserService()
	blacklistService := services.NewTokenBlacklistService()

	// WebSocket事件推送（认证在处理器内完成，token从查询参数传入）
	wsHandler := handlers.NewWebSocketHandler(userService, blacklistService)
	router.GET("/ws/events", wsHandler.Events)

	// API路由组
	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// JWT认证路由（无需认证）
		authHandler := handlers.NewAuthHandler(userService)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)          // 用户登录
			authGroup.POST("/logout", auth.RequireLogin(), authHandler.Logout)
			authGroup.POST("/refresh", authHandler.RefreshToken) // 刷新Token

			// 🔒 获取当前用户完整信息（含权限矩阵和目录）
			authGroup.GET("/me", auth.RequireLogin(), authHandler.Me)
		}

		// 🔐 用户与权限管理（仅超级管理员）
		userHandler := handlers.NewUserHandler()
		users := api.Group("/users")
		{
			// 🔒 基础CRUD
			users.POST("", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.Create)
			users.GET("", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.GetAll)
			users.GET("/stats", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.GetStats)
			users.GET("/:id", auth.RequireLogin(), auth.RequireOwnerOrSuperAdmin(), userHandler.GetByID)
			users.PUT("/:id", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.Update)
			users.DELETE("/:id", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.Delete)

			// 🔒 账号开关与密码
			users.POST("/:id/activate", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.Activate)
			users.POST("/:id/deactivate", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.Deactivate)
			users.POST("/:id/reset-password", auth.RequireLogin(), auth.RequireOwnerOrSuperAdmin(), userHandler.ResetPassword)
			users.POST("/:id/change-role", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.ChangeRole)

			// 🔒 权限矩阵（整体读取/整体替换）
			users.GET("/:id/matrix", auth.RequireLogin(), auth.RequireOwnerOrSuperAdmin(), userHandler.GetMatrix)
			users.PUT("/:id/matrix", auth.RequireLogin(), auth.RequireSuperAdmin(), userHandler.ReplaceMatrix)
		}

		// 权限目录（登录即可读取，前端据此渲染权限编辑界面）
		api.GET("/permissions/catalog", auth.RequireLogin(), userHandler.GetCatalog)

		// 🔐 公司管理（仅超级管理员）
		companyHandler := handlers.NewCompanyHandler(services.NewCompanyService())
		companies := api.Group("/companies")
		{
			companies.POST("", auth.RequireLogin(), auth.RequireSuperAdmin(), companyHandler.Create)
			companies.GET("", auth.RequireLogin(), auth.RequireSuperAdmin(), companyHandler.GetAll)
			companies.GET("/:id", auth.RequireLogin(), auth.RequireSuperAdmin(), companyHandler.GetByID)
			companies.PUT("/:id", auth.RequireLogin(), auth.RequireSuperAdmin(), companyHandler.Update)
			companies.DELETE("/:id", auth.RequireLogin(), auth.RequireSuperAdmin(), companyHandler.Delete)
		}

		// 🔐 客户管理
		customerHandler := handlers.NewCustomerHandler(services.NewCustomerService())
		customers := api.Group("/customers")
		{
			customers.POST("", auth.RequireLogin(), auth.RequireModule(permissions.ModuleCustomers, permissions.ActionAdd), customerHandler.Create)
			customers.GET("", auth.RequireLogin(), auth.RequireModule(permissions.ModuleCustomers, permissions.ActionView), customerHandler.GetAll)

			// 🔒 我的客户（销售）
			customers.GET("/mine", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleSales, "myCustomers", permissions.ActionView), customerHandler.GetMine)

			customers.GET("/:id", auth.RequireLogin(), auth.RequireModule(permissions.ModuleCustomers, permissions.ActionView), customerHandler.GetByID)
			customers.PUT("/:id", auth.RequireLogin(), auth.RequireModule(permissions.ModuleCustomers, permissions.ActionEdit), customerHandler.Update)
			customers.DELETE("/:id", auth.RequireLogin(), auth.RequireModule(permissions.ModuleCustomers, permissions.ActionDelete), customerHandler.Delete)
		}

		// 🔐 产品与库存
		productHandler := handlers.NewProductHandler(services.NewProductService())
		products := api.Group("/products")
		{
			products.POST("", auth.RequireLogin(), auth.RequireModule(permissions.ModuleInventory, permissions.ActionAdd), productHandler.Create)
			products.GET("", auth.RequireLogin(), auth.RequireModule(permissions.ModuleInventory, permissions.ActionView), productHandler.GetAll)
			products.GET("/:id", auth.RequireLogin(), auth.RequireModule(permissions.ModuleInventory, permissions.ActionView), productHandler.GetByID)
			products.PUT("/:id", auth.RequireLogin(), auth.RequireModule(permissions.ModuleInventory, permissions.ActionEdit), productHandler.Update)
			products.POST("/:id/adjust-stock", auth.RequireLogin(), auth.RequireModule(permissions.ModuleInventory, permissions.ActionEdit), productHandler.AdjustStock)
			products.DELETE("/:id", auth.RequireLogin(), auth.RequireModule(permissions.ModuleInventory, permissions.ActionDelete), productHandler.Delete)
		}

		// 🔐 订单管理
		orderHandler := handlers.NewOrderHandler(services.NewOrderService())
		orders := api.Group("/orders")
		{
			orders.POST("", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleSales, "myOrders", permissions.ActionAdd), orderHandler.Create)
			orders.GET("", auth.RequireLogin(), auth.RequireModule(permissions.ModuleOrders, permissions.ActionView), orderHandler.GetAll)

			// 🔒 我的订单（销售）
			orders.GET("/mine", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleSales, "myOrders", permissions.ActionView), orderHandler.GetMine)

			// 🔒 今日请购（生产）
			orders.GET("/todays-indents", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleProduction, "todaysIndents", permissions.ActionView), orderHandler.GetTodaysIndents)

			// 🔒 包装队列（包装）
			orders.GET("/packing-queue", auth.RequireLogin(), auth.RequirePermission(permissions.ModulePacking, "packingQueue", permissions.ActionView), orderHandler.GetPackingQueue)
			orders.GET("/packed", auth.RequireLogin(), auth.RequirePermission(permissions.ModulePacking, "packedOrders", permissions.ActionView), orderHandler.GetPacked)

			orders.GET("/:id", auth.RequireLogin(), auth.RequireModule(permissions.ModuleOrders, permissions.ActionView), orderHandler.GetByID)

			// 🔒 销售审批（单位经理）
			orders.POST("/:id/approve", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleUnitManager, "salesApproval", permissions.ActionEdit), orderHandler.Approve)

			// 🔒 包装完成（包装）
			orders.POST("/:id/pack", auth.RequireLogin(), auth.RequirePermission(permissions.ModulePacking, "packingQueue", permissions.ActionEdit), orderHandler.MarkPacked)

			orders.POST("/:id/status", auth.RequireLogin(), auth.RequireModule(permissions.ModuleOrders, permissions.ActionEdit), orderHandler.UpdateStatus)
		}

		// 🔐 生产批次
		productionHandler := handlers.NewProductionHandler(services.NewProductionService())
		batches := api.Group("/production-batches")
		{
			batches.POST("", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleProduction, "batchProduction", permissions.ActionAdd), productionHandler.Create)
			batches.GET("", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleProduction, "batchProduction", permissions.ActionView), productionHandler.GetAll)
			batches.GET("/:id", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleProduction, "batchProduction", permissions.ActionView), productionHandler.GetByID)
			batches.POST("/:id/start", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleProduction, "batchProduction", permissions.ActionEdit), productionHandler.Start)
			batches.POST("/:id/complete", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleProduction, "batchProduction", permissions.ActionEdit), productionHandler.Complete)
			batches.POST("/:id/cancel", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleProduction, "batchProduction", permissions.ActionEdit), productionHandler.Cancel)
		}

		// 🔐 发运管理
		dispatchHandler := handlers.NewDispatchHandler(services.NewDispatchService())
		dispatches := api.Group("/dispatches")
		{
			dispatches.POST("", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleDispatch, "createDispatch", permissions.ActionAdd), dispatchHandler.Create)
			dispatches.GET("/pending", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleDispatch, "pendingDispatch", permissions.ActionView), dispatchHandler.GetPending)
			dispatches.GET("/history", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleDispatch, "dispatchHistory", permissions.ActionView), dispatchHandler.GetHistory)
			dispatches.GET("/:id", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleDispatch, "dispatchHistory", permissions.ActionView), dispatchHandler.GetByID)
			dispatches.POST("/:id/in-transit", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleDispatch, "pendingDispatch", permissions.ActionEdit), dispatchHandler.MarkInTransit)
			dispatches.POST("/:id/delivered", auth.RequireLogin(), auth.RequirePermission(permissions.ModuleDispatch, "pendingDispatch", permissions.ActionEdit), dispatchHandler.MarkDelivered)
		}

		// 🔐 公司配置（读取需登录，写入仅超级管理员）
		settingHandler := handlers.NewSettingHandler(services.NewSettingService())
		settings := api.Group("/settings")
		{
			settings.GET("", auth.RequireLogin(), settingHandler.GetAll)
			settings.GET("/:key", auth.RequireLogin(), settingHandler.Get)
			settings.PUT("", auth.RequireLogin(), auth.RequireSuperAdmin(), settingHandler.Set)
			settings.DELETE("/:key", auth.RequireLogin(), auth.RequireSuperAdmin(), settingHandler.Delete)
		}
	}
}

func healthCheck(c *gin.Context) {
	data := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "MFERP",
		"version":   "1.0.0",
	}
	response.Success(c, data)
}

func ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}
