package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"mferp/internal/events"
	"mferp/internal/permissions"
	"mferp/internal/services"
	"mferp/pkg/config"
	"mferp/pkg/jwt"
	"mferp/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketHandler WebSocket处理器
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	hub         *events.Hub
	log         *logrus.Logger
	jwtManager  *jwt.JWTManager
	userService *services.UserService
	blacklist   *services.TokenBlacklistService
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(userService *services.UserService, blacklist *services.TokenBlacklistService) *WebSocketHandler {
	// 获取CORS配置
	cfg := config.GetConfig()
	allowedOrigins := cfg.CORS.AllowOrigins

	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// 如果允许所有源
				for _, allowed := range allowedOrigins {
					if allowed == "*" {
						return true
					}
				}

				// Origin为空（同源请求），允许
				if origin == "" {
					return true
				}

				for _, allowed := range allowedOrigins {
					if matchOrigin(origin, allowed) {
						return true
					}
				}

				logger.GetLogger().Warnf("WebSocket连接被拒绝，非法Origin: %s", origin)
				return false
			},
			ReadBufferSize:  1024 * 4,
			WriteBufferSize: 1024 * 4,
		},
		hub:         events.GetHub(),
		log:         logger.GetLogger(),
		jwtManager:  jwt.GetJWTManager(),
		userService: userService,
		blacklist:   blacklist,
	}
}

// Events 业务事件推送的WebSocket连接
// 看板页面通过此连接实时接收订单、生产、发运状态变更
func (h *WebSocketHandler) Events(c *gin.Context) {
	// 从查询参数获取token（WebSocket不支持自定义header）
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少认证令牌"})
		return
	}

	// 验证token
	claims, err := h.jwtManager.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的令牌"})
		return
	}

	// 已注销的令牌不允许建立连接
	revoked, err := h.blacklist.IsRevoked(c.Request.Context(), claims.ID)
	if err == nil && revoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "令牌已失效"})
		return
	}

	// 验证用户是否有看板查看权限
	hasPermission, err := h.userService.HasPermission(claims.UserID, permissions.ModuleDashboard, permissions.ModuleAccessFeature, permissions.ActionView)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "权限检查失败"})
		return
	}
	if !hasPermission {
		c.JSON(http.StatusForbidden, gin.H{"error": "权限不足"})
		return
	}

	// 升级为WebSocket连接
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.log.WithFields(logrus.Fields{
		"user_id":     claims.UserID,
		"remote_addr": c.ClientIP(),
	}).Info("WebSocket connection established")

	h.handleEventConnection(conn, claims)
}

// handleEventConnection 订阅事件总线并转发给客户端
func (h *WebSocketHandler) handleEventConnection(conn *websocket.Conn, claims *jwt.JWTClaims) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	// 启动goroutine处理客户端消息（主要是ping/pong）
	go h.readPump(conn, cancel)

	const writeTimeout = 10 * time.Second

	// 心跳ticker - 每60秒发送一次ping
	pingTicker := time.NewTicker(60 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.WithError(err).Error("Failed to send ping")
				return
			}

		case ev, ok := <-ch:
			if !ok {
				return
			}

			// 非超级管理员只推送本公司事件
			if !claims.IsSuperAdmin && ev.CompanyID != claims.CompanyID {
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				h.log.WithError(err).Error("Failed to send event to client")
				return
			}
		}
	}
}

// readPump 处理客户端消息
func (h *WebSocketHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	pongWait := 300 * time.Second
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Error("WebSocket unexpected close")
			}
			break
		}
	}
}

// matchOrigin 检查origin是否匹配allowed模式
// 支持精确匹配和通配符匹配（如 *.example.com）
func matchOrigin(origin, allowed string) bool {
	if origin == allowed {
		return true
	}

	if strings.HasPrefix(allowed, "*.") {
		domain := allowed[2:]

		originHost := origin
		if idx := strings.Index(origin, "://"); idx != -1 {
			originHost = origin[idx+3:]
		}

		if idx := strings.Index(originHost, ":"); idx != -1 {
			originHost = originHost[:idx]
		}

		if originHost == domain {
			return true
		}

		if strings.HasSuffix(originHost, "."+domain) {
			return true
		}
	}

	return false
}
