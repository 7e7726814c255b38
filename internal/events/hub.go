package events

import (
	"sync"
	"time"
)

// 事件类型常量
const (
	TypeOrderCreated    = "order.created"
	TypeOrderStatus     = "order.status_changed"
	TypeDispatchCreated = "dispatch.created"
	TypeDispatchStatus  = "dispatch.status_changed"
	TypeBatchStatus     = "batch.status_changed"
)

// Event 推送给工作台的业务事件
type Event struct {
	Type      string      `json:"type"`
	CompanyID uint        `json:"company_id"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub 进程内事件广播中心
// 订阅者各持一个带缓冲通道，慢订阅者丢事件而不阻塞发布方
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan Event
	nextID      uint64
}

// NewHub 创建事件中心
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint64]chan Event),
	}
}

// Subscribe 订阅事件，返回事件通道和取消函数
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, 64)
	h.subscribers[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish 发布事件
func (h *Hub) Publish(eventType string, companyID uint, payload interface{}) {
	event := Event{
		Type:      eventType,
		CompanyID: companyID,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// 通道已满，丢弃本条
		}
	}
}

// SubscriberCount 当前订阅者数量
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// 全局事件中心单例
var (
	defaultHub *Hub
	hubOnce    sync.Once
)

// GetHub 获取全局事件中心
func GetHub() *Hub {
	hubOnce.Do(func() {
		defaultHub = NewHub()
	})
	return defaultHub
}
