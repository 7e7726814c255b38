package services

import (
	"fmt"

	"mferp/pkg/logger"

	"github.com/robfig/cron/v3"
)

// OrderWatchdog 订单超期看门狗
// 每日一次把超过预计交付日期且未送达的订单标记为超期
type OrderWatchdog struct {
	orderService *OrderService
	cron         *cron.Cron
	spec         string
	running      bool
}

// NewOrderWatchdog 创建看门狗，spec为空时默认每日凌晨一点
func NewOrderWatchdog(orderService *OrderService, spec string) *OrderWatchdog {
	if spec == "" {
		spec = "0 1 * * *"
	}
	return &OrderWatchdog{
		orderService: orderService,
		cron:         cron.New(),
		spec:         spec,
	}
}

// Start 启动看门狗
func (w *OrderWatchdog) Start() error {
	if w.running {
		return fmt.Errorf("看门狗已经在运行")
	}

	_, err := w.cron.AddFunc(w.spec, w.runOnce)
	if err != nil {
		return fmt.Errorf("注册超期检查任务失败: %v", err)
	}

	w.cron.Start()
	w.running = true

	logger.GetLogger().Infof("订单超期看门狗启动成功（%s）", w.spec)
	return nil
}

// Stop 停止看门狗
func (w *OrderWatchdog) Stop() {
	if !w.running {
		return
	}

	logger.GetLogger().Info("停止订单超期看门狗")
	w.cron.Stop()
	w.running = false
}

// runOnce 执行一轮超期标记
func (w *OrderWatchdog) runOnce() {
	flagged, err := w.orderService.FlagOverdueOrders()
	if err != nil {
		logger.GetLogger().Errorf("订单超期标记失败: %v", err)
		return
	}
	if flagged > 0 {
		logger.GetLogger().Infof("本轮标记超期订单 %d 个", flagged)
	}
}
