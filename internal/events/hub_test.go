package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	assert.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(TypeOrderCreated, 1, map[string]interface{}{"order_no": "ORD-20260829-ABCD1234"})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, TypeOrderCreated, ev.Type)
			assert.Equal(t, uint(1), ev.CompanyID)
			assert.False(t, ev.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("未收到事件")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	cancel()

	assert.Equal(t, 0, hub.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)

	// 重复取消不panic
	cancel()
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	// 填满缓冲再多发若干条，发布方不得阻塞
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(TypeOrderStatus, 1, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("发布方被慢订阅者阻塞")
	}

	// 缓冲内的事件仍可取出
	require.NotZero(t, len(ch))
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	// 没有订阅者也不panic
	hub.Publish(TypeDispatchCreated, 2, nil)
}
