package feed

import (
	"sync"
	"time"
)

// Status 数据源状态通知。
type Status int

const (
	StatusUnknown Status = iota
	StatusConnecting
	StatusDelayed // 正在发送历史（非实时）K线
	StatusConnected
	StatusLive // 进入实时模式
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusDelayed:
		return "delayed"
	case StatusConnected:
		return "connected"
	case StatusLive:
		return "live"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

type Notification struct {
	Status Status
	Feed   string
	At     time.Time
}

// NotificationQueue 先进先出的状态通知队列。宿主每个轮询周期 Drain 一次：
// 先追加哨兵再取到哨兵为止，Drain 期间新入队的通知留到下一次。
type NotificationQueue struct {
	mu    sync.Mutex
	items []*Notification
}

func NewNotificationQueue() *NotificationQueue {
	return &NotificationQueue{}
}

func (q *NotificationQueue) Put(n Notification) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	q.mu.Lock()
	q.items = append(q.items, &n)
	q.mu.Unlock()
}

func (q *NotificationQueue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, nil) // 哨兵
	var out []Notification
	for {
		head := q.items[0]
		q.items = q.items[1:]
		if head == nil {
			break
		}
		out = append(out, *head)
	}
	return out
}

func (q *NotificationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
