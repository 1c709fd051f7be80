// Package bus 提供跨视图的进程内消息通知。
//
// 评分录入与积分榜是两个独立视图，保存成功后积分榜需要自行刷新。
// 两者之间不共享可变状态，只通过单向的事件通知解耦；
// 事件只有一种类型化载荷，不使用字符串主题名
package bus

import "sync"

// PointsUpdated 积分已更新事件 — 保存评分成功后发布
// 只携带赛事 ID，订阅方据此决定是否刷新，载荷不含任何成绩数据
type PointsUpdated struct {
	EventID int
}

// Handler 事件处理函数，在独立 goroutine 中调用
type Handler func(PointsUpdated)

// Bus 进程内发布/订阅通道
type Bus struct {
	mu   sync.Mutex
	subs map[int]Handler
	next int
}

// New 创建事件总线
func New() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe 注册订阅，返回的取消函数用于视图卸载时注销，防止监听泄漏
func (b *Bus) Subscribe(h Handler) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish 发布事件，即发即弃：异步派发，不阻塞保存路径，无送达回执
func (b *Bus) Publish(ev PointsUpdated) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		go h(ev)
	}
}
