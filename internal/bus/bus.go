// Package bus 提供进程内的"通知已变化"信号总线。显式对象替代全局事件
// 派发，便于注入与在测试中观察订阅/退订。
package bus

import "sync"

// Bus 是单信号发布/订阅总线。信号无负载；每次 Publish 同步调用每个
// 当前订阅者一次，不批量、不合并。
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// New 创建总线。
func New() *Bus {
	return &Bus{subs: make(map[int]func())}
}

// Subscribe 注册订阅者，返回退订函数。退订函数可重复调用。
func (b *Bus) Subscribe(fn func()) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish 广播信号。回调在锁外同步执行，订阅者可以在回调里安全地
// 订阅、退订或再次广播。
func (b *Bus) Publish() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len 返回当前订阅者数量，供测试断言注册与清理。
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
