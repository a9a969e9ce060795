package sse

import (
	"log"
	"os"
	"sync"

	ginsse "github.com/gin-contrib/sse"
)

// emitterBuffer 是单个订阅者的事件缓冲大小，写满视为死连接。
const emitterBuffer = 8

// Emitter 表示服务端一条用户订阅，事件经由 Events 通道交给 HTTP 层
// 写出。
type Emitter struct {
	events chan ginsse.Event

	mu     sync.Mutex
	closed bool
}

// Events 返回待写出事件通道，通道关闭表示订阅结束。
func (e *Emitter) Events() <-chan ginsse.Event { return e.events }

func (e *Emitter) send(ev ginsse.Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	select {
	case e.events <- ev:
		return true
	default:
		return false // 缓冲写满，按死连接处理
	}
}

func (e *Emitter) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.events)
	}
}

// Hub 按用户维护订阅列表并分发事件，发送失败的订阅即时剔除。
type Hub struct {
	mu     sync.Mutex
	subs   map[int64][]*Emitter
	logger *log.Logger
}

// NewHub 创建事件中心。
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(os.Stdout, "[hub] ", log.LstdFlags)
	}
	return &Hub{subs: make(map[int64][]*Emitter), logger: logger}
}

// Subscribe 为用户新增一条订阅，并立即投递一条 ping 事件确认通道可用。
func (h *Hub) Subscribe(userID int64) *Emitter {
	em := &Emitter{events: make(chan ginsse.Event, emitterBuffer)}
	em.send(ginsse.Event{Event: "ping", Data: "ok"})

	h.mu.Lock()
	h.subs[userID] = append(h.subs[userID], em)
	h.mu.Unlock()
	return em
}

// Unsubscribe 移除并关闭一条订阅。
func (h *Hub) Unsubscribe(userID int64, em *Emitter) {
	h.mu.Lock()
	list := h.subs[userID]
	for i, e := range list {
		if e == em {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(h.subs, userID)
	} else {
		h.subs[userID] = list
	}
	h.mu.Unlock()
	em.close()
}

// SendToUser 向某用户的全部订阅广播命名事件，返回成功投递的订阅数。
// 投递失败的订阅被视为死连接并移除。
func (h *Hub) SendToUser(userID int64, name string, payload any) int {
	h.mu.Lock()
	list := append([]*Emitter(nil), h.subs[userID]...)
	h.mu.Unlock()
	if len(list) == 0 {
		return 0
	}

	ev := ginsse.Event{Event: name, Data: payload}
	delivered := 0
	var dead []*Emitter
	for _, em := range list {
		if em.send(ev) {
			delivered++
		} else {
			dead = append(dead, em)
		}
	}
	for _, em := range dead {
		h.logger.Printf("drop dead emitter user=%d", userID)
		h.Unsubscribe(userID, em)
	}
	return delivered
}

// Subscribers 返回某用户当前订阅数，供测试断言清理。
func (h *Hub) Subscribers(userID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
