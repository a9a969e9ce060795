package sse

import (
	"testing"
	"time"

	ginsse "github.com/gin-contrib/sse"
)

func TestHubSubscribeDeliversPing(t *testing.T) {
	t.Parallel()

	h := NewHub(newQuietLogger())
	em := h.Subscribe(42)
	defer h.Unsubscribe(42, em)

	select {
	case ev := <-em.Events():
		if ev.Event != "ping" {
			t.Fatalf("first event = %q, want ping", ev.Event)
		}
	case <-time.After(time.Second):
		t.Fatal("no ping event on subscribe")
	}
}

func TestHubSendToUserReachesAllEmitters(t *testing.T) {
	t.Parallel()

	h := NewHub(newQuietLogger())
	a := h.Subscribe(7)
	b := h.Subscribe(7)
	other := h.Subscribe(8)
	defer h.Unsubscribe(7, a)
	defer h.Unsubscribe(7, b)
	defer h.Unsubscribe(8, other)

	<-a.Events() // 清掉 ping
	<-b.Events()
	<-other.Events()

	if n := h.SendToUser(7, "resumeStatus", map[string]any{"resumeId": 1}); n != 2 {
		t.Fatalf("delivered = %d, want 2", n)
	}

	for _, em := range []*Emitter{a, b} {
		select {
		case ev := <-em.Events():
			if ev.Event != "resumeStatus" {
				t.Fatalf("event = %q, want resumeStatus", ev.Event)
			}
		case <-time.After(time.Second):
			t.Fatal("emitter missed the event")
		}
	}

	select {
	case ev := <-other.Events():
		t.Fatalf("user 8 should not receive user 7 events, got %q", ev.Event)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHubDropsDeadEmitter(t *testing.T) {
	t.Parallel()

	h := NewHub(newQuietLogger())
	em := h.Subscribe(9) // 从不消费，缓冲最终写满

	for i := 0; i < emitterBuffer+1; i++ {
		h.SendToUser(9, "resumeStatus", i)
	}

	if got := h.Subscribers(9); got != 0 {
		t.Fatalf("dead emitter should be removed, %d left", got)
	}

	// 通道应已关闭：排空缓冲后读取返回零值
	var ev ginsse.Event
	ok := true
	for ok {
		ev, ok = <-em.Events()
	}
	_ = ev
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	h := NewHub(newQuietLogger())
	em := h.Subscribe(11)
	h.Unsubscribe(11, em)

	for range em.Events() {
		// 排空 ping 后通道关闭，循环自然退出
	}

	if h.SendToUser(11, "resumeStatus", nil) != 0 {
		t.Fatal("send after unsubscribe should deliver to nobody")
	}
	if h.Subscribers(11) != 0 {
		t.Fatal("subscriber list not cleaned up")
	}
}
