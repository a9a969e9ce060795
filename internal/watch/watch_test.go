package watch

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"jobhunter/internal/bus"
)

type recordingToaster struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingToaster) Toast(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, title+": "+message)
}

func (r *recordingToaster) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// newPushServer 返回一次性推送单条 resumeStatus 事件的测试服务端。
func newPushServer(t *testing.T, payload string, gotHeader chan<- string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/resume-sse/subscribe" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		select {
		case gotHeader <- r.Header.Get("X-User-Id"):
		default:
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprintf(w, "event:resumeStatus\ndata:%s\n\n", payload)
		flusher.Flush()
		<-r.Context().Done()
	}))
}

func TestWatcherToastsAndPublishes(t *testing.T) {
	t.Parallel()

	gotHeader := make(chan string, 1)
	payload := `{"resumeId":3,"status":"APPROVED","statusText":"Approved","job":"Go Developer","company":"Acme"}`
	srv := newPushServer(t, payload, gotHeader)
	defer srv.Close()

	toaster := &recordingToaster{}
	b := bus.New()
	var signals int
	var mu sync.Mutex
	b.Subscribe(func() {
		mu.Lock()
		signals++
		mu.Unlock()
	})

	w := New(Config{
		BaseURL: srv.URL,
		Bus:     b,
		Toaster: toaster,
		Logger:  log.New(io.Discard, "", 0),
	})
	if err := w.Start(42); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	waitFor(t, func() bool { return len(toaster.snapshot()) == 1 })
	msg := toaster.snapshot()[0]
	if !strings.Contains(msg, "Go Developer") || !strings.Contains(msg, "Approved") {
		t.Fatalf("toast missing detail: %q", msg)
	}
	if got := <-gotHeader; got != "42" {
		t.Fatalf("X-User-Id = %q, want 42", got)
	}
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return signals >= 1
	})
}

func TestWatcherPassesThroughUndecodablePayload(t *testing.T) {
	t.Parallel()

	gotHeader := make(chan string, 1)
	srv := newPushServer(t, "plain text update", gotHeader)
	defer srv.Close()

	toaster := &recordingToaster{}
	b := bus.New()
	var signals int
	var mu sync.Mutex
	b.Subscribe(func() {
		mu.Lock()
		signals++
		mu.Unlock()
	})

	w := New(Config{
		BaseURL: srv.URL,
		Bus:     b,
		Toaster: toaster,
		Logger:  log.New(io.Discard, "", 0),
	})
	if err := w.Start(7); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	waitFor(t, func() bool { return len(toaster.snapshot()) == 1 })
	if got := toaster.snapshot()[0]; !strings.Contains(got, "plain text update") {
		t.Fatalf("raw payload not surfaced: %q", got)
	}
	// 无法解析的负载同样要触发刷新
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return signals >= 1
	})
}

func TestWatcherLifecycle(t *testing.T) {
	t.Parallel()

	w := New(Config{Logger: log.New(io.Discard, "", 0)})

	if err := w.Start(0); err == nil {
		t.Fatal("expected error for missing identity")
	}
	if w.Running() {
		t.Fatal("watcher should not run without identity")
	}

	gotHeader := make(chan string, 1)
	srv := newPushServer(t, `{"resumeId":1,"status":"PENDING"}`, gotHeader)
	defer srv.Close()

	w2 := New(Config{BaseURL: srv.URL, Logger: log.New(io.Discard, "", 0)})
	if err := w2.Start(5); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := w2.Start(5); err == nil {
		t.Fatal("second start should fail while running")
	}
	if !w2.Running() {
		t.Fatal("expected running watcher")
	}

	w2.Stop()
	w2.Stop() // 可重复
	if w2.Running() {
		t.Fatal("expected stopped watcher")
	}
}
