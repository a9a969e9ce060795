// Package sse 实现长连接事件推送：客户端断线重连订阅器与服务端
// 按用户分发的事件中心。
package sse

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// State 表示推送连接状态。
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateError        State = "error"
)

// DefaultRetryDelay 是断线后的固定重连间隔。
const DefaultRetryDelay = 3 * time.Second

// Event 表示一条已接收的服务端事件。
type Event struct {
	Name string
	Data []byte
}

// Config 定义客户端配置。
type Config struct {
	URL        string        // 订阅端点完整地址
	Event      string        // 只分发该命名事件；为空则分发全部事件
	RetryDelay time.Duration // 重连间隔，默认 3s
	Client     *http.Client
	Header     http.Header // 附加请求头（如 X-User-Id）
	Logger     *log.Logger
}

// Client 维护一条断线重连的 SSE 订阅。
// 重连策略为固定间隔、无上限重试：这是有意为之的选择，推送失败永远
// 不上浮给用户，唯一可见影响是重连成功前的实时性空窗。
// Close 之后任何已排队的重连都不会再建立连接。
type Client struct {
	cfg     Config
	handler func(Event)

	mu     sync.Mutex
	state  State
	closed bool
	cancel context.CancelFunc
	done   chan struct{}
}

// NewClient 创建客户端，handler 在读取协程内同步调用。
func NewClient(cfg Config, handler func(Event)) *Client {
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stdout, "[sse] ", log.LstdFlags)
	}
	return &Client{
		cfg:     cfg,
		handler: handler,
		state:   StateDisconnected,
		done:    make(chan struct{}),
	}
}

// Start 启动连接循环。重复调用无效果（循环只会启动一次之前先 Close）。
func (c *Client) Start() {
	go c.run()
}

// State 返回当前连接状态。
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close 终止连接循环：取消在途请求并使任何待触发的重连失效。
// 可重复调用。
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
}

func (c *Client) run() {
	for {
		if c.isClosed() {
			c.setState(StateDisconnected)
			return
		}
		c.setState(StateConnecting)

		ctx, cancel := context.WithCancel(context.Background())
		if !c.arm(cancel) {
			cancel()
			c.setState(StateDisconnected)
			return
		}

		err := c.stream(ctx)
		cancel()

		if c.isClosed() {
			c.setState(StateDisconnected)
			return
		}

		c.setState(StateError)
		c.cfg.Logger.Printf("stream error, reconnect in %s: %v", c.cfg.RetryDelay, err)

		select {
		case <-time.After(c.cfg.RetryDelay):
		case <-c.done:
			c.setState(StateDisconnected)
			return
		}
	}
}

// arm 记录当前请求的取消函数；若此时已 Close 则拒绝建连。
func (c *Client) arm(cancel context.CancelFunc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.cancel = cancel
	return true
}

func (c *Client) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	for k, vs := range c.cfg.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.cfg.Client.Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	c.setState(StateConnected)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var name string
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			c.dispatch(name, data)
			name, data = "", nil
		case strings.HasPrefix(line, ":"):
			// 注释行（心跳），忽略
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// id、retry 等字段不参与分发
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return fmt.Errorf("stream closed by server")
}

func (c *Client) dispatch(name string, data []string) {
	if len(data) == 0 {
		return
	}
	if name == "" {
		name = "message"
	}
	if c.cfg.Event != "" && name != c.cfg.Event {
		return
	}
	c.handler(Event{Name: name, Data: []byte(strings.Join(data, "\n"))})
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
