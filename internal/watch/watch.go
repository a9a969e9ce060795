// Package watch 把简历状态推送接到页面侧：收到事件先弹出提示，再向
// 总线广播"通知已变化"，角标与抽屉列表各自刷新，互不感知。
package watch

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"jobhunter/internal/bus"
	"jobhunter/internal/model"
	"jobhunter/internal/sse"
)

// 事件通道名与订阅路径，与后端约定一致。
const (
	eventName     = "resumeStatus"
	subscribePath = "/api/v1/resume-sse/subscribe"
)

// statusLabels 是状态的兜底文案，仅在推送未携带 statusText 时使用。
var statusLabels = map[model.ResumeStatus]string{
	model.ResumeStatusPending:   "Pending review",
	model.ResumeStatusReviewing: "Under review",
	model.ResumeStatusApproved:  "Approved",
	model.ResumeStatusRejected:  "Rejected",
}

// Toaster 接收用户可见的即时提示。
type Toaster interface {
	Toast(title, message string)
}

// Config 定义监视器配置。
type Config struct {
	BaseURL    string
	Bus        *bus.Bus
	Toaster    Toaster
	Client     *http.Client
	RetryDelay time.Duration // 透传给推送连接，默认 3s
	Logger     *log.Logger
}

// Watcher 绑定访问者身份与推送连接生命周期：身份已知才建连，身份
// 丢失或所属界面销毁时确定性拆除。
type Watcher struct {
	cfg    Config
	logger *log.Logger
	conn   *sse.Client
	userID int64
}

// New 创建监视器，此时不建立任何连接。
func New(cfg Config) *Watcher {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[watch] ", log.LstdFlags)
	}
	return &Watcher{cfg: cfg, logger: logger}
}

// Start 以给定身份开启推送订阅。userID 无效或已在运行时返回错误。
func (w *Watcher) Start(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("viewer identity required")
	}
	if w.conn != nil {
		return fmt.Errorf("watcher already started")
	}

	header := http.Header{}
	header.Set("X-User-Id", strconv.FormatInt(userID, 10))

	w.userID = userID
	w.conn = sse.NewClient(sse.Config{
		URL:        w.cfg.BaseURL + subscribePath,
		Event:      eventName,
		RetryDelay: w.cfg.RetryDelay,
		Client:     w.cfg.Client,
		Header:     header,
		Logger:     w.logger,
	}, w.handle)
	w.conn.Start()
	w.logger.Printf("resume watcher started user=%d", userID)
	return nil
}

// Stop 拆除订阅，取消待触发的重连。可重复调用。
func (w *Watcher) Stop() {
	if w.conn == nil {
		return
	}
	w.conn.Close()
	w.conn = nil
	w.logger.Printf("resume watcher stopped user=%d", w.userID)
	w.userID = 0
}

// Running 返回是否存在活动订阅。
func (w *Watcher) Running() bool { return w.conn != nil }

// handle 处理一条推送：负载解析失败时原文透传而不是丢弃。
func (w *Watcher) handle(ev sse.Event) {
	var msg model.ResumeStatusEvent
	if err := json.Unmarshal(ev.Data, &msg); err != nil || msg.Status == "" {
		w.logger.Printf("undecodable payload passed through: %q", ev.Data)
		if w.cfg.Toaster != nil {
			w.cfg.Toaster.Toast("Resume update", string(ev.Data))
		}
	} else if w.cfg.Toaster != nil {
		w.cfg.Toaster.Toast("Resume update", formatStatus(msg))
	}

	if w.cfg.Bus != nil {
		w.cfg.Bus.Publish()
	}
}

func formatStatus(msg model.ResumeStatusEvent) string {
	text := msg.StatusText
	if text == "" {
		if label, ok := statusLabels[msg.Status]; ok {
			text = label
		} else {
			text = string(msg.Status)
		}
	}
	return fmt.Sprintf("Resume %q at %s: %s", msg.Job, msg.Company, text)
}
