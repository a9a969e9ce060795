package client

import (
	"sync"
	"time"
)

// Debouncer 把高频调用折叠为静默窗口后的一次执行，用于限制联想词
// 请求量（输入每次击键触发一次 Call，仅最后一次生效）。
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer 创建防抖器，delay 非正时取 300ms。
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &Debouncer{delay: delay}
}

// Call 计划在静默窗口结束后执行 fn；窗口内的后续调用会替换 fn 并重新计时。
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop 取消尚未执行的调用。
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
