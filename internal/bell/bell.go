// Package bell 实现通知铃铛的角标与抽屉列表协调：角标数永远取服务端
// 计数，列表按页取当前页，两者都只被"通知已变化"信号与用户操作驱动。
package bell

import (
	"context"
	"log"
	"os"
	"sync"

	"jobhunter/internal/bus"
	"jobhunter/internal/model"
)

// DefaultPageSize 是抽屉列表每页条数。
const DefaultPageSize = 6

// API 是铃铛依赖的通知操作面，由 client.Client 满足。
type API interface {
	UnreadCount(ctx context.Context) (int64, error)
	Notifications(ctx context.Context, page, size int) (model.Paginate[model.Notification], error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id int64) error
	DeleteAllNotifications(ctx context.Context) error
}

// Confirmer 在批量操作前征求用户确认。
type Confirmer interface {
	Confirm(prompt string) bool
}

// Bell 维护铃铛状态。方法串行调用（界面线程语义），总线回调同样在
// 发布方的调用栈里进入，故所有状态用一把锁保护。
type Bell struct {
	api       API
	confirmer Confirmer
	logger    *log.Logger

	mu          sync.Mutex
	unread      int64
	open        bool
	page        int
	pageSize    int
	items       []model.Notification
	meta        model.Meta
	loading     bool
	unsubscribe func()
}

// Config 定义铃铛依赖。
type Config struct {
	API       API
	Bus       *bus.Bus
	Confirmer Confirmer
	PageSize  int
	Logger    *log.Logger
}

// New 创建铃铛并挂上总线：收到信号后刷新角标，抽屉打开时连带刷新当前页。
func New(cfg Config) *Bell {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[bell] ", log.LstdFlags)
	}
	size := cfg.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	b := &Bell{
		api:       cfg.API,
		confirmer: cfg.Confirmer,
		logger:    logger,
		page:      1,
		pageSize:  size,
	}
	if cfg.Bus != nil {
		b.unsubscribe = cfg.Bus.Subscribe(b.onSignal)
	}
	return b
}

// Close 退订总线。可重复调用。
func (b *Bell) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// Unread 返回当前角标数。
func (b *Bell) Unread() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unread
}

// Open 返回抽屉是否展开。
func (b *Bell) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Page 返回抽屉当前页码。
func (b *Bell) Page() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// Items 返回当前页列表的副本。
func (b *Bell) Items() []model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Notification(nil), b.items...)
}

// Meta 返回当前页的分页信息。
func (b *Bell) Meta() model.Meta {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.meta
}

// Loading 返回列表是否在加载中。
func (b *Bell) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// RefreshCount 向服务端取未读数。失败时角标保持原值。
func (b *Bell) RefreshCount(ctx context.Context) {
	count, err := b.api.UnreadCount(ctx)
	if err != nil {
		b.logger.Printf("unread count fetch failed: %v", err)
		return
	}
	b.mu.Lock()
	b.unread = count
	b.mu.Unlock()
}

// OpenDrawer 展开抽屉：回到第一页并刷新角标与列表。
func (b *Bell) OpenDrawer(ctx context.Context) {
	b.mu.Lock()
	b.open = true
	b.page = 1
	b.mu.Unlock()

	b.RefreshCount(ctx)
	b.refreshList(ctx)
}

// CloseDrawer 收起抽屉，已取页保留，下次展开时重取。
func (b *Bell) CloseDrawer() {
	b.mu.Lock()
	b.open = false
	b.mu.Unlock()
}

// SetPage 翻到指定页并刷新列表。
func (b *Bell) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	b.mu.Lock()
	b.page = page
	b.mu.Unlock()
	b.refreshList(ctx)
}

// MarkRead 将单条通知置为已读，随后重取角标与当前页。
func (b *Bell) MarkRead(ctx context.Context, id int64) {
	if err := b.api.MarkRead(ctx, id); err != nil {
		b.logger.Printf("mark read failed id=%d: %v", id, err)
		return
	}
	b.RefreshCount(ctx)
	b.refreshList(ctx)
}

// Delete 删除单条通知。若删的是当前页最后一条且不在第一页，先退一页
// 再刷新，避免落在一个不存在的空页上。
func (b *Bell) Delete(ctx context.Context, id int64) {
	if err := b.api.DeleteNotification(ctx, id); err != nil {
		b.logger.Printf("delete failed id=%d: %v", id, err)
		return
	}

	b.mu.Lock()
	if len(b.items) == 1 && b.page > 1 {
		b.page--
	}
	b.mu.Unlock()

	b.RefreshCount(ctx)
	b.refreshList(ctx)
}

// MarkAllRead 确认后全部置已读。无论服务端结果如何都重取一次，
// 界面永远收敛到服务端状态。
func (b *Bell) MarkAllRead(ctx context.Context) {
	if b.confirmer != nil && !b.confirmer.Confirm("Mark all notifications as read?") {
		return
	}
	if err := b.api.MarkAllRead(ctx); err != nil {
		b.logger.Printf("mark all read failed: %v", err)
	}
	b.RefreshCount(ctx)
	b.refreshList(ctx)
}

// DeleteAll 确认后清空通知，收敛逻辑同 MarkAllRead。
func (b *Bell) DeleteAll(ctx context.Context) {
	if b.confirmer != nil && !b.confirmer.Confirm("Delete all notifications?") {
		return
	}
	if err := b.api.DeleteAllNotifications(ctx); err != nil {
		b.logger.Printf("delete all failed: %v", err)
	}
	b.mu.Lock()
	b.page = 1
	b.mu.Unlock()
	b.RefreshCount(ctx)
	b.refreshList(ctx)
}

// onSignal 响应"通知已变化"：必刷角标，抽屉开着时连带刷新当前页。
func (b *Bell) onSignal() {
	ctx := context.Background()
	b.RefreshCount(ctx)

	b.mu.Lock()
	open := b.open
	b.mu.Unlock()
	if open {
		b.refreshList(ctx)
	}
}

// refreshList 重取当前页。失败时保留已展示的列表，只清加载标记。
func (b *Bell) refreshList(ctx context.Context) {
	b.mu.Lock()
	b.loading = true
	page, size := b.page, b.pageSize
	b.mu.Unlock()

	res, err := b.api.Notifications(ctx, page, size)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if err != nil {
		b.logger.Printf("notification list fetch failed page=%d: %v", page, err)
		return
	}
	b.items = res.Result
	b.meta = res.Meta
}
