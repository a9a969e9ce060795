// Package client 封装对 JobHunter 后端的类型化 HTTP 调用。
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"jobhunter/internal/model"
)

// Config 定义客户端配置。
type Config struct {
	BaseURL string // 形如 http://localhost:8080
	UserID  int64  // 当前访问者身份，随 X-User-Id 头发送
	Client  *http.Client
	Logger  *log.Logger
}

// Client 是 JobHunter REST API 的类型化客户端。
type Client struct {
	baseURL string
	userID  int64
	httpc   *http.Client
	logger  *log.Logger
}

// New 创建客户端。
func New(cfg Config) *Client {
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stdout, "[client] ", log.LstdFlags)
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		userID:  cfg.UserID,
		httpc:   cfg.Client,
		logger:  cfg.Logger,
	}
}

// SearchJobs 按查询串检索职位。query 通常来自 facet.Search.FetchQuery。
func (c *Client) SearchJobs(ctx context.Context, query string) (model.Paginate[model.Job], error) {
	path := "/api/v1/jobs"
	if query != "" {
		path += "?" + query
	}
	return doJSON[model.Paginate[model.Job]](ctx, c, http.MethodGet, path)
}

// Specializations 拉取专业方向词表。
func (c *Client) Specializations(ctx context.Context) ([]string, error) {
	return doJSON[[]string](ctx, c, http.MethodGet, "/api/v1/jobs/specializations")
}

// Suggestions 按关键词拉取联想词。
func (c *Client) Suggestions(ctx context.Context, q string) ([]model.Suggestion, error) {
	return doJSON[[]model.Suggestion](ctx, c, http.MethodGet,
		"/api/v1/jobs/suggestions?q="+url.QueryEscape(q))
}

// UnreadCount 拉取未读通知数。角标永远显示该接口返回值，客户端不自行累加。
func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	res, err := doJSON[struct {
		Count int64 `json:"count"`
	}](ctx, c, http.MethodGet, "/api/v1/notifications/unread-count")
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// Notifications 分页拉取通知列表。
func (c *Client) Notifications(ctx context.Context, page, size int) (model.Paginate[model.Notification], error) {
	path := fmt.Sprintf("/api/v1/notifications?page=%d&size=%d", page, size)
	return doJSON[model.Paginate[model.Notification]](ctx, c, http.MethodGet, path)
}

// MarkRead 标记单条通知已读。
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	return c.doVoid(ctx, http.MethodPost, "/api/v1/notifications/"+strconv.FormatInt(id, 10)+"/read")
}

// MarkAllRead 标记全部通知已读。
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.doVoid(ctx, http.MethodPost, "/api/v1/notifications/read-all")
}

// DeleteNotification 删除单条通知。
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	return c.doVoid(ctx, http.MethodDelete, "/api/v1/notifications/"+strconv.FormatInt(id, 10))
}

// DeleteAllNotifications 清空通知。
func (c *Client) DeleteAllNotifications(ctx context.Context) error {
	return c.doVoid(ctx, http.MethodDelete, "/api/v1/notifications")
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userID > 0 {
		req.Header.Set("X-User-Id", strconv.FormatInt(c.userID, 10))
	}
	return req, nil
}

// doJSON 执行请求并解出统一响应包装中的 data 字段。
func doJSON[T any](ctx context.Context, c *Client, method, path string) (T, error) {
	var zero T

	req, err := c.newRequest(ctx, method, path)
	if err != nil {
		return zero, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return zero, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	var env model.Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	return env.Data, nil
}

func (c *Client) doVoid(ctx context.Context, method, path string) error {
	req, err := c.newRequest(ctx, method, path)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return nil
}
