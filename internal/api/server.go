// Package api 暴露 HTTP 接口：职位检索、通知操作与简历状态推送订阅。
// 所有响应统一包在 Envelope 里。
package api

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"jobhunter/internal/filter"
	"jobhunter/internal/model"
	"jobhunter/internal/sse"
)

// resumeEventName 是简历状态推送的事件通道名。
const resumeEventName = "resumeStatus"

// Store 抽象存储接口。
type Store interface {
	SearchJobs(ctx context.Context, c filter.Criteria, keyword string, page, size int, sort string) (model.Paginate[model.Job], error)
	Specializations(ctx context.Context) ([]string, error)
	Suggestions(ctx context.Context, q string, limit int) ([]model.Suggestion, error)

	CreateResume(ctx context.Context, resume *model.Resume) error
	UpdateResumeStatus(ctx context.Context, id int64, status model.ResumeStatus) (*model.Resume, error)

	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, userID int64, page, size int) (model.Paginate[model.Notification], error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	DeleteNotification(ctx context.Context, userID, id int64) error
	DeleteAllNotifications(ctx context.Context, userID int64) error
}

// Server 组装路由及其依赖。
type Server struct {
	store  Store
	hub    *sse.Hub
	logger *log.Logger
}

// statusUpdateRequest 表示简历状态变更请求。
type statusUpdateRequest struct {
	ID     int64  `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// applyRequest 表示投递简历请求。
type applyRequest struct {
	JobID int64  `json:"jobId" binding:"required"`
	Email string `json:"email" binding:"required"`
	URL   string `json:"url"`
}

// NewServer 创建 API 服务。
func NewServer(store Store, hub *sse.Hub, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[api] ", log.LstdFlags)
	}
	return &Server{store: store, hub: hub, logger: logger}
}

// Router 构造 gin 引擎并注册全部路由。
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/jobs", s.searchJobs)
		v1.GET("/jobs/specializations", s.specializations)
		v1.GET("/jobs/suggestions", s.suggestions)

		v1.POST("/resumes", s.applyResume)
		v1.PUT("/resumes", s.updateResumeStatus)
		v1.GET("/resume-sse/subscribe", s.subscribe)

		n := v1.Group("/notifications")
		{
			n.GET("/unread-count", s.unreadCount)
			n.GET("", s.listNotifications)
			n.POST("/:id/read", s.markRead)
			n.POST("/read-all", s.markAllRead)
			n.DELETE("/:id", s.deleteNotification)
			n.DELETE("", s.deleteAllNotifications)
		}
	}
	return r
}

func (s *Server) searchJobs(c *gin.Context) {
	criteria, err := filter.Parse(c.Query("filter"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid filter expression")
		return
	}
	page := intQuery(c, "page", 1)
	size := intQuery(c, "size", 6)
	sort := c.DefaultQuery("sort", "updatedAt,desc")

	res, err := s.store.SearchJobs(c.Request.Context(), criteria, c.Query("q"), page, size, sort)
	if err != nil {
		s.logger.Printf("search jobs failed: %v", err)
		fail(c, http.StatusInternalServerError, "search failed")
		return
	}
	ok(c, res)
}

func (s *Server) specializations(c *gin.Context) {
	values, err := s.store.Specializations(c.Request.Context())
	if err != nil {
		s.logger.Printf("specializations failed: %v", err)
		fail(c, http.StatusInternalServerError, "lookup failed")
		return
	}
	ok(c, values)
}

func (s *Server) suggestions(c *gin.Context) {
	values, err := s.store.Suggestions(c.Request.Context(), c.Query("q"), 10)
	if err != nil {
		s.logger.Printf("suggestions failed: %v", err)
		fail(c, http.StatusInternalServerError, "lookup failed")
		return
	}
	ok(c, values)
}

func (s *Server) applyResume(c *gin.Context) {
	userID, authorized := viewerID(c)
	if !authorized {
		fail(c, http.StatusUnauthorized, "viewer identity required")
		return
	}
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resume := &model.Resume{
		UserID: userID,
		JobID:  req.JobID,
		Email:  req.Email,
		URL:    req.URL,
	}
	if err := s.store.CreateResume(c.Request.Context(), resume); err != nil {
		s.logger.Printf("create resume failed: %v", err)
		fail(c, http.StatusInternalServerError, "apply failed")
		return
	}
	ok(c, resume)
}

// updateResumeStatus 处理状态变更：落库、生成站内通知并向该用户的全部
// 在线订阅推送 resumeStatus 事件。
func (s *Server) updateResumeStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	status, valid := model.ParseResumeStatus(req.Status)
	if !valid {
		fail(c, http.StatusBadRequest, "unknown resume status")
		return
	}

	resume, err := s.store.UpdateResumeStatus(c.Request.Context(), req.ID, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fail(c, http.StatusNotFound, "resume not found")
			return
		}
		s.logger.Printf("update resume status failed: %v", err)
		fail(c, http.StatusInternalServerError, "update failed")
		return
	}

	event := model.ResumeStatusEvent{
		ResumeID:   resume.ID,
		Status:     resume.Status,
		StatusText: statusText(resume.Status),
		Job:        resume.Job.Name,
		Company:    resume.Job.Company.Name,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	notification := &model.Notification{
		UserID:  resume.UserID,
		Title:   "Resume status updated",
		Content: event.Job + ": " + event.StatusText,
		Type:    resumeEventName,
	}
	if err := s.store.CreateNotification(c.Request.Context(), notification); err != nil {
		s.logger.Printf("create notification failed: %v", err)
	}

	delivered := s.hub.SendToUser(resume.UserID, resumeEventName, event)
	s.logger.Printf("resume %d -> %s, pushed to %d subscriber(s)", resume.ID, resume.Status, delivered)
	ok(c, resume)
}

// subscribe 建立 SSE 订阅并持续写出事件，连接断开或订阅被剔除时返回。
func (s *Server) subscribe(c *gin.Context) {
	userID, authorized := viewerID(c)
	if !authorized {
		fail(c, http.StatusUnauthorized, "viewer identity required")
		return
	}

	em := s.hub.Subscribe(userID)
	defer s.hub.Unsubscribe(userID, em)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-em.Events():
			if !open {
				return false
			}
			c.SSEvent(ev.Event, ev.Data)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *Server) unreadCount(c *gin.Context) {
	userID, authorized := viewerID(c)
	if !authorized {
		fail(c, http.StatusUnauthorized, "viewer identity required")
		return
	}
	count, err := s.store.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		s.logger.Printf("unread count failed: %v", err)
		fail(c, http.StatusInternalServerError, "count failed")
		return
	}
	ok(c, gin.H{"count": count})
}

func (s *Server) listNotifications(c *gin.Context) {
	userID, authorized := viewerID(c)
	if !authorized {
		fail(c, http.StatusUnauthorized, "viewer identity required")
		return
	}
	page := intQuery(c, "page", 1)
	size := intQuery(c, "size", 6)
	res, err := s.store.ListNotifications(c.Request.Context(), userID, page, size)
	if err != nil {
		s.logger.Printf("list notifications failed: %v", err)
		fail(c, http.StatusInternalServerError, "list failed")
		return
	}
	ok(c, res)
}

func (s *Server) markRead(c *gin.Context) {
	s.notificationAction(c, s.store.MarkRead)
}

func (s *Server) deleteNotification(c *gin.Context) {
	s.notificationAction(c, s.store.DeleteNotification)
}

// notificationAction 处理针对单条通知的操作，按用户隔离。
func (s *Server) notificationAction(c *gin.Context, action func(ctx context.Context, userID, id int64) error) {
	userID, authorized := viewerID(c)
	if !authorized {
		fail(c, http.StatusUnauthorized, "viewer identity required")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := action(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fail(c, http.StatusNotFound, "notification not found")
			return
		}
		s.logger.Printf("notification action failed id=%d: %v", id, err)
		fail(c, http.StatusInternalServerError, "operation failed")
		return
	}
	ok[any](c, nil)
}

func (s *Server) markAllRead(c *gin.Context) {
	s.bulkNotificationAction(c, s.store.MarkAllRead)
}

func (s *Server) deleteAllNotifications(c *gin.Context) {
	s.bulkNotificationAction(c, s.store.DeleteAllNotifications)
}

func (s *Server) bulkNotificationAction(c *gin.Context, action func(ctx context.Context, userID int64) error) {
	userID, authorized := viewerID(c)
	if !authorized {
		fail(c, http.StatusUnauthorized, "viewer identity required")
		return
	}
	if err := action(c.Request.Context(), userID); err != nil {
		s.logger.Printf("bulk notification action failed: %v", err)
		fail(c, http.StatusInternalServerError, "operation failed")
		return
	}
	ok[any](c, nil)
}

// viewerID 从 X-User-Id 头解析访问者身份。
func viewerID(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.GetHeader("X-User-Id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func ok[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, model.Envelope[T]{
		StatusCode: http.StatusOK,
		Message:    "success",
		Data:       data,
	})
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, model.Envelope[any]{
		StatusCode: code,
		Message:    message,
		Error:      http.StatusText(code),
	})
}

func statusText(status model.ResumeStatus) string {
	switch status {
	case model.ResumeStatusPending:
		return "Pending review"
	case model.ResumeStatusReviewing:
		return "Under review"
	case model.ResumeStatusApproved:
		return "Approved"
	case model.ResumeStatusRejected:
		return "Rejected"
	default:
		return string(status)
	}
}
