package model

import (
	"strings"
	"time"
)

// ResumeStatus 表示简历处理状态枚举。
type ResumeStatus string

const (
	ResumeStatusPending   ResumeStatus = "PENDING"
	ResumeStatusReviewing ResumeStatus = "REVIEWING"
	ResumeStatusApproved  ResumeStatus = "APPROVED"
	ResumeStatusRejected  ResumeStatus = "REJECTED"
)

// ResumeStatuses 按处理流程顺序列出全部状态。
var ResumeStatuses = []ResumeStatus{
	ResumeStatusPending,
	ResumeStatusReviewing,
	ResumeStatusApproved,
	ResumeStatusRejected,
}

// ParseResumeStatus 校验状态取值。
func ParseResumeStatus(s string) (ResumeStatus, bool) {
	for _, st := range ResumeStatuses {
		if string(st) == strings.TrimSpace(s) {
			return st, true
		}
	}
	return "", false
}

// Resume 表示一份投递的简历。
type Resume struct {
	ID        int64        `gorm:"primaryKey" json:"id"`
	UserID    int64        `gorm:"index" json:"userId"`
	JobID     int64        `json:"-"`
	Job       Job          `gorm:"foreignKey:JobID" json:"job"`
	Email     string       `json:"email"`
	URL       string       `json:"url"`
	Status    ResumeStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Notification 表示站内通知，按用户隔离。
type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"index" json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Read      bool      `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResumeStatusEvent 表示一次状态变更推送，随 SSE 下发后即弃。
type ResumeStatusEvent struct {
	ResumeID   int64        `json:"resumeId"`
	Status     ResumeStatus `json:"status"`
	StatusText string       `json:"statusText,omitempty"`
	Job        string       `json:"job,omitempty"`
	Company    string       `json:"company,omitempty"`
	CreatedAt  string       `json:"createdAt,omitempty"`
}
