// Package storage 封装 SQLite 数据库访问，负责职位检索、简历状态与
// 站内通知的增删查。
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobhunter/internal/filter"
	"jobhunter/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 封装数据库访问。
type Store struct {
	db *gorm.DB
}

// sortColumns 是允许参与排序的字段映射，白名单之外的排序键回落到
// updatedAt，排序串不会拼进 SQL。
var sortColumns = map[string]string{
	"updatedAt": "updated_at",
	"createdAt": "created_at",
	"salary":    "salary",
	"name":      "name",
}

// NewStore 创建 Store 并自动迁移数据表。
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&model.Company{}, &model.Job{}, &model.Resume{}, &model.Notification{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &Store{db: db}, nil
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// UpsertCompanies 写入公司列表，已有主键则更新。
func (s *Store) UpsertCompanies(ctx context.Context, companies []model.Company) error {
	if len(companies) == 0 {
		return nil
	}
	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "logo", "updated_at"}),
	}).Create(&companies)
	if tx.Error != nil {
		return fmt.Errorf("upsert companies: %w", tx.Error)
	}
	return nil
}

// UpsertJobs 写入职位列表，已有主键则更新。
func (s *Store) UpsertJobs(ctx context.Context, jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	tx := s.db.WithContext(ctx).Omit("Company").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"company_id",
			"location",
			"salary",
			"level",
			"work_type",
			"specialization",
			"skills",
			"quantity",
			"active",
			"updated_at",
		}),
	}).Create(&jobs)
	if tx.Error != nil {
		return fmt.Errorf("upsert jobs: %w", tx.Error)
	}
	return nil
}

// SearchJobs 按筛选条件分页检索在招职位。
func (s *Store) SearchJobs(ctx context.Context, c filter.Criteria, keyword string, page, size int, sort string) (model.Paginate[model.Job], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	activeJobs := func() *gorm.DB {
		return applyJobFilters(s.db.WithContext(ctx).Model(&model.Job{}).Where("active = ?", true), c, keyword)
	}

	var total int64
	if err := activeJobs().Count(&total).Error; err != nil {
		return model.Paginate[model.Job]{}, fmt.Errorf("count jobs: %w", err)
	}

	var jobs []model.Job
	if err := activeJobs().
		Preload("Company").
		Order(orderClause(sort)).
		Offset((page - 1) * size).
		Limit(size).
		Find(&jobs).Error; err != nil {
		return model.Paginate[model.Job]{}, fmt.Errorf("search jobs: %w", err)
	}

	return model.NewPaginate(page, size, total, jobs), nil
}

// Specializations 返回在招职位出现过的专业方向，去重排序。
func (s *Store) Specializations(ctx context.Context) ([]string, error) {
	var values []string
	if err := s.db.WithContext(ctx).Model(&model.Job{}).
		Where("active = ? AND specialization <> ''", true).
		Distinct("specialization").
		Order("specialization ASC").
		Pluck("specialization", &values).Error; err != nil {
		return nil, fmt.Errorf("list specializations: %w", err)
	}
	return values, nil
}

// Suggestions 按前缀匹配职位名与公司名，职位在前。
func (s *Store) Suggestions(ctx context.Context, q string, limit int) ([]model.Suggestion, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	pattern := q + "%"

	var out []model.Suggestion

	var jobs []model.Job
	if err := s.db.WithContext(ctx).Model(&model.Job{}).
		Where("active = ? AND name LIKE ?", true, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("suggest jobs: %w", err)
	}
	for _, j := range jobs {
		out = append(out, model.Suggestion{ID: j.ID, Type: "job", Value: j.Name})
	}

	if remaining := limit - len(out); remaining > 0 {
		var companies []model.Company
		if err := s.db.WithContext(ctx).Model(&model.Company{}).
			Where("name LIKE ?", pattern).
			Order("name ASC").
			Limit(remaining).
			Find(&companies).Error; err != nil {
			return nil, fmt.Errorf("suggest companies: %w", err)
		}
		for _, c := range companies {
			out = append(out, model.Suggestion{ID: c.ID, Type: "company", Value: c.Name})
		}
	}
	return out, nil
}

// CreateResume 新增一份简历，初始状态 PENDING。
func (s *Store) CreateResume(ctx context.Context, resume *model.Resume) error {
	if resume.Status == "" {
		resume.Status = model.ResumeStatusPending
	}
	if err := s.db.WithContext(ctx).Omit("Job").Create(resume).Error; err != nil {
		return fmt.Errorf("create resume: %w", err)
	}
	return nil
}

// GetResume 根据 ID 获取简历，预加载职位与公司。
func (s *Store) GetResume(ctx context.Context, id int64) (*model.Resume, error) {
	var resume model.Resume
	if err := s.db.WithContext(ctx).
		Preload("Job").Preload("Job.Company").
		First(&resume, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get resume: %w", err)
	}
	return &resume, nil
}

// UpdateResumeStatus 更新简历状态并返回更新后的记录。
func (s *Store) UpdateResumeStatus(ctx context.Context, id int64, status model.ResumeStatus) (*model.Resume, error) {
	tx := s.db.WithContext(ctx).Model(&model.Resume{}).Where("id = ?", id).Update("status", status)
	if tx.Error != nil {
		return nil, fmt.Errorf("update resume status: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, sql.ErrNoRows
	}
	return s.GetResume(ctx, id)
}

// CreateNotification 为用户新增一条通知。
func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListNotifications 返回用户的通知分页，最新在前。
func (s *Store) ListNotifications(ctx context.Context, userID int64, page, size int) (model.Paginate[model.Notification], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	userRows := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := userRows().Count(&total).Error; err != nil {
		return model.Paginate[model.Notification]{}, fmt.Errorf("count notifications: %w", err)
	}

	var items []model.Notification
	if err := userRows().
		Order("created_at DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error; err != nil {
		return model.Paginate[model.Notification]{}, fmt.Errorf("list notifications: %w", err)
	}
	return model.NewPaginate(page, size, total, items), nil
}

// UnreadCount 返回用户未读通知数。
func (s *Store) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return total, nil
}

// MarkRead 将用户的一条通知置为已读。
func (s *Store) MarkRead(ctx context.Context, userID, id int64) error {
	tx := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("read", true)
	if tx.Error != nil {
		return fmt.Errorf("mark read: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkAllRead 将用户全部通知置为已读。
func (s *Store) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

// DeleteNotification 删除用户的一条通知。
func (s *Store) DeleteNotification(ctx context.Context, userID, id int64) error {
	tx := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.Notification{})
	if tx.Error != nil {
		return fmt.Errorf("delete notification: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAllNotifications 清空用户全部通知。
func (s *Store) DeleteAllNotifications(ctx context.Context, userID int64) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Notification{}).Error; err != nil {
		return fmt.Errorf("delete all notifications: %w", err)
	}
	return nil
}

// applyJobFilters 把筛选条件翻译成 WHERE 子句。技能匹配走 JSON 列的
// 键存在性检查，与 Skills 的存储形态一致。
func applyJobFilters(db *gorm.DB, c filter.Criteria, keyword string) *gorm.DB {
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		db = db.Where("name LIKE ?", "%"+keyword+"%")
	}
	if len(c.Locations) > 0 {
		db = db.Where("location IN ?", c.Locations)
	}
	if len(c.Levels) > 0 {
		db = db.Where("level IN ?", c.Levels)
	}
	if len(c.WorkTypes) > 0 {
		db = db.Where("work_type IN ?", c.WorkTypes)
	}
	if len(c.Specializations) > 0 {
		db = db.Where("specialization IN ?", c.Specializations)
	}
	if c.SalaryApplied() {
		db = db.Where("salary >= ? AND salary <= ?", c.SalaryMin, c.SalaryMax)
	}
	for _, skill := range c.Skills {
		if skill == "" {
			continue
		}
		path := fmt.Sprintf("$.\"%s\"", skill)
		db = db.Where("json_extract(skills, ?) IS NOT NULL", path)
	}
	return db
}

func orderClause(sort string) string {
	field, dir, _ := strings.Cut(sort, ",")
	column, ok := sortColumns[strings.TrimSpace(field)]
	if !ok {
		column = "updated_at"
	}
	if strings.TrimSpace(dir) == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}
