package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Level 表示职位级别枚举。
type Level string

const (
	LevelIntern  Level = "INTERN"
	LevelFresher Level = "FRESHER"
	LevelJunior  Level = "JUNIOR"
	LevelMiddle  Level = "MIDDLE"
	LevelSenior  Level = "SENIOR"
)

// Levels 按固定顺序列出全部级别。
var Levels = []Level{LevelIntern, LevelFresher, LevelJunior, LevelMiddle, LevelSenior}

// ParseLevel 校验级别取值，未知取值返回 false。
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if string(l) == strings.TrimSpace(s) {
			return l, true
		}
	}
	return "", false
}

// WorkType 表示工作方式枚举。
type WorkType string

const (
	WorkTypeOnsite WorkType = "ONSITE"
	WorkTypeRemote WorkType = "REMOTE"
	WorkTypeHybrid WorkType = "HYBRID"
)

// WorkTypes 按固定顺序列出全部工作方式。
var WorkTypes = []WorkType{WorkTypeOnsite, WorkTypeRemote, WorkTypeHybrid}

// ParseWorkType 校验工作方式取值。
func ParseWorkType(s string) (WorkType, bool) {
	for _, w := range WorkTypes {
		if string(w) == strings.TrimSpace(s) {
			return w, true
		}
	}
	return "", false
}

// Company 表示招聘公司。
type Company struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Job 表示一个职位
// - Skills: 技能集合，键为技能名
// - Level/WorkType: 枚举字段，参与筛选表达式
// - Salary: 月薪（VND），参与区间筛选
// - CreatedAt/UpdatedAt: 由 GORM 自动维护

type Job struct {
	ID             int64             `gorm:"primaryKey" json:"id"`
	Name           string            `json:"name"`
	CompanyID      int64             `json:"-"`
	Company        Company           `gorm:"foreignKey:CompanyID" json:"company"`
	Location       string            `json:"location"`
	Salary         int64             `json:"salary"`
	Level          Level             `json:"level"`
	WorkType       WorkType          `json:"workType"`
	Specialization string            `json:"specialization"`
	Skills         datatypes.JSONMap `json:"skills"`
	Quantity       int               `json:"quantity"`
	Active         bool              `json:"active"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Suggestion 表示关键词联想结果，type 为 job 或 company。
type Suggestion struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Value string `json:"value"`
}
