// Package filter 负责职位筛选表达式的构建与解析。
// 表达式语法与后端约定一致：
//
//	field in (v1,v2)  |  field = v  |  (salary>=a and salary<=b)
//
// 子表达式之间以 " and " 连接。
package filter

import (
	"fmt"
	"strings"
)

// 薪资默认区间，处于默认区间视为未应用该筛选。
const (
	DefaultSalaryMin int64 = 0
	DefaultSalaryMax int64 = 100_000_000
)

// Criteria 表示一次查询的全部已应用筛选条件快照。
// 零值表示无任何筛选。
type Criteria struct {
	Locations       []string
	Skills          []string
	Levels          []string
	WorkTypes       []string
	SalaryMin       int64
	SalaryMax       int64
	HasSalary       bool
	Specializations []string
}

// Empty 判断是否不含任何筛选条件。
func (c Criteria) Empty() bool {
	return len(c.Locations) == 0 &&
		len(c.Skills) == 0 &&
		len(c.Levels) == 0 &&
		len(c.WorkTypes) == 0 &&
		!c.SalaryApplied() &&
		len(c.Specializations) == 0
}

// SalaryApplied 判断薪资区间是否偏离默认全量区间。停留在默认区间的
// 薪资条件视同未筛选。
func (c Criteria) SalaryApplied() bool {
	if !c.HasSalary {
		return false
	}
	return c.SalaryMin > DefaultSalaryMin || c.SalaryMax < DefaultSalaryMax
}

// In 构造集合子表达式，如 level in (JUNIOR,SENIOR)。空集合返回空串。
func In(field string, values []string) string {
	clean := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return ""
	}
	return fmt.Sprintf("%s in (%s)", field, strings.Join(clean, ","))
}

// Between 构造闭区间子表达式，如 (salary>=0 and salary<=5000000)。
func Between(field string, min, max int64) string {
	return fmt.Sprintf("(%s>=%d and %s<=%d)", field, min, field, max)
}

// Build 按固定顺序拼接子表达式：location、skills、level、workType、
// salary、specialization。顺序固定保证同一快照生成的表达式字节级一致，
// 调用方可将其用作请求缓存键。
func (c Criteria) Build() string {
	parts := make([]string, 0, 6)
	appendPart := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}

	appendPart(In("location", c.Locations))
	appendPart(In("skills", c.Skills))
	appendPart(In("level", c.Levels))
	appendPart(In("workType", c.WorkTypes))
	if c.SalaryApplied() {
		appendPart(Between("salary", c.SalaryMin, c.SalaryMax))
	}
	appendPart(In("specialization", c.Specializations))

	return strings.Join(parts, " and ")
}
