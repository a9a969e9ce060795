package facet

import (
	"net/url"
	"strconv"
	"strings"

	"jobhunter/internal/filter"
	"jobhunter/internal/model"
)

// 查询默认值，与职位列表页保持一致。
const (
	DefaultPageSize = 6
	DefaultSort     = "updatedAt,desc"
)

// Search 组合全部筛选维度并派生后端查询。URL 查询串始终是已应用状态的
// 规范序列化，编辑会话期间不反向作为数据源。任何已应用维度变化都会把
// 页码重置为 1 并递增一次请求代数；迟到的旧代响应由调用方丢弃，
// 避免"最后写入获胜"的竞态。非并发安全。
type Search struct {
	Levels          *SetFacet
	WorkTypes       *SetFacet
	Specializations *SetFacet
	Salary          *RangeFacet

	// 以下由搜索框拥有，仅参与表达式合成与 URL 透传。
	locations []string
	skills    []string
	keyword   string

	page       int
	size       int
	sort       string
	generation uint64
}

// NewSearch 创建组合器。specializations 词表可先传 nil，待服务端词表
// 下发后通过 Specializations.SetOptions 注入。
func NewSearch(specializations []string) *Search {
	levels := make([]string, 0, len(model.Levels))
	for _, l := range model.Levels {
		levels = append(levels, string(l))
	}
	workTypes := make([]string, 0, len(model.WorkTypes))
	for _, w := range model.WorkTypes {
		workTypes = append(workTypes, string(w))
	}

	return &Search{
		Levels:          NewSetFacet("levels", levels),
		WorkTypes:       NewSetFacet("workTypes", workTypes),
		Specializations: NewSetFacet("specializations", specializations),
		Salary:          NewRangeFacet(filter.DefaultSalaryMin, filter.DefaultSalaryMax),
		page:            1,
		size:            DefaultPageSize,
		sort:            DefaultSort,
	}
}

// Page 返回当前页码（1 起）。
func (s *Search) Page() int { return s.page }

// PageSize 返回当前页大小。
func (s *Search) PageSize() int { return s.size }

// Generation 返回当前请求代数。调用方在响应落地前比对代数，
// 不一致则丢弃该响应。
func (s *Search) Generation() uint64 { return s.generation }

// SetPage 翻页。不触发筛选重置。
func (s *Search) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	s.page = p
	s.generation++
}

// SetPageSize 修改页大小并回到第 1 页。
func (s *Search) SetPageSize(size int) {
	if size < 1 {
		size = DefaultPageSize
	}
	s.size = size
	s.reset()
}

// SetSort 修改排序并回到第 1 页。
func (s *Search) SetSort(sort string) {
	if sort == "" {
		sort = DefaultSort
	}
	s.sort = sort
	s.reset()
}

// SetKeyword 更新自由关键词（搜索框所有）。
func (s *Search) SetKeyword(q string) {
	s.keyword = strings.TrimSpace(q)
	s.reset()
}

// SetLocations 更新地点集合（搜索框所有）。
func (s *Search) SetLocations(values []string) {
	s.locations = cleanCSVValues(values)
	s.reset()
}

// SetSkills 更新技能集合（搜索框所有）。
func (s *Search) SetSkills(values []string) {
	s.skills = cleanCSVValues(values)
	s.reset()
}

// ApplyLevels 提交级别维度草稿。返回 applied 是否变化。
func (s *Search) ApplyLevels() bool { return s.applyFacet(s.Levels.Apply()) }

// ApplyWorkTypes 提交工作方式维度草稿。
func (s *Search) ApplyWorkTypes() bool { return s.applyFacet(s.WorkTypes.Apply()) }

// ApplySpecializations 提交专业方向维度草稿。
func (s *Search) ApplySpecializations() bool { return s.applyFacet(s.Specializations.Apply()) }

// ApplySalary 提交薪资区间草稿。
func (s *Search) ApplySalary() bool { return s.applyFacet(s.Salary.Apply()) }

// applyFacet 统一处理提交后的副作用：任何已应用变化 → 页码回 1、代数 +1。
// 状态更新、URL 重写与重新拉取对调用方呈现为一次原子更新：
// EncodeQuery/FetchQuery 只反映提交后的完整状态。
func (s *Search) applyFacet(changed bool) bool {
	if changed {
		s.reset()
	}
	return changed
}

func (s *Search) reset() {
	s.page = 1
	s.generation++
}

// EncodeQuery 把已应用状态序列化为 URL 查询参数。处于默认/空值的维度
// 整体省略，保证链接最小可分享。
func (s *Search) EncodeQuery() url.Values {
	v := url.Values{}
	if s.keyword != "" {
		v.Set("q", s.keyword)
	}
	if len(s.skills) > 0 {
		v.Set("skills", strings.Join(s.skills, ","))
	}
	if len(s.locations) > 0 {
		v.Set("location", strings.Join(s.locations, ","))
	}
	if applied := s.Levels.Applied(); len(applied) > 0 {
		v.Set("levels", strings.Join(applied, ","))
	}
	if applied := s.WorkTypes.Applied(); len(applied) > 0 {
		v.Set("workTypes", strings.Join(applied, ","))
	}
	if applied := s.Specializations.Applied(); len(applied) > 0 {
		v.Set("specializations", strings.Join(applied, ","))
	}
	if !s.Salary.Default() {
		lo, hi := s.Salary.Applied()
		v.Set("salaryFrom", strconv.FormatInt(lo, 10))
		v.Set("salaryTo", strconv.FormatInt(hi, 10))
	}
	return v
}

// HydrateQuery 从 URL 查询参数恢复已应用状态（页面装载或浏览器
// 前进/后退）。未识别枚举取值静默丢弃，数字解析失败回落默认边界。
func (s *Search) HydrateQuery(v url.Values) {
	s.keyword = strings.TrimSpace(v.Get("q"))
	s.skills = parseCSV(v.Get("skills"))
	s.locations = parseCSV(v.Get("location"))
	s.Levels.Hydrate(parseCSV(v.Get("levels")))
	s.WorkTypes.Hydrate(parseCSV(v.Get("workTypes")))
	s.Specializations.Hydrate(parseCSV(v.Get("specializations")))
	s.Salary.Hydrate(v.Get("salaryFrom"), v.Get("salaryTo"))
	s.reset()
}

// Criteria 生成当前已应用状态的筛选条件快照。
func (s *Search) Criteria() filter.Criteria {
	lo, hi := s.Salary.Applied()
	return filter.Criteria{
		Locations:       s.locations,
		Skills:          s.skills,
		Levels:          s.Levels.Applied(),
		WorkTypes:       s.WorkTypes.Applied(),
		SalaryMin:       lo,
		SalaryMax:       hi,
		HasSalary:       true,
		Specializations: s.Specializations.Applied(),
	}
}

// FetchQuery 生成发往后端的完整查询串（page、size、sort、filter、q）。
// 同一状态总是产出同一字符串，可直接作为请求缓存键。
func (s *Search) FetchQuery() string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(s.page))
	v.Set("size", strconv.Itoa(s.size))
	v.Set("sort", s.sort)
	if expr := s.Criteria().Build(); expr != "" {
		v.Set("filter", expr)
	}
	if s.keyword != "" {
		v.Set("q", s.keyword)
	}
	return v.Encode()
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	return cleanCSVValues(strings.Split(s, ","))
}

func cleanCSVValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
