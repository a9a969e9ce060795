// Package facet 维护筛选维度的草稿/已应用双态，并负责与 URL 查询串的
// 双向同步。每个控件持有 applied 与 draft 两份取值：打开时 draft 从
// applied 复制，编辑只改 draft，Apply 才会提交。
package facet

import "strings"

// SetFacet 表示集合型筛选维度（级别、工作方式、专业方向）。
// 非并发安全，归属于渲染它的单个视图。
type SetFacet struct {
	name    string
	options []string            // 合法取值顺序表，nil 表示自由词表
	allowed map[string]struct{} // options 的查找集
	applied []string
	draft   []string
	open    bool
}

// NewSetFacet 创建集合型维度。options 为 nil 时接受任意取值。
func NewSetFacet(name string, options []string) *SetFacet {
	f := &SetFacet{name: name}
	f.SetOptions(options)
	return f
}

// SetOptions 更新合法词表（例如专业方向词表由服务端下发后注入）。
// 已应用取值会按新词表重新校验。
func (f *SetFacet) SetOptions(options []string) {
	if options == nil {
		f.options = nil
		f.allowed = nil
		return
	}
	f.options = append([]string(nil), options...)
	f.allowed = make(map[string]struct{}, len(options))
	for _, o := range options {
		f.allowed[o] = struct{}{}
	}
	f.applied = f.sanitize(f.applied)
	f.draft = f.sanitize(f.draft)
}

// Name 返回维度名，同时也是 URL 参数名。
func (f *SetFacet) Name() string { return f.name }

// Open 打开控件：丢弃上次未提交的编辑，draft 从 applied 重新复制。
func (f *SetFacet) Open() {
	f.draft = append([]string(nil), f.applied...)
	f.open = true
}

// IsOpen 返回控件是否处于打开状态。
func (f *SetFacet) IsOpen() bool { return f.open }

// Toggle 在 draft 中切换一个取值，applied 不受影响。
func (f *SetFacet) Toggle(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if f.allowed != nil {
		if _, ok := f.allowed[value]; !ok {
			return
		}
	}
	for i, v := range f.draft {
		if v == value {
			f.draft = append(f.draft[:i], f.draft[i+1:]...)
			return
		}
	}
	f.draft = append(f.draft, value)
}

// SetDraft 整体替换 draft，非法取值静默丢弃。
func (f *SetFacet) SetDraft(values []string) {
	f.draft = f.sanitize(values)
}

// Clear 清空 draft。不会自动提交：所有维度统一要求显式 Apply。
func (f *SetFacet) Clear() {
	f.draft = nil
}

// Apply 提交 draft 并关闭控件，返回 applied 是否发生变化。
func (f *SetFacet) Apply() bool {
	next := f.sanitize(f.draft)
	changed := !equalSets(f.applied, next)
	f.applied = next
	f.open = false
	return changed
}

// Cancel 关闭控件并丢弃 draft。
func (f *SetFacet) Cancel() {
	f.draft = append([]string(nil), f.applied...)
	f.open = false
}

// Applied 返回已应用取值的副本。
func (f *SetFacet) Applied() []string {
	return append([]string(nil), f.applied...)
}

// Draft 返回草稿取值的副本。
func (f *SetFacet) Draft() []string {
	return append([]string(nil), f.draft...)
}

// Badge 返回控件角标数，即已应用（而非草稿）选中数。
func (f *SetFacet) Badge() int { return len(f.applied) }

// Hydrate 从 URL 解析值直接写入 applied（页面装载或浏览器前进后退），
// 未识别取值静默丢弃。
func (f *SetFacet) Hydrate(values []string) {
	f.applied = f.sanitize(values)
	if !f.open {
		f.draft = append([]string(nil), f.applied...)
	}
}

// sanitize 去空白、去重、按词表过滤，并将取值规整为确定顺序：
// 有词表时按词表顺序，自由词表保持出现顺序。
func (f *SetFacet) sanitize(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	keep := make(map[string]struct{}, len(values))
	ordered := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if f.allowed != nil {
			if _, ok := f.allowed[v]; !ok {
				continue
			}
		}
		keep[v] = struct{}{}
		ordered = append(ordered, v)
	}

	if f.options == nil {
		return ordered
	}
	out := make([]string, 0, len(keep))
	for _, o := range f.options {
		if _, ok := keep[o]; ok {
			out = append(out, o)
		}
	}
	return out
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
