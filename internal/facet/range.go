package facet

import "strconv"

// RangeFacet 表示连续区间型维度（薪资）。与 SetFacet 一样持有
// applied/draft 双态；区间等于默认全量时视为未应用。
type RangeFacet struct {
	min, max             int64 // 允许的边界，同时是默认区间
	appliedLo, appliedHi int64
	draftLo, draftHi     int64
	open                 bool
}

// NewRangeFacet 创建区间维度，初始 applied 为全量默认区间。
func NewRangeFacet(min, max int64) *RangeFacet {
	return &RangeFacet{
		min: min, max: max,
		appliedLo: min, appliedHi: max,
		draftLo: min, draftHi: max,
	}
}

// Open 打开控件，draft 从 applied 复制。
func (f *RangeFacet) Open() {
	f.draftLo, f.draftHi = f.appliedLo, f.appliedHi
	f.open = true
}

// IsOpen 返回控件是否处于打开状态。
func (f *RangeFacet) IsOpen() bool { return f.open }

// SetDraft 更新草稿区间，越界值收敛到边界，反序自动交换。
func (f *RangeFacet) SetDraft(lo, hi int64) {
	lo, hi = f.clampPair(lo, hi)
	f.draftLo, f.draftHi = lo, hi
}

// Clear 将草稿重置为默认全量区间，不自动提交。
func (f *RangeFacet) Clear() {
	f.draftLo, f.draftHi = f.min, f.max
}

// Apply 提交草稿并关闭控件，返回 applied 是否发生变化。
func (f *RangeFacet) Apply() bool {
	changed := f.appliedLo != f.draftLo || f.appliedHi != f.draftHi
	f.appliedLo, f.appliedHi = f.draftLo, f.draftHi
	f.open = false
	return changed
}

// Cancel 关闭控件并丢弃草稿。
func (f *RangeFacet) Cancel() {
	f.draftLo, f.draftHi = f.appliedLo, f.appliedHi
	f.open = false
}

// Applied 返回已应用区间。
func (f *RangeFacet) Applied() (lo, hi int64) { return f.appliedLo, f.appliedHi }

// Draft 返回草稿区间。
func (f *RangeFacet) Draft() (lo, hi int64) { return f.draftLo, f.draftHi }

// Default 判断已应用区间是否等于默认全量区间。
func (f *RangeFacet) Default() bool {
	return f.appliedLo == f.min && f.appliedHi == f.max
}

// Badge 返回角标：偏离默认区间记 1，否则 0。
func (f *RangeFacet) Badge() int {
	if f.Default() {
		return 0
	}
	return 1
}

// Hydrate 从 URL 参数解析区间，解析失败回落到默认边界。
func (f *RangeFacet) Hydrate(from, to string) {
	lo, err := strconv.ParseInt(from, 10, 64)
	if err != nil {
		lo = f.min
	}
	hi, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		hi = f.max
	}
	lo, hi = f.clampPair(lo, hi)
	f.appliedLo, f.appliedHi = lo, hi
	if !f.open {
		f.draftLo, f.draftHi = lo, hi
	}
}

func (f *RangeFacet) clampPair(lo, hi int64) (int64, int64) {
	clamp := func(v int64) int64 {
		if v < f.min {
			return f.min
		}
		if v > f.max {
			return f.max
		}
		return v
	}
	lo, hi = clamp(lo), clamp(hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}
