package facet

import (
	"reflect"
	"testing"
)

func TestSetFacetDraftAppliedSeparation(t *testing.T) {
	t.Parallel()

	f := NewSetFacet("levels", []string{"INTERN", "FRESHER", "JUNIOR", "MIDDLE", "SENIOR"})

	f.Open()
	f.Toggle("JUNIOR")
	f.Toggle("SENIOR")

	if got := f.Applied(); len(got) != 0 {
		t.Fatalf("editing draft must not touch applied, got %v", got)
	}
	if got := f.Draft(); !reflect.DeepEqual(got, []string{"JUNIOR", "SENIOR"}) {
		t.Fatalf("unexpected draft %v", got)
	}

	if !f.Apply() {
		t.Fatalf("Apply should report change")
	}
	if got := f.Applied(); !reflect.DeepEqual(got, []string{"JUNIOR", "SENIOR"}) {
		t.Fatalf("unexpected applied %v", got)
	}
	if f.IsOpen() {
		t.Fatalf("Apply should close the control")
	}
}

func TestSetFacetCancelDiscardsDraft(t *testing.T) {
	t.Parallel()

	f := NewSetFacet("levels", []string{"JUNIOR", "SENIOR"})
	f.Open()
	f.Toggle("JUNIOR")
	f.Cancel()

	if got := f.Applied(); len(got) != 0 {
		t.Fatalf("cancel must not apply draft, got %v", got)
	}

	// 再次打开时草稿从 applied 重新复制，上次取消的编辑不残留。
	f.Open()
	if got := f.Draft(); len(got) != 0 {
		t.Fatalf("stale draft survived reopen: %v", got)
	}
}

func TestSetFacetClearRequiresApply(t *testing.T) {
	t.Parallel()

	f := NewSetFacet("levels", []string{"JUNIOR", "SENIOR"})
	f.Hydrate([]string{"JUNIOR"})

	f.Open()
	f.Clear()
	if got := f.Applied(); !reflect.DeepEqual(got, []string{"JUNIOR"}) {
		t.Fatalf("Clear must not auto-apply, applied = %v", got)
	}
	f.Apply()
	if got := f.Applied(); len(got) != 0 {
		t.Fatalf("expected empty applied after clear+apply, got %v", got)
	}
}

func TestSetFacetHydrateDropsUnknownValues(t *testing.T) {
	t.Parallel()

	f := NewSetFacet("levels", []string{"JUNIOR", "SENIOR"})
	f.Hydrate([]string{"SENIOR", "WIZARD", " JUNIOR ", "JUNIOR"})

	// 合法取值保留且按词表顺序规整，非法与重复取值丢弃。
	if got := f.Applied(); !reflect.DeepEqual(got, []string{"JUNIOR", "SENIOR"}) {
		t.Fatalf("unexpected applied %v", got)
	}
}

func TestSetFacetBadgeCountsAppliedOnly(t *testing.T) {
	t.Parallel()

	f := NewSetFacet("levels", []string{"JUNIOR", "SENIOR"})
	f.Hydrate([]string{"JUNIOR"})
	f.Open()
	f.Toggle("SENIOR")

	if got := f.Badge(); got != 1 {
		t.Fatalf("badge must count applied, not draft: got %d", got)
	}
}

func TestSetFacetFreeVocabulary(t *testing.T) {
	t.Parallel()

	f := NewSetFacet("specializations", nil)
	f.Open()
	f.Toggle("Backend")
	f.Toggle("Data")
	f.Apply()

	if got := f.Applied(); !reflect.DeepEqual(got, []string{"Backend", "Data"}) {
		t.Fatalf("unexpected applied %v", got)
	}
}

func TestRangeFacetDefaultAndBadge(t *testing.T) {
	t.Parallel()

	f := NewRangeFacet(0, 100_000_000)
	if !f.Default() || f.Badge() != 0 {
		t.Fatalf("fresh range facet should be at default with badge 0")
	}

	f.Open()
	f.SetDraft(5_000_000, 30_000_000)
	if f.Badge() != 0 {
		t.Fatalf("draft edits must not light the badge")
	}
	f.Apply()
	if f.Default() || f.Badge() != 1 {
		t.Fatalf("applied off-default range should light the badge")
	}
}

func TestRangeFacetClampAndSwap(t *testing.T) {
	t.Parallel()

	f := NewRangeFacet(0, 100)
	f.Open()
	f.SetDraft(250, -10)
	f.Apply()

	lo, hi := f.Applied()
	if lo != 0 || hi != 100 {
		t.Fatalf("expected clamped [0,100], got [%d,%d]", lo, hi)
	}
}

func TestRangeFacetHydrateFallsBackOnGarbage(t *testing.T) {
	t.Parallel()

	f := NewRangeFacet(0, 100_000_000)
	f.Hydrate("abc", "5000000")

	lo, hi := f.Applied()
	if lo != 0 || hi != 5_000_000 {
		t.Fatalf("expected [0,5000000], got [%d,%d]", lo, hi)
	}

	f.Hydrate("", "")
	if !f.Default() {
		t.Fatalf("empty params should hydrate back to default")
	}
}
