package filter

import (
	"reflect"
	"testing"
)

func TestBuildOrdersFacetsDeterministically(t *testing.T) {
	t.Parallel()

	c := Criteria{
		Levels:          []string{"JUNIOR", "SENIOR"},
		Specializations: []string{"Backend"},
		SalaryMin:       DefaultSalaryMin,
		SalaryMax:       DefaultSalaryMax,
		HasSalary:       true,
	}

	want := "level in (JUNIOR,SENIOR) and specialization in (Backend)"
	got := c.Build()
	if got != want {
		t.Fatalf("Build() = %q, want %q", got, want)
	}
	if again := c.Build(); again != got {
		t.Fatalf("Build() not stable: %q vs %q", again, got)
	}
}

func TestBuildIncludesSalaryOnlyOffDefault(t *testing.T) {
	t.Parallel()

	c := Criteria{SalaryMin: 5_000_000, SalaryMax: 30_000_000, HasSalary: true}
	want := "(salary>=5000000 and salary<=30000000)"
	if got := c.Build(); got != want {
		t.Fatalf("Build() = %q, want %q", got, want)
	}

	c = Criteria{SalaryMin: DefaultSalaryMin, SalaryMax: DefaultSalaryMax, HasSalary: true}
	if got := c.Build(); got != "" {
		t.Fatalf("default salary range should not emit a clause, got %q", got)
	}
}

func TestBuildCombinesAllFacets(t *testing.T) {
	t.Parallel()

	c := Criteria{
		Locations:       []string{"HANOI"},
		Skills:          []string{"Go", "React"},
		Levels:          []string{"MIDDLE"},
		WorkTypes:       []string{"REMOTE", "HYBRID"},
		SalaryMin:       10_000_000,
		SalaryMax:       50_000_000,
		HasSalary:       true,
		Specializations: []string{"Backend", "DevOps"},
	}

	want := "location in (HANOI) and skills in (Go,React) and level in (MIDDLE)" +
		" and workType in (REMOTE,HYBRID) and (salary>=10000000 and salary<=50000000)" +
		" and specialization in (Backend,DevOps)"
	if got := c.Build(); got != want {
		t.Fatalf("Build() = %q, want %q", got, want)
	}
}

func TestBuildEmptyCriteria(t *testing.T) {
	t.Parallel()

	var c Criteria
	if got := c.Build(); got != "" {
		t.Fatalf("empty criteria should build empty expression, got %q", got)
	}
	if !c.Empty() {
		t.Fatalf("zero criteria should report Empty")
	}
}

func TestInSkipsBlankValues(t *testing.T) {
	t.Parallel()

	if got := In("level", []string{" ", ""}); got != "" {
		t.Fatalf("all-blank values should produce empty clause, got %q", got)
	}
	if got := In("level", []string{" JUNIOR ", "SENIOR"}); got != "level in (JUNIOR,SENIOR)" {
		t.Fatalf("unexpected clause %q", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	orig := Criteria{
		Locations:       []string{"DANANG"},
		Skills:          []string{"Go"},
		Levels:          []string{"JUNIOR", "SENIOR"},
		WorkTypes:       []string{"REMOTE"},
		SalaryMin:       1_000_000,
		SalaryMax:       90_000_000,
		HasSalary:       true,
		Specializations: []string{"Backend"},
	}

	parsed, err := Parse(orig.Build())
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !reflect.DeepEqual(parsed, orig) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", parsed, orig)
	}
}

func TestParseSkipsUnknownFields(t *testing.T) {
	t.Parallel()

	c, err := Parse("level in (JUNIOR) and verdict in (GOOD)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !reflect.DeepEqual(c.Levels, []string{"JUNIOR"}) {
		t.Fatalf("expected levels preserved, got %+v", c)
	}
}

func TestParseEqualsClause(t *testing.T) {
	t.Parallel()

	c, err := Parse("level = SENIOR")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !reflect.DeepEqual(c.Levels, []string{"SENIOR"}) {
		t.Fatalf("expected single level, got %+v", c.Levels)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{
		"level in JUNIOR",
		"(salary>=1 and salary<=2",
		"level in ()",
		"salary>=abc and salary<=2",
		"(salary>=1 and workType<=2)",
	} {
		if _, err := Parse(expr); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", expr)
		}
	}
}

func TestParseEmptyExpression(t *testing.T) {
	t.Parallel()

	c, err := Parse("  ")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !c.Empty() {
		t.Fatalf("expected empty criteria, got %+v", c)
	}
}
