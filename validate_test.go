package tablevet_test

import (
	"context"
	"errors"
	"testing"
	"time"

	tablevet "github.com/openfield/tablevet"
	"github.com/openfield/tablevet/schema"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return ts
}

func mustFrame(t *testing.T, name string, values []any) *tablevet.Frame {
	t.Helper()
	f := tablevet.NewFrame()
	if err := f.AddColumn(name, values); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	return f
}

func TestValidate_CategoricalScenario(t *testing.T) {
	// schema {'col_1': {accepted: [a b], default: a, nulls: [N/A]}}
	// data ['a','c','N/A','b'] -> one violation at row 1, corrected
	// ['a','a',MISSING,'b'].
	s := schema.New().
		Column("col_1").Accepted("a", "b").Default("a").Nulls("N/A").
		MustBuild()
	f := mustFrame(t, "col_1", []any{"a", "c", "N/A", "b"})

	rep, corrected, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{ReturnCorrected: true})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.Count() != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", rep.Count(), rep.Violations())
	}
	v := rep.Violations()[0]
	if v.Column != "col_1" || v.Row != 1 || v.Value != "c" {
		t.Fatalf("unexpected violation: %+v", v)
	}
	if v.Reason != tablevet.ReasonNotAccepted {
		t.Fatalf("reason = %q, want %q", v.Reason, tablevet.ReasonNotAccepted)
	}
	if !v.Substituted || v.Resolution != "a" {
		t.Fatalf("expected substitution with default a, got %+v", v)
	}

	col, _ := corrected.Column("col_1")
	want := []any{"a", "a", tablevet.Missing, "b"}
	for i := range want {
		if tablevet.IsMissing(want[i]) {
			if !tablevet.IsMissing(col[i]) {
				t.Fatalf("row %d: expected Missing, got %v", i, col[i])
			}
			continue
		}
		if col[i] != want[i] {
			t.Fatalf("row %d: got %v want %v", i, col[i], want[i])
		}
	}
}

func TestValidate_RangeScenario(t *testing.T) {
	// schema {'col_2': {range: [0,4], default: 0, nulls: [-1]}}
	// data [-1, 5, 2, 4] -> row 0 MISSING, row 1 above max,
	// corrected [MISSING, 0, 2, 4].
	s := schema.New().
		Column("col_2").Range(0, 4).Default(0).Nulls(-1).
		MustBuild()
	f := mustFrame(t, "col_2", []any{-1, 5, 2, 4})

	rep, corrected, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{ReturnCorrected: true})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.Count() != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", rep.Count(), rep.Violations())
	}
	v := rep.Violations()[0]
	if v.Row != 1 || v.Reason != tablevet.ReasonAboveMaximum {
		t.Fatalf("unexpected violation: %+v", v)
	}
	col, _ := corrected.Column("col_2")
	if !tablevet.IsMissing(col[0]) {
		t.Fatalf("row 0: expected Missing (null synonym), got %v", col[0])
	}
	if col[1] != 0 || col[2] != 2 || col[3] != 4 {
		t.Fatalf("corrected = %v, want [MISSING 0 2 4]", col)
	}
}

func TestValidate_InclusiveBounds(t *testing.T) {
	s := schema.New().Column("n").Range(0, 4).MustBuild()
	f := mustFrame(t, "n", []any{0, 4})

	rep, _, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.Count() != 0 {
		t.Fatalf("bounds are inclusive; got %v", rep.Violations())
	}
}

func TestValidate_UnboundedSides(t *testing.T) {
	s := schema.New().Column("n").Range(nil, 10).MustBuild()
	f := mustFrame(t, "n", []any{-1000000, 10, 11})

	rep, _, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.Count() != 1 || rep.Violations()[0].Row != 2 {
		t.Fatalf("expected only row 2 above max, got %v", rep.Violations())
	}
}

func TestValidate_NonComparableIsViolationNotPanic(t *testing.T) {
	s := schema.New().Column("n").Range(0, 4).Default(0).MustBuild()
	f := mustFrame(t, "n", []any{"oops", 2})

	rep, corrected, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{ReturnCorrected: true})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.Count() != 1 {
		t.Fatalf("expected 1 violation, got %v", rep.Violations())
	}
	v := rep.Violations()[0]
	if v.Reason != tablevet.ReasonNonComparable {
		t.Fatalf("reason = %q, want %q", v.Reason, tablevet.ReasonNonComparable)
	}
	col, _ := corrected.Column("n")
	if col[0] != 0 {
		t.Fatalf("non-comparable value with a default must be substituted, got %v", col[0])
	}
}

func TestValidate_FlagOnlyWithoutDefault(t *testing.T) {
	s := schema.New().Column("c").Accepted("a").MustBuild()
	f := mustFrame(t, "c", []any{"z"})

	rep, corrected, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{ReturnCorrected: true})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	v := rep.Violations()[0]
	if v.Substituted || v.Resolution != nil {
		t.Fatalf("expected flag-only violation, got %+v", v)
	}
	col, _ := corrected.Column("c")
	if col[0] != "z" {
		t.Fatalf("flag-only value must stay in corrected output, got %v", col[0])
	}
}

func TestValidate_CleanDataZeroViolations(t *testing.T) {
	s := schema.New().
		Column("c").Accepted("a", "b").
		Column("n").Range(0, 10).
		MustBuild()
	f := tablevet.NewFrame()
	if err := f.AddColumn("c", []any{"a", "b"}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if err := f.AddColumn("n", []any{1, 10}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if err := f.AddColumn("unruled", []any{"x", "y"}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}

	rep, corrected, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{ReturnCorrected: true})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.Count() != 0 {
		t.Fatalf("clean data produced violations: %v", rep.Violations())
	}
	for _, name := range f.Columns() {
		got, _ := corrected.Column(name)
		want, _ := f.Column(name)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("column %s row %d: corrected %v != input %v", name, i, got[i], want[i])
			}
		}
	}
}

func TestValidate_Idempotence(t *testing.T) {
	s := schema.New().Column("c").Accepted("a", "b").Default("a").Nulls("N/A").MustBuild()
	f := mustFrame(t, "c", []any{"a", "z", "N/A"})

	_, corrected, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{ReturnCorrected: true})
	if err != nil {
		t.Fatalf("first Validate: %v", err)
	}
	rep2, _, err := tablevet.Validate(context.Background(), corrected, s, tablevet.Options{})
	if err != nil {
		t.Fatalf("second Validate: %v", err)
	}
	if rep2.Count() != 0 {
		t.Fatalf("corrected frame must revalidate clean, got %v", rep2.Violations())
	}
}

func TestValidate_UnknownColumnIsConfigError(t *testing.T) {
	s := schema.New().Column("col_9").Accepted("a").MustBuild()
	f := mustFrame(t, "col_1", []any{"a"})

	rep, corrected, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{ReturnCorrected: true})
	if err == nil {
		t.Fatalf("expected ConfigError for unknown column")
	}
	var ce *schema.ConfigError
	if !errors.As(err, &ce) || ce.Column != "col_9" {
		t.Fatalf("expected *schema.ConfigError for col_9, got %v", err)
	}
	if rep != nil || corrected != nil {
		t.Fatalf("nothing may be produced on config error, got rep=%v corrected=%v", rep, corrected)
	}
}

func TestValidate_NoCorrectedFrameUnlessAsked(t *testing.T) {
	s := schema.New().Column("c").Accepted("a").MustBuild()
	f := mustFrame(t, "c", []any{"a"})

	_, corrected, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if corrected != nil {
		t.Fatalf("corrected frame returned without ReturnCorrected")
	}
}

func TestValidate_InputFrameNeverMutated(t *testing.T) {
	s := schema.New().Column("c").Accepted("a").Default("a").MustBuild()
	f := mustFrame(t, "c", []any{"z"})

	_, _, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{ReturnCorrected: true})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	col, _ := f.Column("c")
	if col[0] != "z" {
		t.Fatalf("input frame mutated: %v", col)
	}
}

func TestValidate_ViolationOrderFollowsSchemaThenRow(t *testing.T) {
	// Builder order b-then-a must drive report order regardless of
	// frame column order.
	s := schema.New().
		Column("b").Accepted("ok").
		Column("a").Accepted("ok").
		MustBuild()
	f := tablevet.NewFrame()
	if err := f.AddColumn("a", []any{"bad1", "bad2"}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if err := f.AddColumn("b", []any{"bad3", "bad4"}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}

	rep, _, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	vs := rep.Violations()
	if len(vs) != 4 {
		t.Fatalf("expected 4 violations, got %d", len(vs))
	}
	wantCols := []string{"b", "b", "a", "a"}
	wantRows := []int{0, 1, 0, 1}
	for i := range vs {
		if vs[i].Column != wantCols[i] || vs[i].Row != wantRows[i] {
			t.Fatalf("violation %d = %s/%d, want %s/%d", i, vs[i].Column, vs[i].Row, wantCols[i], wantRows[i])
		}
	}
}

func TestValidate_TimeRange(t *testing.T) {
	lo := mustTime(t, "2020-01-01T00:00:00Z")
	hi := mustTime(t, "2020-12-31T00:00:00Z")
	s := schema.New().Column("ts").Range(lo, hi).MustBuild()
	f := mustFrame(t, "ts", []any{
		mustTime(t, "2020-06-01T00:00:00Z"),
		mustTime(t, "2021-02-01T00:00:00Z"),
		lo,
	})

	rep, _, err := tablevet.Validate(context.Background(), f, s, tablevet.Options{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.Count() != 1 {
		t.Fatalf("expected 1 violation, got %v", rep.Violations())
	}
	if v := rep.Violations()[0]; v.Row != 1 || v.Reason != tablevet.ReasonAboveMaximum {
		t.Fatalf("unexpected violation: %+v", v)
	}
}
