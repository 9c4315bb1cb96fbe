package engine

import (
	"errors"
	"testing"

	"otusig/domain/core"
	"otusig/domain/group"
	"otusig/internal/testkit"
)

func twoGroupPartition(t *testing.T) (*GroupRows, group.IndexPartition) {
	t.Helper()
	tab, md := testkit.TwoGroupTable()
	cats, err := group.SampleCategories(md, "Treatment")
	if err != nil {
		t.Fatal(err)
	}
	part, err := group.ColumnIndexPartition(group.GroupPartition(cats), tab)
	if err != nil {
		t.Fatal(err)
	}
	return NewGroupRows(tab, part), part
}

func TestGroupRows_YieldsEveryFeatureInOrder(t *testing.T) {
	it, part := twoGroupPartition(t)
	if it.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", it.Len())
	}
	if got := part.Labels(); got[0] != "A" || got[1] != "B" {
		t.Fatalf("unexpected group order %v", got)
	}

	first, ok := it.Next()
	if !ok {
		t.Fatal("first row missing")
	}
	if len(first) != 2 || len(first[0]) != 2 || len(first[1]) != 2 {
		t.Fatalf("unexpected shape %v", first)
	}
	if first[0][0] != 10 || first[0][1] != 12 || first[1][0] != 30 || first[1][1] != 33 {
		t.Errorf("row values out of order: %v", first)
	}

	second, ok := it.Next()
	if !ok {
		t.Fatal("second row missing")
	}
	if second[0][0] != 5 || second[1][1] != 5 {
		t.Errorf("second row values out of order: %v", second)
	}

	if _, ok := it.Next(); ok {
		t.Error("iterator should be exhausted after two rows")
	}
}

func TestGroupRows_ArraysAreOwned(t *testing.T) {
	it, _ := twoGroupPartition(t)
	first, _ := it.Next()
	first[0][0] = -1

	again, _ := twoGroupPartition(t)
	fresh, _ := again.Next()
	if fresh[0][0] != 10 {
		t.Error("mutating a yielded array leaked into the table")
	}
}

func TestNewPairedRows_LengthMismatch(t *testing.T) {
	tab, _ := testkit.TwoGroupTable()
	_, err := NewPairedRows(tab, testkit.SampleIDs("s1", "s2", "s3"), testkit.SampleIDs("s3", "s4"))
	if !errors.Is(err, core.ErrLengthMismatch) {
		t.Fatalf("expected length mismatch, got %v", err)
	}
}

func TestNewPairedRows_UnknownSample(t *testing.T) {
	tab, _ := testkit.TwoGroupTable()
	_, err := NewPairedRows(tab, testkit.SampleIDs("s1", "nope"), testkit.SampleIDs("s3", "s4"))
	if !errors.Is(err, core.ErrUnknownSample) {
		t.Fatalf("expected unknown sample, got %v", err)
	}
}

func TestPairedRows_AlignsByPosition(t *testing.T) {
	tab, _ := testkit.TwoGroupTable()
	it, err := NewPairedRows(tab, testkit.SampleIDs("s1", "s2"), testkit.SampleIDs("s3", "s4"))
	if err != nil {
		t.Fatal(err)
	}

	before, after, ok := it.Next()
	if !ok {
		t.Fatal("first row missing")
	}
	if before[0] != 10 || before[1] != 12 || after[0] != 30 || after[1] != 33 {
		t.Errorf("pairing misaligned: before=%v after=%v", before, after)
	}
}

func TestNewCorrelationRows_NonNumericGradient(t *testing.T) {
	tab, md := testkit.TwoGroupTable()
	md["s2"]["Dose"] = "abc"
	_, err := NewCorrelationRows(tab, md, "Dose")
	if !errors.Is(err, core.ErrNonNumericGradient) {
		t.Fatalf("expected gradient error, got %v", err)
	}
}

func TestNewCorrelationRows_MissingField(t *testing.T) {
	tab, md := testkit.TwoGroupTable()
	_, err := NewCorrelationRows(tab, md, "Nope")
	if !errors.Is(err, core.ErrMissingField) {
		t.Fatalf("expected missing field, got %v", err)
	}
}

func TestCorrelationRows_SharedGradient(t *testing.T) {
	tab, md := testkit.TwoGroupTable()
	it, err := NewCorrelationRows(tab, md, "Dose")
	if err != nil {
		t.Fatal(err)
	}

	row, gradient, ok := it.Next()
	if !ok {
		t.Fatal("first row missing")
	}
	if len(row) != 4 || row[0] != 10 {
		t.Errorf("unexpected row %v", row)
	}
	want := []float64{1, 2, 3, 4}
	for i := range want {
		if gradient[i] != want[i] {
			t.Fatalf("gradient %v, want %v", gradient, want)
		}
	}

	_, gradient2, _ := it.Next()
	if &gradient[0] != &gradient2[0] {
		t.Error("gradient should be shared across rows")
	}
}

func TestLongitudinalRows_PerSubjectShapes(t *testing.T) {
	tab, md := testkit.TwoGroupTable()
	md["s1"]["Subject"] = "a"
	md["s2"]["Subject"] = "a"
	md["s3"]["Subject"] = "b"
	md["s4"]["Subject"] = "b"
	cats, err := group.SampleCategories(md, "Subject")
	if err != nil {
		t.Fatal(err)
	}
	subjects := group.SubjectPartition(cats)

	it, err := NewLongitudinalRows(tab, md, "Dose", subjects)
	if err != nil {
		t.Fatal(err)
	}

	obs, gradients, ok := it.Next()
	if !ok {
		t.Fatal("first row missing")
	}
	if len(obs) != 2 || len(gradients) != 2 {
		t.Fatalf("expected 2 subjects, got obs=%d gradients=%d", len(obs), len(gradients))
	}
	if obs[0][0] != 10 || obs[0][1] != 12 || obs[1][0] != 30 || obs[1][1] != 33 {
		t.Errorf("subject slices misaligned: %v", obs)
	}
	if gradients[0][0] != 1 || gradients[0][1] != 2 || gradients[1][0] != 3 || gradients[1][1] != 4 {
		t.Errorf("subject gradients misaligned: %v", gradients)
	}
}
