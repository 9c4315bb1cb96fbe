package report

import (
	"math"
	"strings"
	"testing"

	"otusig/adapters/stats/engine"
	"otusig/domain/core"
	"otusig/internal/testkit"
)

func TestGroupSignificance_HeaderAndShape(t *testing.T) {
	tab, _ := testkit.TwoGroupTable()
	res := &engine.GroupResult{
		Stats:   []float64{12.5, 0.8},
		PValues: []float64{0.01, 0.45},
		Means:   [][]float64{{11, 31.5}, {4.5, 5.5}},
	}
	lines := GroupSignificance(tab, res, []float64{0.02, 0.45}, []float64{0.02, 0.9}, []string{"A", "B"})

	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	wantHeader := "OTU\tTest-Statistic\tP\tFDR_P\tBonferroni_P\tA_mean\tB_mean"
	if lines[0] != wantHeader {
		t.Errorf("header %q, want %q", lines[0], wantHeader)
	}

	cells := strings.Split(lines[1], "\t")
	if len(cells) != 7 {
		t.Fatalf("row has %d cells, want 7", len(cells))
	}
	if cells[0] != "otu1" || cells[1] != "12.5" || cells[2] != "0.01" {
		t.Errorf("unexpected row cells %v", cells)
	}
	if cells[5] != "11" || cells[6] != "31.5" {
		t.Errorf("mean cells %v, want 11 and 31.5", cells[5:])
	}
}

func TestGroupSignificance_TaxonomyColumnIsUniform(t *testing.T) {
	tab := testkit.MustTable(
		[]string{"otu1", "otu2"},
		[]string{"s1", "s2"},
		[][]float64{{1, 2}, {3, 4}},
		[][]string{{"Bacteria", "Firmicutes"}, nil},
	)
	res := &engine.GroupResult{
		Stats:   []float64{1, 2},
		PValues: []float64{0.1, 0.2},
		Means:   [][]float64{{1.5}, {3.5}},
	}
	lines := GroupSignificance(tab, res, []float64{0.2, 0.2}, []float64{0.2, 0.4}, []string{"A"})

	if !strings.HasSuffix(lines[0], "\tTaxonomy") {
		t.Fatalf("header missing taxonomy column: %q", lines[0])
	}
	width := len(strings.Split(lines[0], "\t"))
	for i, line := range lines[1:] {
		if got := len(strings.Split(line, "\t")); got != width {
			t.Errorf("row %d has %d cells, header has %d", i, got, width)
		}
	}
	if !strings.HasSuffix(lines[1], "Bacteria, Firmicutes") {
		t.Errorf("taxonomy not joined with comma-space: %q", lines[1])
	}
}

func TestCorrelation_HeaderOrder(t *testing.T) {
	tab, _ := testkit.TwoGroupTable()
	res := &engine.CorrelationResult{
		Coefs:          []float64{0.99, -0.1},
		ParametricP:    []float64{0.001, 0.8},
		NonparametricP: []float64{0.002, 0.79},
		CILow:          []float64{0.9, -0.6},
		CIHigh:         []float64{0.999, 0.5},
	}
	flat := []float64{0, 0}
	lines := Correlation(tab, res, flat, flat, flat, flat)

	wantHeader := "OTU\tCorrelation_Coef\tparametric_P\tparametric_P_FDR\tparametric_P_Bon\t" +
		"nonparametric_P\tnonparametric_P_FDR\tnonparametric_P_Bon\tconfidence_low\tconfidence_high"
	if lines[0] != wantHeader {
		t.Errorf("header %q, want %q", lines[0], wantHeader)
	}

	cells := strings.Split(lines[1], "\t")
	if cells[8] != "0.9" || cells[9] != "0.999" {
		t.Errorf("confidence cells out of order: low=%q high=%q", cells[8], cells[9])
	}
}

func TestLongitudinal_SubjectOrderRepeatsPerRow(t *testing.T) {
	tab, _ := testkit.TwoGroupTable()
	res := &engine.LongitudinalResult{
		Coefs:        [][]float64{{0.9, 0.8}, {0.1, -0.2}},
		CombinedP:    []float64{0.01, 0.7},
		PooledRho:    []float64{0.85, -0.05},
		HomogeneityP: []float64{0.9, 0.95},
	}
	subjects := []core.SubjectID{"a", "b"}
	lines := Longitudinal(tab, res, []float64{0.02, 0.7}, []float64{0.02, 1}, subjects)

	wantHeader := "OTU\tFisher Combined Rho\tP Rho is Homogenous\tFisher Combined P\t" +
		"FDR P\tBonferroni P\tCorrcoefs\tIndividual Order"
	if lines[0] != wantHeader {
		t.Errorf("header %q, want %q", lines[0], wantHeader)
	}
	for _, line := range lines[1:] {
		if !strings.HasSuffix(line, "a, b") {
			t.Errorf("individual order missing from row %q", line)
		}
	}
	cells := strings.Split(lines[1], "\t")
	if cells[6] != "0.9, 0.8" {
		t.Errorf("corrcoefs cell %q, want %q", cells[6], "0.9, 0.8")
	}
}

func TestPaired_NaNRendering(t *testing.T) {
	tab, _ := testkit.TwoGroupTable()
	res := &engine.PairedResult{
		Stats:   []float64{4.9, math.NaN()},
		PValues: []float64{0.016, math.NaN()},
	}
	lines := Paired(tab, res, []float64{0.03, math.NaN()}, []float64{0.03, math.NaN()})

	cells := strings.Split(lines[2], "\t")
	if cells[1] != "NaN" || cells[2] != "NaN" {
		t.Errorf("NaN should render literally, got %v", cells)
	}
}

func TestSortByColumn(t *testing.T) {
	lines := []string{
		"OTU\tP",
		"otu1\t0.5",
		"otu2\tNaN",
		"otu3\t0.01",
		"otu4\t0.5",
	}
	sorted := SortByColumn(lines, 1)

	if sorted[0] != lines[0] {
		t.Error("header must stay first")
	}
	want := []string{"otu3", "otu1", "otu4", "otu2"}
	for i, w := range want {
		if !strings.HasPrefix(sorted[i+1], w) {
			t.Errorf("position %d: got %q, want prefix %q", i, sorted[i+1], w)
		}
	}

	again := SortByColumn(sorted, 1)
	for i := range sorted {
		if again[i] != sorted[i] {
			t.Fatal("sorting twice changed the order")
		}
	}
}

func TestSortByColumn_DoesNotMutateInput(t *testing.T) {
	lines := []string{"OTU\tP", "otu1\t0.5", "otu2\t0.1"}
	SortByColumn(lines, 1)
	if lines[1] != "otu1\t0.5" {
		t.Error("input slice mutated")
	}
}
