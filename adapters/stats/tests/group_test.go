package tests

import (
	"math"
	"math/rand"
	"testing"
)

func TestAnovaOneWay_KnownValue(t *testing.T) {
	groups := [][]float64{{1, 2, 3}, {2, 3, 4}, {3, 4, 5}}
	f, p := anovaOneWay(groups)
	almostEqual(t, f, 3.0, 1e-9, "F")
	if p < 0.1 || p > 0.15 {
		t.Errorf("expected p near 0.125, got %v", p)
	}
}

func TestAnovaOneWay_Degenerate(t *testing.T) {
	f, p := anovaOneWay([][]float64{{1}, {2}})
	if !math.IsNaN(f) || !math.IsNaN(p) {
		t.Errorf("single-sample groups should give NaN, got %v %v", f, p)
	}
}

func TestGFit_EqualSumsAreHomogeneous(t *testing.T) {
	g, p := gFit([][]float64{{1, 2}, {2, 1}})
	almostEqual(t, g, 0, 1e-12, "G of equal group sums")
	almostEqual(t, p, 1, 1e-12, "p of equal group sums")
}

func TestGFit_UnequalSums(t *testing.T) {
	g, p := gFit([][]float64{{10, 10}, {1, 1}})
	if g <= 0 {
		t.Errorf("expected positive G, got %v", g)
	}
	if p >= 0.05 {
		t.Errorf("strongly unequal sums should be significant, got p=%v", p)
	}
}

func TestKruskalWallis_KnownValue(t *testing.T) {
	groups := [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	h, p := kruskalWallis(groups)
	almostEqual(t, h, 7.2, 1e-9, "H")
	almostEqual(t, p, math.Exp(-3.6), 1e-9, "p")
}

func TestTTwoSample_KnownValue(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{3, 4, 5, 6}
	stat, p := tTwoSample(a, b)
	almostEqual(t, stat, -2.1909, 1e-3, "t")
	if p < 0.05 || p > 0.10 {
		t.Errorf("expected p near 0.071, got %v", p)
	}
}

func TestTTwoSample_ZeroVariance(t *testing.T) {
	stat, p := tTwoSample([]float64{2, 2}, []float64{2, 2})
	if !math.IsNaN(stat) || !math.IsNaN(p) {
		t.Errorf("zero pooled variance should give NaN, got %v %v", stat, p)
	}
}

func TestMcTTwoSample_Deterministic(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{6, 7, 8, 9, 10}
	s1, p1 := mcTTwoSample(a, b, 200, rand.New(rand.NewSource(7)))
	s2, p2 := mcTTwoSample(a, b, 200, rand.New(rand.NewSource(7)))
	if s1 != s2 || p1 != p2 {
		t.Errorf("same seed should reproduce (%v, %v) vs (%v, %v)", s1, p1, s2, p2)
	}
	// Fully separated groups: almost no permutation reaches |t_obs|
	if p1 > 0.05 {
		t.Errorf("expected small permutation p, got %v", p1)
	}
}

func TestMannWhitneyU_KnownValue(t *testing.T) {
	u, p := mannWhitneyU([]float64{1, 2, 3}, []float64{4, 5, 6})
	almostEqual(t, u, 9, 1e-12, "U")
	if p < 0.04 || p > 0.06 {
		t.Errorf("expected p near 0.05, got %v", p)
	}
}

func TestMwBoot_Deterministic(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{10, 11, 12, 13}
	u1, p1 := mwBoot(a, b, 200, rand.New(rand.NewSource(3)))
	u2, p2 := mwBoot(a, b, 200, rand.New(rand.NewSource(3)))
	if u1 != u2 || p1 != p2 {
		t.Errorf("same seed should reproduce (%v, %v) vs (%v, %v)", u1, p1, u2, p2)
	}
	almostEqual(t, u1, 16, 1e-12, "U of separated groups")
}

func TestTPaired_KnownValue(t *testing.T) {
	before := []float64{1, 2, 3, 4}
	after := []float64{2, 4, 5, 7}
	stat, p := TPaired(before, after)
	almostEqual(t, stat, 4.899, 1e-2, "paired t")
	if p < 0.01 || p > 0.02 {
		t.Errorf("expected p near 0.016, got %v", p)
	}
}

func TestTPaired_LengthMismatchIsNaN(t *testing.T) {
	stat, p := TPaired([]float64{1, 2, 3}, []float64{1, 2})
	if !math.IsNaN(stat) || !math.IsNaN(p) {
		t.Errorf("mismatched arrays should give NaN, got %v %v", stat, p)
	}
}
