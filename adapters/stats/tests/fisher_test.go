package tests

import (
	"math"
	"math/rand"
	"testing"
)

func TestParametricCorrelationSignificance(t *testing.T) {
	almostEqual(t, ParametricCorrelationSignificance(0, 10), 1.0, 1e-12, "p of r=0")
	almostEqual(t, ParametricCorrelationSignificance(1, 10), 0.0, 1e-12, "p of r=1")

	p := ParametricCorrelationSignificance(0.8, 5)
	if p < 0.08 || p > 0.13 {
		t.Errorf("expected p near 0.10 for r=0.8 n=5, got %v", p)
	}

	if !math.IsNaN(ParametricCorrelationSignificance(0.5, 2)) {
		t.Error("n<3 should give NaN")
	}
}

func TestNonparametricCorrelationSignificance_Deterministic(t *testing.T) {
	test, _ := CorrelationTestFor("pearson")
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{2, 4, 6, 8, 10, 12, 14, 16}
	r := test.Coefficient(x, y)

	p1 := NonparametricCorrelationSignificance(r, test, x, y, 500, rand.New(rand.NewSource(11)))
	p2 := NonparametricCorrelationSignificance(r, test, x, y, 500, rand.New(rand.NewSource(11)))
	if p1 != p2 {
		t.Errorf("same seed should reproduce, got %v and %v", p1, p2)
	}
	if p1 > 0.05 {
		t.Errorf("perfect correlation should rarely be matched by permutation, got %v", p1)
	}
}

func TestFisherConfidenceIntervals(t *testing.T) {
	low, high := FisherConfidenceIntervals(0.5, 100)
	almostEqual(t, low, 0.3367, 1e-2, "ci low")
	almostEqual(t, high, 0.6342, 1e-2, "ci high")
	if low >= high {
		t.Errorf("interval inverted: [%v, %v]", low, high)
	}

	low, high = FisherConfidenceIntervals(0.5, 3)
	if !math.IsNaN(low) || !math.IsNaN(high) {
		t.Error("n<4 should give NaN bounds")
	}
}

func TestFisherCombined_SinglePValueIsIdentity(t *testing.T) {
	// With one p, -2 ln p under chi-squared df 2 recovers p itself
	almostEqual(t, FisherCombined([]float64{0.3}), 0.3, 1e-9, "single p")
}

func TestFisherCombined_TwoHalves(t *testing.T) {
	// -2(ln .5 + ln .5) = 2.7726 under chi-squared df 4
	almostEqual(t, FisherCombined([]float64{0.5, 0.5}), 0.5966, 1e-3, "combined p")
}

func TestFisherCombined_SmallPValuesDominate(t *testing.T) {
	p := FisherCombined([]float64{0.001, 0.002, 0.003})
	if p > 0.001 {
		t.Errorf("consistently small p-values should combine small, got %v", p)
	}
}

func TestFisherPopulationCorrelation_SingleSubject(t *testing.T) {
	rho, h := FisherPopulationCorrelation([]float64{0.42}, []int{15})
	almostEqual(t, rho, 0.42, 1e-12, "pooled rho with one subject")
	almostEqual(t, h, 1.0, 1e-12, "homogeneity with one subject")
}

func TestFisherPopulationCorrelation_IdenticalCoefficients(t *testing.T) {
	rho, h := FisherPopulationCorrelation([]float64{0.5, 0.5, 0.5}, []int{10, 20, 30})
	almostEqual(t, rho, 0.5, 1e-9, "pooled rho of equal coefficients")
	almostEqual(t, h, 1.0, 1e-9, "homogeneity of equal coefficients")
}

func TestFisherPopulationCorrelation_DisagreementLowersHomogeneity(t *testing.T) {
	_, h := FisherPopulationCorrelation([]float64{0.9, -0.9}, []int{50, 50})
	if h > 0.001 {
		t.Errorf("opposite strong coefficients should be inhomogeneous, got p=%v", h)
	}
}
