package tests

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// ParametricCorrelationSignificance computes the two-tailed p-value of
// a correlation coefficient under the t distribution with n-2 degrees
// of freedom. Used by every correlation test that does not supply its
// own p-value.
func ParametricCorrelationSignificance(r float64, n int) float64 {
	if n < 3 || math.IsNaN(r) {
		return math.NaN()
	}
	if r >= 1 || r <= -1 {
		return 0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	return twoTailedT(t, float64(n-2))
}

// NonparametricCorrelationSignificance computes a permutation p-value:
// the fraction of reps shuffles of y whose coefficient is at least as
// extreme as the observed one.
func NonparametricCorrelationSignificance(r float64, test CorrelationTest, x, y []float64, reps int, rng *rand.Rand) float64 {
	if math.IsNaN(r) || reps <= 0 {
		return math.NaN()
	}
	shuffled := make([]float64, len(y))
	copy(shuffled, y)
	count := 0
	for i := 0; i < reps; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if math.Abs(test.Coefficient(x, shuffled)) >= math.Abs(r) {
			count++
		}
	}
	return float64(count) / float64(reps)
}

// FisherConfidenceIntervals computes the 95% confidence interval of a
// correlation coefficient via the Fisher z-transform.
func FisherConfidenceIntervals(r float64, n int) (low, high float64) {
	if n < 4 || math.IsNaN(r) || r >= 1 || r <= -1 {
		return math.NaN(), math.NaN()
	}
	z := math.Atanh(r)
	se := 1 / math.Sqrt(float64(n-3))
	crit := distuv.UnitNormal.Quantile(0.975)
	return math.Tanh(z - crit*se), math.Tanh(z + crit*se)
}

// FisherCombined pools independent p-values with Fisher's combined
// probability method: -2*sum(ln p) under chi-squared with 2k degrees
// of freedom.
func FisherCombined(pvals []float64) float64 {
	k := len(pvals)
	if k == 0 {
		return math.NaN()
	}
	x := 0.0
	for _, p := range pvals {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return math.NaN()
		}
		x += math.Log(p)
	}
	x *= -2
	chi := distuv.ChiSquared{K: float64(2 * k)}
	return chi.Survival(x)
}

// FisherPopulationCorrelation pools per-individual correlation
// coefficients into one population estimate, weighting each z-transform
// by its sample size, and tests the coefficients for homogeneity. A
// high homogeneity p-value means the coefficients are statistically
// consistent across individuals; it is a diagnostic, not a gate.
// With a single individual the pooled estimate is that coefficient and
// homogeneity is trivially 1.
func FisherPopulationCorrelation(rs []float64, ns []int) (rho, homogeneityP float64) {
	k := len(rs)
	if k == 0 || k != len(ns) {
		return math.NaN(), math.NaN()
	}
	if k == 1 {
		return rs[0], 1.0
	}

	zs := make([]float64, k)
	ws := make([]float64, k)
	var sumWZ, sumW float64
	for i, r := range rs {
		if math.IsNaN(r) || r >= 1 || r <= -1 || ns[i] < 4 {
			return math.NaN(), math.NaN()
		}
		zs[i] = math.Atanh(r)
		ws[i] = float64(ns[i] - 3)
		sumWZ += ws[i] * zs[i]
		sumW += ws[i]
	}
	zbar := sumWZ / sumW
	rho = math.Tanh(zbar)

	chiStat := 0.0
	for i := range zs {
		chiStat += ws[i] * (zs[i] - zbar) * (zs[i] - zbar)
	}
	chi := distuv.ChiSquared{K: float64(k - 1)}
	return rho, chi.Survival(chiStat)
}
