package tests

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// anovaOneWay computes the one-way F statistic across all groups with
// its F-distribution p-value.
func anovaOneWay(groups [][]float64) (float64, float64) {
	k := len(groups)
	total := 0
	grandSum := 0.0
	for _, g := range groups {
		total += len(g)
		for _, v := range g {
			grandSum += v
		}
	}
	if k < 2 || total <= k {
		return math.NaN(), math.NaN()
	}
	grandMean := grandSum / float64(total)

	var ssBetween, ssWithin float64
	for _, g := range groups {
		m := stat.Mean(g, nil)
		ssBetween += float64(len(g)) * (m - grandMean) * (m - grandMean)
		for _, v := range g {
			ssWithin += (v - m) * (v - m)
		}
	}

	dfBetween := float64(k - 1)
	dfWithin := float64(total - k)
	if ssWithin == 0 {
		return math.NaN(), math.NaN()
	}
	f := (ssBetween / dfBetween) / (ssWithin / dfWithin)
	fDist := distuv.F{D1: dfBetween, D2: dfWithin}
	return f, fDist.Survival(f)
}

// gFit computes a goodness-of-fit G statistic over group sums with
// Williams' correction, expected counts proportional to group sizes.
func gFit(groups [][]float64) (float64, float64) {
	k := len(groups)
	if k < 2 {
		return math.NaN(), math.NaN()
	}
	sums := make([]float64, k)
	sizes := make([]float64, k)
	total, n := 0.0, 0.0
	for i, g := range groups {
		for _, v := range g {
			sums[i] += v
		}
		sizes[i] = float64(len(g))
		total += sums[i]
		n += sizes[i]
	}
	if total == 0 || n == 0 {
		return math.NaN(), math.NaN()
	}

	g := 0.0
	for i := range sums {
		expected := total * sizes[i] / n
		if expected == 0 {
			return math.NaN(), math.NaN()
		}
		if sums[i] > 0 {
			g += sums[i] * math.Log(sums[i]/expected)
		}
	}
	g *= 2

	// Williams' correction
	q := 1 + (float64(k)+1)/(6*total*float64(k-1))
	g /= q

	chi := distuv.ChiSquared{K: float64(k - 1)}
	return g, chi.Survival(g)
}

// kruskalWallis computes the tie-corrected H statistic over pooled
// ranks with its chi-squared p-value.
func kruskalWallis(groups [][]float64) (float64, float64) {
	k := len(groups)
	if k < 2 {
		return math.NaN(), math.NaN()
	}
	var pooled []float64
	for _, g := range groups {
		pooled = append(pooled, g...)
	}
	n := len(pooled)
	if n < 2 {
		return math.NaN(), math.NaN()
	}
	ranks := rankData(pooled)

	h := 0.0
	offset := 0
	for _, g := range groups {
		if len(g) == 0 {
			return math.NaN(), math.NaN()
		}
		rankSum := 0.0
		for i := range g {
			rankSum += ranks[offset+i]
		}
		h += rankSum * rankSum / float64(len(g))
		offset += len(g)
	}
	nf := float64(n)
	h = 12/(nf*(nf+1))*h - 3*(nf+1)

	// Tie correction
	correction := 1 - tieSum(pooled)/(nf*nf*nf-nf)
	if correction == 0 {
		return math.NaN(), math.NaN()
	}
	h /= correction

	chi := distuv.ChiSquared{K: float64(k - 1)}
	return h, chi.Survival(h)
}

// tTwoSample computes the pooled-variance two-sample t statistic with a
// two-tailed p-value from the t distribution.
func tTwoSample(a, b []float64) (float64, float64) {
	na, nb := float64(len(a)), float64(len(b))
	if na < 2 || nb < 2 {
		return math.NaN(), math.NaN()
	}
	meanA, meanB := stat.Mean(a, nil), stat.Mean(b, nil)
	varA, varB := stat.Variance(a, nil), stat.Variance(b, nil)

	df := na + nb - 2
	pooled := ((na-1)*varA + (nb-1)*varB) / df
	se := math.Sqrt(pooled * (1/na + 1/nb))
	if se == 0 {
		return math.NaN(), math.NaN()
	}
	t := (meanA - meanB) / se
	return t, twoTailedT(t, df)
}

// mcTTwoSample computes the two-sample t statistic and a Monte Carlo
// p-value from permuting group labels.
func mcTTwoSample(a, b []float64, reps int, rng *rand.Rand) (float64, float64) {
	t, _ := tTwoSample(a, b)
	if math.IsNaN(t) || reps <= 0 {
		return t, math.NaN()
	}
	pooled := append(append([]float64{}, a...), b...)
	count := 0
	for i := 0; i < reps; i++ {
		rng.Shuffle(len(pooled), func(x, y int) { pooled[x], pooled[y] = pooled[y], pooled[x] })
		pt, _ := tTwoSample(pooled[:len(a)], pooled[len(a):])
		if math.Abs(pt) >= math.Abs(t) {
			count++
		}
	}
	return t, float64(count) / float64(reps)
}

// mannWhitneyU computes the larger U statistic with a tie-corrected
// normal-approximation two-tailed p-value.
func mannWhitneyU(a, b []float64) (float64, float64) {
	u := uStatistic(a, b)
	na, nb := float64(len(a)), float64(len(b))
	if na == 0 || nb == 0 {
		return math.NaN(), math.NaN()
	}
	n := na + nb

	mu := na * nb / 2
	pooled := append(append([]float64{}, a...), b...)
	sigma := math.Sqrt(na * nb / 12 * ((n + 1) - tieSum(pooled)/(n*(n-1))))
	if sigma == 0 {
		return u, math.NaN()
	}
	z := (u - mu) / sigma
	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}
	return u, p
}

// mwBoot computes the larger U statistic with a permutation p-value
// from reps label shuffles.
func mwBoot(a, b []float64, reps int, rng *rand.Rand) (float64, float64) {
	u := uStatistic(a, b)
	if math.IsNaN(u) || reps <= 0 {
		return u, math.NaN()
	}
	pooled := append(append([]float64{}, a...), b...)
	count := 0
	for i := 0; i < reps; i++ {
		rng.Shuffle(len(pooled), func(x, y int) { pooled[x], pooled[y] = pooled[y], pooled[x] })
		if uStatistic(pooled[:len(a)], pooled[len(a):]) >= u {
			count++
		}
	}
	return u, float64(count) / float64(reps)
}

// uStatistic returns the larger of the two Mann-Whitney U values.
func uStatistic(a, b []float64) float64 {
	na, nb := float64(len(a)), float64(len(b))
	if na == 0 || nb == 0 {
		return math.NaN()
	}
	pooled := append(append([]float64{}, a...), b...)
	ranks := rankData(pooled)
	rankSumA := 0.0
	for i := range a {
		rankSumA += ranks[i]
	}
	u1 := rankSumA - na*(na+1)/2
	u2 := na*nb - u1
	return math.Max(u1, u2)
}

// TPaired computes the paired-difference t statistic on two aligned
// arrays with a two-tailed p-value.
func TPaired(before, after []float64) (float64, float64) {
	n := len(before)
	if n != len(after) || n < 2 {
		return math.NaN(), math.NaN()
	}
	diffs := make([]float64, n)
	for i := range before {
		diffs[i] = after[i] - before[i]
	}
	mean := stat.Mean(diffs, nil)
	sd := math.Sqrt(stat.Variance(diffs, nil))
	if sd == 0 {
		return math.NaN(), math.NaN()
	}
	t := mean / (sd / math.Sqrt(float64(n)))
	return t, twoTailedT(t, float64(n-1))
}

// twoTailedT returns the two-tailed p-value of t under df degrees of freedom.
func twoTailedT(t, df float64) float64 {
	if df <= 0 || math.IsNaN(t) {
		return math.NaN()
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * tDist.Survival(math.Abs(t))
	if p > 1 {
		p = 1
	}
	return p
}

// tieSum computes sum(t^3 - t) over tie groups, shared by the
// rank-based tests' tie corrections.
func tieSum(data []float64) float64 {
	counts := make(map[float64]float64, len(data))
	for _, v := range data {
		counts[v]++
	}
	sum := 0.0
	for _, t := range counts {
		if t > 1 {
			sum += t*t*t - t
		}
	}
	return sum
}
