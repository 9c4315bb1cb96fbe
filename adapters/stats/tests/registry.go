// Package tests implements the statistical tests the significance
// pipeline dispatches into. Heterogeneous test arities are normalized
// behind two tagged variants: GroupTest takes the full list of group
// arrays (plus a rep count and rng for the permutation-based kinds) and
// CorrelationTest takes two aligned vectors. Per-row numeric
// degeneracies (too few samples, zero variance) surface as NaN, never
// as panics, so a bad row shows up in its output cell instead of
// halting the run.
package tests

import (
	"math"
	"math/rand"

	"otusig/domain/core"
)

// GroupKind enumerates the group-significance tests.
type GroupKind int

const (
	ANOVA GroupKind = iota
	GTest
	KruskalWallis
	ParametricT
	NonparametricT
	MannWhitneyU
	BootstrapMannWhitneyU
)

// GroupTest is a group-significance test with a normalized signature.
type GroupTest struct {
	Kind GroupKind
	Name string
	// TwoGroupOnly tests receive exactly the first two group arrays.
	TwoGroupOnly bool
	// Permuted tests consume the rep count and rng; the rest ignore them.
	Permuted bool

	run func(groups [][]float64, reps int, rng *rand.Rand) (stat, p float64)
}

// Run applies the test to the group arrays.
func (t GroupTest) Run(groups [][]float64, reps int, rng *rand.Rand) (stat, p float64) {
	if t.TwoGroupOnly && len(groups) < 2 {
		return math.NaN(), math.NaN()
	}
	return t.run(groups, reps, rng)
}

var groupTests = []GroupTest{
	{Kind: ANOVA, Name: "ANOVA",
		run: func(g [][]float64, _ int, _ *rand.Rand) (float64, float64) { return anovaOneWay(g) }},
	{Kind: GTest, Name: "g_test",
		run: func(g [][]float64, _ int, _ *rand.Rand) (float64, float64) { return gFit(g) }},
	{Kind: KruskalWallis, Name: "kruskal_wallis",
		run: func(g [][]float64, _ int, _ *rand.Rand) (float64, float64) { return kruskalWallis(g) }},
	{Kind: ParametricT, Name: "parametric_t_test", TwoGroupOnly: true,
		run: func(g [][]float64, _ int, _ *rand.Rand) (float64, float64) { return tTwoSample(g[0], g[1]) }},
	{Kind: NonparametricT, Name: "nonparametric_t_test", TwoGroupOnly: true, Permuted: true,
		run: func(g [][]float64, reps int, rng *rand.Rand) (float64, float64) {
			return mcTTwoSample(g[0], g[1], reps, rng)
		}},
	{Kind: MannWhitneyU, Name: "mann_whitney_u", TwoGroupOnly: true,
		run: func(g [][]float64, _ int, _ *rand.Rand) (float64, float64) { return mannWhitneyU(g[0], g[1]) }},
	{Kind: BootstrapMannWhitneyU, Name: "bootstrap_mann_whitney_u", TwoGroupOnly: true, Permuted: true,
		run: func(g [][]float64, reps int, rng *rand.Rand) (float64, float64) {
			return mwBoot(g[0], g[1], reps, rng)
		}},
}

// GroupTestFor resolves a test name to its tagged variant.
func GroupTestFor(name string) (GroupTest, error) {
	for _, t := range groupTests {
		if t.Name == name {
			return t, nil
		}
	}
	return GroupTest{}, core.NewUnknownTestError(name)
}

// GroupTestNames lists the registered group tests.
func GroupTestNames() []string {
	names := make([]string, len(groupTests))
	for i, t := range groupTests {
		names[i] = t.Name
	}
	return names
}

// CorrelationKind enumerates the correlation tests.
type CorrelationKind int

const (
	Pearson CorrelationKind = iota
	Spearman
	Kendall
)

// CorrelationTest computes a correlation coefficient between two
// aligned vectors. RankBased tests supply their own parametric p-value;
// the others defer to ParametricCorrelationSignificance.
type CorrelationTest struct {
	Kind      CorrelationKind
	Name      string
	RankBased bool

	run func(x, y []float64) (r, p float64)
}

// Run returns the coefficient and, for RankBased tests, its own
// parametric p-value (NaN otherwise).
func (t CorrelationTest) Run(x, y []float64) (r, p float64) {
	return t.run(x, y)
}

// Coefficient returns only the coefficient.
func (t CorrelationTest) Coefficient(x, y []float64) float64 {
	r, _ := t.run(x, y)
	return r
}

var correlationTests = []CorrelationTest{
	{Kind: Pearson, Name: "pearson",
		run: func(x, y []float64) (float64, float64) { return pearsonR(x, y), math.NaN() }},
	{Kind: Spearman, Name: "spearman",
		run: func(x, y []float64) (float64, float64) { return spearmanRho(x, y), math.NaN() }},
	{Kind: Kendall, Name: "kendall", RankBased: true,
		run: kendallTau},
}

// CorrelationTestFor resolves a test name to its tagged variant.
func CorrelationTestFor(name string) (CorrelationTest, error) {
	for _, t := range correlationTests {
		if t.Name == name {
			return t, nil
		}
	}
	return CorrelationTest{}, core.NewUnknownTestError(name)
}

// CorrelationTestNames lists the registered correlation tests.
func CorrelationTestNames() []string {
	names := make([]string, len(correlationTests))
	for i, t := range correlationTests {
		names[i] = t.Name
	}
	return names
}
