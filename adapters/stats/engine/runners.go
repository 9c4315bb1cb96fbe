package engine

import (
	"context"
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"

	"otusig/adapters/stats/tests"
)

// DefaultReps is the permutation count for resampling-based tests.
const DefaultReps = 1000

// Options control the runner loops.
type Options struct {
	// Reps bounds the permutation-based tests; 0 means DefaultReps.
	Reps int
	// Seed is the base random seed. Each row derives its own rng from
	// (Seed, row index), so parallel runs reproduce sequential output.
	Seed int64
	// Workers bounds the parallel row loop; values below 2 run the
	// rows sequentially.
	Workers int
}

func (o Options) reps() int {
	if o.Reps > 0 {
		return o.Reps
	}
	return DefaultReps
}

func (o Options) workers() int64 {
	if o.Workers > 1 {
		return int64(o.Workers)
	}
	return 1
}

func (o Options) rowRng(i int) *rand.Rand {
	return rand.New(rand.NewSource(o.Seed + int64(i)))
}

// GroupResult holds parallel per-feature outputs of the
// group-significance runner. Means[i] has one entry per group, in
// partition order.
type GroupResult struct {
	Stats   []float64
	PValues []float64
	Means   [][]float64
}

// RunGroupSignificance applies a group test to every feature row.
// Rows are independent: each row's slice is independently owned and
// results land in pre-allocated slots by index, so the loop may fan out
// across workers without locking.
func RunGroupSignificance(ctx context.Context, rows *GroupRows, test tests.GroupTest, opts Options) (*GroupResult, error) {
	n := rows.Len()
	res := &GroupResult{
		Stats:   make([]float64, n),
		PValues: make([]float64, n),
		Means:   make([][]float64, n),
	}

	sem := semaphore.NewWeighted(opts.workers())
	for i := 0; ; i++ {
		groups, ok := rows.Next()
		if !ok {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		go func(i int, groups [][]float64) {
			defer sem.Release(1)
			rng := opts.rowRng(i)
			res.Stats[i], res.PValues[i] = test.Run(groups, opts.reps(), rng)
			res.Means[i] = groupMeans(groups)
		}(i, groups)
	}
	if err := sem.Acquire(ctx, opts.workers()); err != nil {
		return nil, err
	}
	return res, nil
}

// CorrelationResult holds parallel per-feature outputs of the
// correlation runner.
type CorrelationResult struct {
	Coefs          []float64
	ParametricP    []float64
	NonparametricP []float64
	CILow          []float64
	CIHigh         []float64
}

// RunCorrelation correlates every feature row against the gradient
// vector. The rank-based test supplies its own parametric p-value; the
// rest use the generic t-distribution formula. The nonparametric
// (permutation) p-value and the Fisher-z confidence interval are
// computed unconditionally.
func RunCorrelation(ctx context.Context, rows *CorrelationRows, test tests.CorrelationTest, opts Options) (*CorrelationResult, error) {
	n := rows.Len()
	res := &CorrelationResult{
		Coefs:          make([]float64, n),
		ParametricP:    make([]float64, n),
		NonparametricP: make([]float64, n),
		CILow:          make([]float64, n),
		CIHigh:         make([]float64, n),
	}

	sem := semaphore.NewWeighted(opts.workers())
	for i := 0; ; i++ {
		row, gradient, ok := rows.Next()
		if !ok {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		go func(i int, row, gradient []float64) {
			defer sem.Release(1)
			rng := opts.rowRng(i)
			r, exactP := test.Run(row, gradient)
			res.Coefs[i] = r
			if test.RankBased {
				res.ParametricP[i] = exactP
			} else {
				res.ParametricP[i] = tests.ParametricCorrelationSignificance(r, len(row))
			}
			res.NonparametricP[i] = tests.NonparametricCorrelationSignificance(r, test, row, gradient, opts.reps(), rng)
			res.CILow[i], res.CIHigh[i] = tests.FisherConfidenceIntervals(r, len(row))
		}(i, row, gradient)
	}
	if err := sem.Acquire(ctx, opts.workers()); err != nil {
		return nil, err
	}
	return res, nil
}

// LongitudinalResult holds parallel per-feature outputs of the
// longitudinal-correlation runner. Coefs[i] has one coefficient per
// subject, in subject order.
type LongitudinalResult struct {
	Coefs        [][]float64
	CombinedP    []float64
	PooledRho    []float64
	HomogeneityP []float64
}

// RunLongitudinal correlates each subject's series independently, then
// pools: subjects' p-values combine via Fisher's method and their
// coefficients pool into a population estimate with a homogeneity
// p-value.
func RunLongitudinal(ctx context.Context, rows *LongitudinalRows, test tests.CorrelationTest, opts Options) (*LongitudinalResult, error) {
	n := rows.Len()
	res := &LongitudinalResult{
		Coefs:        make([][]float64, n),
		CombinedP:    make([]float64, n),
		PooledRho:    make([]float64, n),
		HomogeneityP: make([]float64, n),
	}

	sem := semaphore.NewWeighted(opts.workers())
	for i := 0; ; i++ {
		obs, gradients, ok := rows.Next()
		if !ok {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		go func(i int, obs, gradients [][]float64) {
			defer sem.Release(1)
			rs := make([]float64, len(obs))
			pvals := make([]float64, len(obs))
			sizes := make([]int, len(obs))
			for s := range obs {
				r, exactP := test.Run(obs[s], gradients[s])
				rs[s] = r
				if test.RankBased {
					pvals[s] = exactP
				} else {
					pvals[s] = tests.ParametricCorrelationSignificance(r, len(obs[s]))
				}
				sizes[s] = len(obs[s])
			}
			res.Coefs[i] = rs
			res.CombinedP[i] = tests.FisherCombined(pvals)
			res.PooledRho[i], res.HomogeneityP[i] = tests.FisherPopulationCorrelation(rs, sizes)
		}(i, obs, gradients)
	}
	if err := sem.Acquire(ctx, opts.workers()); err != nil {
		return nil, err
	}
	return res, nil
}

// PairedResult holds parallel per-feature outputs of the paired runner.
type PairedResult struct {
	Stats   []float64
	PValues []float64
}

// RunPaired applies the paired-difference t-test to every feature row.
func RunPaired(ctx context.Context, rows *PairedRows, opts Options) (*PairedResult, error) {
	n := rows.Len()
	res := &PairedResult{
		Stats:   make([]float64, n),
		PValues: make([]float64, n),
	}

	sem := semaphore.NewWeighted(opts.workers())
	for i := 0; ; i++ {
		before, after, ok := rows.Next()
		if !ok {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		go func(i int, before, after []float64) {
			defer sem.Release(1)
			res.Stats[i], res.PValues[i] = tests.TPaired(before, after)
		}(i, before, after)
	}
	if err := sem.Acquire(ctx, opts.workers()); err != nil {
		return nil, err
	}
	return res, nil
}

// groupMeans computes the arithmetic mean of each group array, in
// group order. Degenerate groups report NaN rather than failing.
func groupMeans(groups [][]float64) []float64 {
	means := make([]float64, len(groups))
	for i, g := range groups {
		m, err := stats.Mean(g)
		if err != nil {
			m = math.NaN()
		}
		means[i] = m
	}
	return means
}
