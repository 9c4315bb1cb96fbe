// Package correction adjusts p-values for multiple testing. Both
// procedures take the full raw p-value slice, order-aligned with the
// feature rows, and return a slice in the same order and length.
package correction

import (
	"math"
	"sort"
)

// Bonferroni multiplies each p-value by the number of tests, capped at 1.
func Bonferroni(pvals []float64) []float64 {
	n := float64(len(pvals))
	out := make([]float64, len(pvals))
	for i, p := range pvals {
		adj := p * n
		if adj > 1 {
			adj = 1
		}
		out[i] = adj
	}
	return out
}

// BenjaminiHochberg computes FDR-adjusted p-values with the step-up
// procedure. NaN inputs stay NaN and rank after every valid value.
func BenjaminiHochberg(pvals []float64) []float64 {
	n := len(pvals)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := pvals[order[a]], pvals[order[b]]
		if math.IsNaN(pb) {
			return !math.IsNaN(pa)
		}
		if math.IsNaN(pa) {
			return false
		}
		return pa < pb
	})

	// Step up from the largest p, keeping the running minimum so
	// adjusted values stay monotone in rank.
	minAdj := math.Inf(1)
	for rank := n; rank >= 1; rank-- {
		idx := order[rank-1]
		p := pvals[idx]
		if math.IsNaN(p) {
			out[idx] = math.NaN()
			continue
		}
		adj := p * float64(n) / float64(rank)
		if adj < minAdj {
			minAdj = adj
		}
		if minAdj > 1 {
			out[idx] = 1
		} else {
			out[idx] = minAdj
		}
	}
	return out
}
