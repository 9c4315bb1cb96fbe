package app

import (
	"context"
	"fmt"
	"time"

	"otusig/adapters/report"
	"otusig/adapters/stats/engine"
	"otusig/adapters/stats/tests"
	"otusig/domain/core"
	"otusig/domain/group"
	"otusig/domain/table"
	"otusig/internal/correction"
)

// SignificanceService orchestrates a full significance run: partition
// the samples, stream row slices through the selected test, correct the
// raw p-values (FDR and Bonferroni), format the table, and optionally
// rank-sort it. Fatal errors abort with no partial output; per-row
// degeneracies end up as NaN cells in the table.
type SignificanceService struct{}

// NewSignificanceService creates a significance service.
func NewSignificanceService() *SignificanceService {
	return &SignificanceService{}
}

// Request defines the inputs shared by every test family.
type Request struct {
	Table    *table.Table
	Metadata table.Metadata
	Category string // metadata field to group or correlate by
	Test     string // test name, resolved against the registry
	Reps     int    // permutation count, 0 means the default
	Seed     int64
	Workers  int
	SortBy   int // output column to rank by; negative disables sorting
}

// PairedRequest additionally carries the aligned sample lists.
type PairedRequest struct {
	Request
	Before []core.SampleID
	After  []core.SampleID
}

// Result contains the formatted table plus audit metadata.
type Result struct {
	RunID     core.RunID `json:"run_id"`
	Test      string     `json:"test"`
	Features  int        `json:"features"`
	Groups    []string   `json:"groups,omitempty"`
	Reps      int        `json:"reps"`
	Seed      int64      `json:"seed"`
	RuntimeMs int64      `json:"runtime_ms"`
	Lines     []string   `json:"-"`
}

func (r Request) options() engine.Options {
	return engine.Options{Reps: r.Reps, Seed: r.Seed, Workers: r.Workers}
}

func (r Request) finish(lines []string, started time.Time, test string, groups []string) *Result {
	if r.SortBy >= 0 {
		lines = report.SortByColumn(lines, r.SortBy)
	}
	return &Result{
		RunID:     core.RunID(core.NewID()),
		Test:      test,
		Features:  len(lines) - 1,
		Groups:    groups,
		Reps:      r.Reps,
		Seed:      r.Seed,
		RuntimeMs: time.Since(started).Milliseconds(),
		Lines:     lines,
	}
}

// RunGroupSignificance runs a group test across the category's partition.
func (s *SignificanceService) RunGroupSignificance(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	test, err := tests.GroupTestFor(req.Test)
	if err != nil {
		return nil, err
	}
	cats, err := group.SampleCategories(req.Metadata, req.Category)
	if err != nil {
		return nil, err
	}
	partition, err := group.ColumnIndexPartition(group.GroupPartition(cats), req.Table)
	if err != nil {
		return nil, err
	}
	if test.TwoGroupOnly && len(partition) != 2 {
		return nil, fmt.Errorf("test %q needs exactly 2 groups, category %q has %d",
			req.Test, req.Category, len(partition))
	}

	rows := engine.NewGroupRows(req.Table, partition)
	res, err := engine.RunGroupSignificance(ctx, rows, test, req.options())
	if err != nil {
		return nil, err
	}

	fdr := correction.BenjaminiHochberg(res.PValues)
	bon := correction.Bonferroni(res.PValues)
	lines := report.GroupSignificance(req.Table, res, fdr, bon, partition.Labels())
	return req.finish(lines, started, req.Test, partition.Labels()), nil
}

// RunCorrelation correlates every feature against the category's
// numeric gradient.
func (s *SignificanceService) RunCorrelation(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	test, err := tests.CorrelationTestFor(req.Test)
	if err != nil {
		return nil, err
	}
	rows, err := engine.NewCorrelationRows(req.Table, req.Metadata, req.Category)
	if err != nil {
		return nil, err
	}
	res, err := engine.RunCorrelation(ctx, rows, test, req.options())
	if err != nil {
		return nil, err
	}

	pFDR := correction.BenjaminiHochberg(res.ParametricP)
	pBon := correction.Bonferroni(res.ParametricP)
	npFDR := correction.BenjaminiHochberg(res.NonparametricP)
	npBon := correction.Bonferroni(res.NonparametricP)
	lines := report.Correlation(req.Table, res, pFDR, pBon, npFDR, npBon)
	return req.finish(lines, started, req.Test, nil), nil
}

// RunLongitudinal correlates each individual's series against the
// category gradient and pools the per-individual estimates. The
// individual field partitions samples by subject.
func (s *SignificanceService) RunLongitudinal(ctx context.Context, req Request, individualField string) (*Result, error) {
	started := time.Now()

	test, err := tests.CorrelationTestFor(req.Test)
	if err != nil {
		return nil, err
	}
	cats, err := group.SampleCategories(req.Metadata, individualField)
	if err != nil {
		return nil, err
	}
	subjects := group.SubjectPartition(cats)
	rows, err := engine.NewLongitudinalRows(req.Table, req.Metadata, req.Category, subjects)
	if err != nil {
		return nil, err
	}
	res, err := engine.RunLongitudinal(ctx, rows, test, req.options())
	if err != nil {
		return nil, err
	}

	fdr := correction.BenjaminiHochberg(res.CombinedP)
	bon := correction.Bonferroni(res.CombinedP)
	lines := report.Longitudinal(req.Table, res, fdr, bon, subjects.Subjects())

	names := make([]string, len(subjects))
	for i, sg := range subjects {
		names[i] = sg.Subject.String()
	}
	return req.finish(lines, started, req.Test, names), nil
}

// RunPaired runs the paired-difference test on aligned before/after
// sample lists.
func (s *SignificanceService) RunPaired(ctx context.Context, req PairedRequest) (*Result, error) {
	started := time.Now()

	rows, err := engine.NewPairedRows(req.Table, req.Before, req.After)
	if err != nil {
		return nil, err
	}
	res, err := engine.RunPaired(ctx, rows, req.options())
	if err != nil {
		return nil, err
	}

	fdr := correction.BenjaminiHochberg(res.PValues)
	bon := correction.Bonferroni(res.PValues)
	lines := report.Paired(req.Table, res, fdr, bon)
	return req.finish(lines, started, "paired_t", nil), nil
}
