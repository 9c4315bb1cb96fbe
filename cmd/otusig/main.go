package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"otusig/adapters/biom"
	"otusig/adapters/excel"
	"otusig/adapters/mapping"
	"otusig/app"
	"otusig/domain/core"
	"otusig/domain/table"
	"otusig/internal/config"
)

func sampleIDs(ids []string) []core.SampleID {
	out := make([]core.SampleID, len(ids))
	for i, s := range ids {
		out[i] = core.SampleID(s)
	}
	return out
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "otusig",
		Short: "Per-feature statistical significance for abundance tables",
		Long: `otusig tests each feature (OTU) of an abundance table against sample
metadata: categorical groupings (group significance), numeric gradients
(correlation, with a longitudinal variant), and paired before/after designs.`,
	}

	rootCmd.AddCommand(
		newGroupCmd(),
		newCorrelationCmd(),
		newLongitudinalCmd(),
		newPairedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	tablePath   string
	mappingPath string
	category    string
	test        string
	reps        int
	seed        int64
	workers     int
	sortBy      int
	output      string
}

func (f *commonFlags) register(cmd *cobra.Command, defaultTest string) {
	cfg := config.Load()
	cmd.Flags().StringVar(&f.tablePath, "table", "", "BIOM 1.0 JSON abundance table (required)")
	cmd.Flags().StringVar(&f.mappingPath, "mapping", "", "sample metadata: mapping .txt/.tsv or .xlsx (required)")
	cmd.Flags().StringVar(&f.category, "category", "", "metadata field to group or correlate by (required)")
	cmd.Flags().StringVar(&f.test, "test", defaultTest, "statistical test to apply")
	cmd.Flags().IntVar(&f.reps, "reps", cfg.Runner.Reps, "permutations for resampling-based tests")
	cmd.Flags().Int64Var(&f.seed, "seed", cfg.Runner.Seed, "random seed for deterministic permutation output")
	cmd.Flags().IntVar(&f.workers, "workers", cfg.Runner.Workers, "parallel row workers")
	cmd.Flags().IntVar(&f.sortBy, "sort-by", 2, "output column to rank by, ascending; -1 keeps row order")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("mapping")
}

func (f *commonFlags) load() (*table.Table, table.Metadata, error) {
	t, err := biom.NewReader(f.tablePath).Read()
	if err != nil {
		return nil, nil, err
	}
	var md table.Metadata
	if strings.EqualFold(filepath.Ext(f.mappingPath), ".xlsx") {
		md, err = excel.NewMetadataReader(f.mappingPath).Read()
	} else {
		md, err = mapping.NewReader(f.mappingPath).Read()
	}
	if err != nil {
		return nil, nil, err
	}
	return t, md, nil
}

func (f *commonFlags) request(t *table.Table, md table.Metadata) app.Request {
	return app.Request{
		Table:    t,
		Metadata: md,
		Category: f.category,
		Test:     f.test,
		Reps:     f.reps,
		Seed:     f.seed,
		Workers:  f.workers,
		SortBy:   f.sortBy,
	}
}

func (f *commonFlags) write(res *app.Result) error {
	out := strings.Join(res.Lines, "\n") + "\n"
	if f.output == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(f.output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d features to %s (run %s, %dms)\n",
		res.Features, f.output, res.RunID, res.RuntimeMs)
	return nil
}

func newGroupCmd() *cobra.Command {
	var flags commonFlags
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Group significance: compare feature abundance across metadata groups",
		Example: `  otusig group --table otus.biom --mapping map.txt --category Treatment --test ANOVA
  otusig group --table otus.biom --mapping map.xlsx --category Dosage --test mann_whitney_u`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, md, err := flags.load()
			if err != nil {
				return err
			}
			res, err := app.NewSignificanceService().RunGroupSignificance(cmd.Context(), flags.request(t, md))
			if err != nil {
				return err
			}
			return flags.write(res)
		},
	}
	flags.register(cmd, "ANOVA")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newCorrelationCmd() *cobra.Command {
	var flags commonFlags
	cmd := &cobra.Command{
		Use:   "correlation",
		Short: "Correlate each feature with a numeric metadata gradient",
		Example: `  otusig correlation --table otus.biom --mapping map.txt --category pH --test spearman`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, md, err := flags.load()
			if err != nil {
				return err
			}
			res, err := app.NewSignificanceService().RunCorrelation(cmd.Context(), flags.request(t, md))
			if err != nil {
				return err
			}
			return flags.write(res)
		},
	}
	flags.register(cmd, "pearson")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newLongitudinalCmd() *cobra.Command {
	var flags commonFlags
	var individual string
	cmd := &cobra.Command{
		Use:   "longitudinal",
		Short: "Per-individual gradient correlation, pooled across individuals",
		Example: `  otusig longitudinal --table otus.biom --mapping map.txt --category DaysSinceStart --individual Subject`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, md, err := flags.load()
			if err != nil {
				return err
			}
			res, err := app.NewSignificanceService().RunLongitudinal(cmd.Context(), flags.request(t, md), individual)
			if err != nil {
				return err
			}
			return flags.write(res)
		},
	}
	flags.register(cmd, "pearson")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&individual, "individual", "", "metadata field identifying the individual (required)")
	_ = cmd.MarkFlagRequired("individual")
	return cmd
}

func newPairedCmd() *cobra.Command {
	var flags commonFlags
	var before, after []string
	cmd := &cobra.Command{
		Use:   "paired",
		Short: "Paired t-test on aligned before/after sample lists",
		Example: `  otusig paired --table otus.biom --mapping map.txt --before s1,s2,s3 --after s4,s5,s6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, md, err := flags.load()
			if err != nil {
				return err
			}
			req := app.PairedRequest{
				Request: flags.request(t, md),
				Before:  sampleIDs(before),
				After:   sampleIDs(after),
			}
			res, err := app.NewSignificanceService().RunPaired(cmd.Context(), req)
			if err != nil {
				return err
			}
			return flags.write(res)
		},
	}
	flags.register(cmd, "")
	cmd.Flags().StringSliceVar(&before, "before", nil, "comma-separated before samples, aligned with --after")
	cmd.Flags().StringSliceVar(&after, "after", nil, "comma-separated after samples, aligned with --before")
	_ = cmd.MarkFlagRequired("before")
	_ = cmd.MarkFlagRequired("after")
	return cmd
}
