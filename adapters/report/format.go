// Package report renders runner results as tab-delimited tables: one
// fixed header line, then one line per feature in table row order.
// Whether a taxonomy column is emitted is decided once per call from
// the table, so every row of one table has the same shape.
package report

import (
	"strconv"
	"strings"

	"otusig/adapters/stats/engine"
	"otusig/domain/core"
	"otusig/domain/table"
)

// GroupSignificance formats group-test results. Group mean columns are
// labeled by the partition's labels, in partition order.
func GroupSignificance(t *table.Table, res *engine.GroupResult, fdr, bon []float64, labels []string) []string {
	header := []string{"OTU", "Test-Statistic", "P", "FDR_P", "Bonferroni_P"}
	for _, label := range labels {
		header = append(header, label+"_mean")
	}
	includeTaxonomy := t.HasTaxonomy()
	if includeTaxonomy {
		header = append(header, "Taxonomy")
	}

	lines := []string{strings.Join(header, "\t")}
	for i := range res.PValues {
		cells := []string{
			t.FeatureIDs[i].String(),
			formatFloat(res.Stats[i]),
			formatFloat(res.PValues[i]),
			formatFloat(fdr[i]),
			formatFloat(bon[i]),
		}
		for _, m := range res.Means[i] {
			cells = append(cells, formatFloat(m))
		}
		if includeTaxonomy {
			cells = append(cells, t.TaxonomyString(i))
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return lines
}

// Correlation formats gradient-correlation results.
func Correlation(t *table.Table, res *engine.CorrelationResult, pFDR, pBon, npFDR, npBon []float64) []string {
	header := []string{"OTU", "Correlation_Coef", "parametric_P", "parametric_P_FDR",
		"parametric_P_Bon", "nonparametric_P", "nonparametric_P_FDR",
		"nonparametric_P_Bon", "confidence_low", "confidence_high"}
	includeTaxonomy := t.HasTaxonomy()
	if includeTaxonomy {
		header = append(header, "Taxonomy")
	}

	lines := []string{strings.Join(header, "\t")}
	for i := range res.Coefs {
		cells := []string{
			t.FeatureIDs[i].String(),
			formatFloat(res.Coefs[i]),
			formatFloat(res.ParametricP[i]),
			formatFloat(pFDR[i]),
			formatFloat(pBon[i]),
			formatFloat(res.NonparametricP[i]),
			formatFloat(npFDR[i]),
			formatFloat(npBon[i]),
			formatFloat(res.CILow[i]),
			formatFloat(res.CIHigh[i]),
		}
		if includeTaxonomy {
			cells = append(cells, t.TaxonomyString(i))
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return lines
}

// Longitudinal formats pooled per-individual correlation results. The
// Individual Order column repeats the subject order the Corrcoefs list
// is aligned with.
func Longitudinal(t *table.Table, res *engine.LongitudinalResult, fdr, bon []float64, subjects []core.SubjectID) []string {
	header := []string{"OTU", "Fisher Combined Rho", "P Rho is Homogenous",
		"Fisher Combined P", "FDR P", "Bonferroni P", "Corrcoefs", "Individual Order"}
	includeTaxonomy := t.HasTaxonomy()
	if includeTaxonomy {
		header = append(header, "Taxonomy")
	}

	subjectNames := make([]string, len(subjects))
	for i, s := range subjects {
		subjectNames[i] = s.String()
	}
	indOrder := strings.Join(subjectNames, ", ")

	lines := []string{strings.Join(header, "\t")}
	for i := range res.CombinedP {
		coefs := make([]string, len(res.Coefs[i]))
		for j, r := range res.Coefs[i] {
			coefs[j] = formatFloat(r)
		}
		cells := []string{
			t.FeatureIDs[i].String(),
			formatFloat(res.PooledRho[i]),
			formatFloat(res.HomogeneityP[i]),
			formatFloat(res.CombinedP[i]),
			formatFloat(fdr[i]),
			formatFloat(bon[i]),
			strings.Join(coefs, ", "),
			indOrder,
		}
		if includeTaxonomy {
			cells = append(cells, t.TaxonomyString(i))
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return lines
}

// Paired formats paired-difference test results.
func Paired(t *table.Table, res *engine.PairedResult, fdr, bon []float64) []string {
	header := []string{"OTU", "Test-Statistic", "P", "FDR_P", "Bonferroni_P"}
	includeTaxonomy := t.HasTaxonomy()
	if includeTaxonomy {
		header = append(header, "Taxonomy")
	}

	lines := []string{strings.Join(header, "\t")}
	for i := range res.PValues {
		cells := []string{
			t.FeatureIDs[i].String(),
			formatFloat(res.Stats[i]),
			formatFloat(res.PValues[i]),
			formatFloat(fdr[i]),
			formatFloat(bon[i]),
		}
		if includeTaxonomy {
			cells = append(cells, t.TaxonomyString(i))
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return lines
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
