// Package biom reads BIOM format 1.0 JSON tables into domain tables.
// Both dense and sparse matrix encodings are supported; observation
// taxonomy metadata is carried over when present.
package biom

import (
	"fmt"
	"log"
	"os"

	"github.com/tidwall/gjson"

	"otusig/domain/core"
	"otusig/domain/table"
)

// Reader loads a BIOM 1.0 JSON file.
type Reader struct {
	filePath string
}

// NewReader creates a reader for the given file.
func NewReader(filePath string) *Reader {
	return &Reader{filePath: filePath}
}

// Read parses the file into a Table.
func (r *Reader) Read() (*table.Table, error) {
	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read biom file: %w", err)
	}
	t, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.filePath, err)
	}
	log.Printf("[BiomReader] %s: %d features x %d samples", r.filePath, t.FeatureCount(), t.SampleCount())
	return t, nil
}

// Parse builds a Table from BIOM 1.0 JSON bytes.
func Parse(raw []byte) (*table.Table, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("not valid JSON")
	}
	doc := gjson.ParseBytes(raw)

	shape := doc.Get("shape").Array()
	if len(shape) != 2 {
		return nil, fmt.Errorf("missing or malformed shape")
	}
	nRows, nCols := int(shape[0].Int()), int(shape[1].Int())

	rowsMeta := doc.Get("rows").Array()
	colsMeta := doc.Get("columns").Array()
	if len(rowsMeta) != nRows || len(colsMeta) != nCols {
		return nil, fmt.Errorf("shape [%d %d] disagrees with %d rows and %d columns",
			nRows, nCols, len(rowsMeta), len(colsMeta))
	}

	featureIDs := make([]core.FeatureID, nRows)
	var taxonomy [][]string
	for i, row := range rowsMeta {
		featureIDs[i] = core.FeatureID(row.Get("id").String())
		tax := row.Get("metadata.taxonomy")
		if tax.Exists() {
			if taxonomy == nil {
				taxonomy = make([][]string, nRows)
			}
			for _, lvl := range tax.Array() {
				taxonomy[i] = append(taxonomy[i], lvl.String())
			}
		}
	}

	sampleIDs := make([]core.SampleID, nCols)
	for j, col := range colsMeta {
		sampleIDs[j] = core.SampleID(col.Get("id").String())
	}

	data := make([][]float64, nRows)
	for i := range data {
		data[i] = make([]float64, nCols)
	}

	entries := doc.Get("data").Array()
	switch mt := doc.Get("matrix_type").String(); mt {
	case "dense":
		if len(entries) != nRows {
			return nil, fmt.Errorf("dense data has %d rows, expected %d", len(entries), nRows)
		}
		for i, rowVals := range entries {
			vals := rowVals.Array()
			if len(vals) != nCols {
				return nil, fmt.Errorf("dense row %d has %d values, expected %d", i, len(vals), nCols)
			}
			for j, v := range vals {
				data[i][j] = v.Float()
			}
		}
	case "sparse":
		for _, entry := range entries {
			triple := entry.Array()
			if len(triple) != 3 {
				return nil, fmt.Errorf("sparse entry has %d elements, expected 3", len(triple))
			}
			i, j := int(triple[0].Int()), int(triple[1].Int())
			if i < 0 || i >= nRows || j < 0 || j >= nCols {
				return nil, fmt.Errorf("sparse entry [%d %d] outside shape [%d %d]", i, j, nRows, nCols)
			}
			data[i][j] = triple[2].Float()
		}
	default:
		return nil, fmt.Errorf("unsupported matrix_type %q", mt)
	}

	return table.New(featureIDs, sampleIDs, data, taxonomy)
}
