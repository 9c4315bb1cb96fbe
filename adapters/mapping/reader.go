// Package mapping reads tab-delimited sample metadata files (QIIME
// mapping format): a header line beginning with #SampleID, then one
// line per sample. Later lines starting with # are comments.
package mapping

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"

	"otusig/domain/core"
	"otusig/domain/table"
)

// Reader loads a mapping file.
type Reader struct {
	filePath string
}

// NewReader creates a reader for the given file.
func NewReader(filePath string) *Reader {
	return &Reader{filePath: filePath}
}

// Read parses the file into Metadata.
func (r *Reader) Read() (table.Metadata, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	md, err := FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.filePath, err)
	}
	log.Printf("[MappingReader] %s: %d samples, %d fields", r.filePath, len(md), len(md.Fields()))
	return md, nil
}

// FromRows builds Metadata from raw string rows, header first.
func FromRows(rows [][]string) (table.Metadata, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("mapping file needs a header row and at least one sample row")
	}

	header := rows[0]
	if len(header) == 0 || !strings.HasPrefix(header[0], "#SampleID") {
		return nil, fmt.Errorf("mapping file header must begin with #SampleID")
	}
	fields := make([]string, len(header))
	copy(fields, header)
	fields[0] = strings.TrimPrefix(fields[0], "#")

	md := make(table.Metadata, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || strings.HasPrefix(row[0], "#") {
			continue
		}
		if len(row) != len(fields) {
			return nil, fmt.Errorf("sample row for %q has %d fields, header has %d", row[0], len(row), len(fields))
		}
		rec := make(table.Record, len(fields)-1)
		for i := 1; i < len(fields); i++ {
			rec[fields[i]] = row[i]
		}
		md[core.SampleID(row[0])] = rec
	}
	if len(md) == 0 {
		return nil, fmt.Errorf("mapping file has no sample rows")
	}
	return md, nil
}
