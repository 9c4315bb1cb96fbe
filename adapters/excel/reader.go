// Package excel reads sample metadata kept in spreadsheets, for
// mapping data that is maintained in Excel rather than exported to a
// tab-delimited file. The first sheet row is the header; the first
// column holds sample ids.
package excel

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"otusig/domain/core"
	"otusig/domain/table"
)

// MetadataReader handles reading sample metadata from .xlsx files.
type MetadataReader struct {
	filePath string
}

// NewMetadataReader creates a new metadata reader.
func NewMetadataReader(filePath string) *MetadataReader {
	return &MetadataReader{filePath: filePath}
}

// Read reads metadata records from the first sheet of the workbook.
func (r *MetadataReader) Read() (table.Metadata, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("excel file not found: %s", r.filePath)
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	log.Printf("[MetadataReader] %s read in %.2fms (%d rows)",
		r.filePath, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into metadata records.
func (r *MetadataReader) processRows(rows [][]string) (table.Metadata, error) {
	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("header row needs a sample id column and at least one field")
	}

	md := make(table.Metadata, len(rows)-1)
	for rowNum, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		rec := make(table.Record, len(header)-1)
		for i := 1; i < len(header); i++ {
			// GetRows trims trailing empty cells; absent means blank
			if i < len(row) {
				rec[header[i]] = row[i]
			} else {
				rec[header[i]] = ""
			}
		}
		sid := core.SampleID(row[0])
		if _, dup := md[sid]; dup {
			return nil, fmt.Errorf("duplicate sample id %q at row %d", sid, rowNum+2)
		}
		md[sid] = rec
	}
	if len(md) == 0 {
		return nil, fmt.Errorf("Excel file has no sample rows")
	}
	return md, nil
}
