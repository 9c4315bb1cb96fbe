package report

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// SortByColumn re-orders a formatted table ascending by the numeric
// value of one column. The header line stays first. Cells that fail to
// parse as a number, or parse to NaN, sort after every valid value;
// ties keep their original relative order, which makes the sort
// idempotent.
func SortByColumn(lines []string, column int) []string {
	if len(lines) <= 1 {
		return lines
	}
	out := make([]string, len(lines))
	copy(out, lines)

	body := out[1:]
	sort.SliceStable(body, func(i, j int) bool {
		return sortKey(body[i], column) < sortKey(body[j], column)
	})
	return out
}

func sortKey(line string, column int) float64 {
	cells := strings.Split(line, "\t")
	if column < 0 || column >= len(cells) {
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(cells[column], 64)
	if err != nil || math.IsNaN(v) {
		return math.Inf(1)
	}
	return v
}
