package table

import (
	"otusig/domain/core"
)

// Record holds the named metadata fields of a single sample.
type Record map[string]string

// Lookup returns the value of a field, failing if the field is absent
// from the record's key set. An empty value is a valid result; callers
// that want to exclude blanks do so themselves.
func (r Record) Lookup(field string) (string, error) {
	v, ok := r[field]
	if !ok {
		return "", core.NewMissingFieldError(field)
	}
	return v, nil
}

// Metadata maps sample ids to their parsed metadata records. Like Table
// it is immutable input: the grouper derives partitions from it but
// never mutates it.
type Metadata map[core.SampleID]Record

// Fields returns the key set of an arbitrary record. Mapping files are
// rectangular, so any record describes the shared header.
func (m Metadata) Fields() []string {
	for _, rec := range m {
		fields := make([]string, 0, len(rec))
		for k := range rec {
			fields = append(fields, k)
		}
		return fields
	}
	return nil
}
