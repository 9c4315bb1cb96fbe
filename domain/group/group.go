// Package group derives sample partitions from parsed metadata. Group
// significance tests compare columns of the abundance table that share a
// metadata value, so the partition's group order must stay stable all
// the way to the per-group-mean columns of the output table. Partitions
// are therefore explicit ordered pair slices, never hash maps.
package group

import (
	"sort"

	"otusig/domain/core"
	"otusig/domain/table"
)

// Category pairs a sample id with its value for the chosen field.
type Category struct {
	Sample core.SampleID
	Value  string
}

// Categories is the ordered sample-to-value mapping for one field.
type Categories []Category

// SampleCategories resolves the chosen field for every sample in the
// metadata, in sorted sample-id order so runs are deterministic. Samples
// with an empty value are excluded. Fails if the field is absent from
// any record's key set.
func SampleCategories(md table.Metadata, field string) (Categories, error) {
	ids := make([]core.SampleID, 0, len(md))
	for sid := range md {
		ids = append(ids, sid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	cats := make(Categories, 0, len(ids))
	for _, sid := range ids {
		v, err := md[sid].Lookup(field)
		if err != nil {
			return nil, err
		}
		if v == "" {
			continue
		}
		cats = append(cats, Category{Sample: sid, Value: v})
	}
	return cats, nil
}

// Group is one partition cell: a label and the samples sharing it.
type Group struct {
	Label   string
	Samples []core.SampleID
}

// Partition maps group labels to their samples, in first-appearance
// order of the labels. Every categorized sample appears in exactly one
// group; empty groups cannot occur since groups are only created on
// first sight of a label.
type Partition []Group

// GroupPartition inverts the sample-to-value mapping.
func GroupPartition(cats Categories) Partition {
	pos := make(map[string]int)
	var p Partition
	for _, c := range cats {
		i, seen := pos[c.Value]
		if !seen {
			i = len(p)
			pos[c.Value] = i
			p = append(p, Group{Label: c.Value})
		}
		p[i].Samples = append(p[i].Samples, c.Sample)
	}
	return p
}

// Labels returns the group labels in partition order.
func (p Partition) Labels() []string {
	labels := make([]string, len(p))
	for i, g := range p {
		labels[i] = g.Label
	}
	return labels
}

// IndexGroup is a partition cell with samples replaced by their column
// positions in the table.
type IndexGroup struct {
	Label   string
	Indices []int
}

// IndexPartition is the column-index form of a Partition. Its group
// order is the Partition's and is what downstream result columns are
// labeled by.
type IndexPartition []IndexGroup

// ColumnIndexPartition resolves each sample in the partition to its
// column position. Fails if any sample id is not a table column.
func ColumnIndexPartition(p Partition, t *table.Table) (IndexPartition, error) {
	ip := make(IndexPartition, len(p))
	for i, g := range p {
		indices := make([]int, len(g.Samples))
		for j, sid := range g.Samples {
			idx, err := t.SampleIndex(sid)
			if err != nil {
				return nil, err
			}
			indices[j] = idx
		}
		ip[i] = IndexGroup{Label: g.Label, Indices: indices}
	}
	return ip, nil
}

// Labels returns the group labels in partition order.
func (p IndexPartition) Labels() []string {
	labels := make([]string, len(p))
	for i, g := range p {
		labels[i] = g.Label
	}
	return labels
}
