package group

import (
	"otusig/domain/core"
	"otusig/domain/table"
)

// SubjectGroup pairs an individual with its longitudinal samples, in
// the order the samples were categorized.
type SubjectGroup struct {
	Subject core.SubjectID
	Samples []core.SampleID
}

// SubjectGroups partitions samples by the individual they were taken
// from. Order of subjects is first-appearance order and is reported in
// the longitudinal output's Individual Order column.
type SubjectGroups []SubjectGroup

// SubjectPartition groups categorized samples by subject.
func SubjectPartition(cats Categories) SubjectGroups {
	pos := make(map[string]int)
	var sg SubjectGroups
	for _, c := range cats {
		i, seen := pos[c.Value]
		if !seen {
			i = len(sg)
			pos[c.Value] = i
			sg = append(sg, SubjectGroup{Subject: core.SubjectID(c.Value)})
		}
		sg[i].Samples = append(sg[i].Samples, c.Sample)
	}
	return sg
}

// Subjects returns the subject ids in partition order.
func (sg SubjectGroups) Subjects() []core.SubjectID {
	out := make([]core.SubjectID, len(sg))
	for i, g := range sg {
		out[i] = g.Subject
	}
	return out
}

// ColumnIndices resolves every subject's samples to table column
// positions, preserving both subject and sample order.
func (sg SubjectGroups) ColumnIndices(t *table.Table) ([][]int, error) {
	out := make([][]int, len(sg))
	for i, g := range sg {
		indices := make([]int, len(g.Samples))
		for j, sid := range g.Samples {
			idx, err := t.SampleIndex(sid)
			if err != nil {
				return nil, err
			}
			indices[j] = idx
		}
		out[i] = indices
	}
	return out, nil
}
