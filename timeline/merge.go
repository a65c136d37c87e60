package timeline

import "shortvid-pipeline/types"

// Merge repairs footage gaps in an assignment sequence. Consecutive
// unresolved entries are absorbed into the nearest preceding resolved
// assignment by extending its end time, but only when that assignment ends
// exactly where the gap starts; a gap with no contiguous predecessor (a
// leading gap in particular) is kept as one explicit unresolved entry
// spanning the whole run.
//
// Post-condition: no two adjacent output entries are both unresolved unless
// the entire input was. Merge is idempotent.
func Merge(assignments []types.Assignment) []types.Assignment {
	if len(assignments) == 0 {
		return nil
	}

	var merged []types.Assignment
	i := 0
	for i < len(assignments) {
		cur := assignments[i]
		if cur.HasFootage() {
			merged = append(merged, cur)
			i++
			continue
		}

		// Maximal run of unresolved entries [i, j)
		j := i + 1
		for j < len(assignments) && !assignments[j].HasFootage() {
			j++
		}
		runEnd := assignments[j-1].Interval.End

		if n := len(merged); n > 0 && merged[n-1].HasFootage() && merged[n-1].Interval.End == cur.Interval.Start {
			merged[n-1].Interval.End = runEnd
		} else {
			merged = append(merged, types.Assignment{
				Interval: types.TimeInterval{Start: cur.Interval.Start, End: runEnd},
			})
		}
		i = j
	}
	return merged
}
