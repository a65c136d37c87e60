package footage

import (
	"context"
	"log"

	"shortvid-pipeline/types"
)

// AssignAll resolves footage for every timed query segment, in order. For
// each segment the queries are tried until one finds a clip; a segment
// whose queries all miss becomes a gap assignment, repaired later by the
// interval merger. Output order mirrors input order one-to-one.
//
// Segments run strictly sequentially: each search reads and extends the
// session used set, so the next segment must see the previous pick.
func AssignAll(ctx context.Context, scorer *Scorer, segments []types.QueryAssignment, orientation types.Orientation, used UsedSet) ([]types.Assignment, error) {
	out := make([]types.Assignment, 0, len(segments))
	for _, seg := range segments {
		var url string
		for _, q := range seg.Queries {
			found, err := scorer.FindBest(ctx, q, orientation, used)
			if err != nil {
				return nil, err
			}
			if found != "" {
				url = found
				break
			}
		}

		if url == "" {
			log.Printf("[footage] Warning: no suitable video for segment %.2f-%.2f", seg.Interval.Start, seg.Interval.End)
		}
		out = append(out, types.Assignment{Interval: seg.Interval, FootageURL: url})
	}
	return out, nil
}
