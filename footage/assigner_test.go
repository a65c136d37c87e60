package footage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortvid-pipeline/types"
)

func seg(start, end float64, qs ...string) types.QueryAssignment {
	return types.QueryAssignment{
		Interval: types.TimeInterval{Start: start, End: end},
		Queries:  qs,
	}
}

func TestAssignAllFirstSuccessStops(t *testing.T) {
	scorer, queries := newTestScorer(t, map[string][]Video{
		"ocean": {{Width: 1920, Height: 1080, Duration: 15, VideoFiles: []VideoFile{hdFile(1920, 1080, "ocean.hd.mp4")}}},
	})

	out, err := AssignAll(context.Background(), scorer,
		[]types.QueryAssignment{seg(0, 4, "ocean", "waves")},
		types.Landscape, NewUsedSet())
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "ocean.hd.mp4", out[0].FootageURL)
	// The second query for the segment is never issued
	assert.Equal(t, []string{"ocean"}, *queries)
}

func TestAssignAllGapOnExhaustedQueries(t *testing.T) {
	scorer, _ := newTestScorer(t, map[string][]Video{
		"forest": {{Width: 1920, Height: 1080, Duration: 15, VideoFiles: []VideoFile{hdFile(1920, 1080, "forest.hd.mp4")}}},
	})

	out, err := AssignAll(context.Background(), scorer,
		[]types.QueryAssignment{
			seg(0, 4, "nothing-matches", "still-nothing"),
			seg(4, 8, "forest"),
		},
		types.Landscape, NewUsedSet())
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Output mirrors input order one-to-one; the miss is a gap, not an error
	assert.False(t, out[0].HasFootage())
	assert.Equal(t, types.TimeInterval{Start: 0, End: 4}, out[0].Interval)
	assert.Equal(t, "forest.hd.mp4", out[1].FootageURL)
}

func TestAssignAllEmptyQueryListIsGap(t *testing.T) {
	scorer, queries := newTestScorer(t, nil)

	out, err := AssignAll(context.Background(), scorer,
		[]types.QueryAssignment{seg(0, 4)},
		types.Landscape, NewUsedSet())
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.False(t, out[0].HasFootage())
	assert.Empty(t, *queries) // no search issued for an empty query list
}

func TestAssignAllNoClipReusedAcrossSegments(t *testing.T) {
	shared := []Video{
		{Width: 1920, Height: 1080, Duration: 15, VideoFiles: []VideoFile{hdFile(1920, 1080, "one.hd.mp4")}},
		{Width: 1920, Height: 1080, Duration: 14, VideoFiles: []VideoFile{hdFile(1920, 1080, "two.hd.mp4")}},
	}
	scorer, _ := newTestScorer(t, map[string][]Video{"city": shared})

	out, err := AssignAll(context.Background(), scorer,
		[]types.QueryAssignment{
			seg(0, 4, "city"),
			seg(4, 8, "city"),
		},
		types.Landscape, NewUsedSet())
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.True(t, out[0].HasFootage())
	require.True(t, out[1].HasFootage())
	assert.NotEqual(t, FileKey(out[0].FootageURL), FileKey(out[1].FootageURL))
}
