package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortvid-pipeline/types"
)

func asn(start, end float64, url string) types.Assignment {
	return types.Assignment{
		Interval:   types.TimeInterval{Start: start, End: end},
		FootageURL: url,
	}
}

func TestMergeAllResolved(t *testing.T) {
	in := []types.Assignment{
		asn(0, 4, "a"),
		asn(4, 8, "b"),
	}
	assert.Equal(t, in, Merge(in))
}

func TestMergeInteriorGapRun(t *testing.T) {
	in := []types.Assignment{
		asn(0, 4, "a"),
		asn(4, 8, ""),
		asn(8, 12, ""),
		asn(12, 16, "b"),
	}
	want := []types.Assignment{
		asn(0, 12, "a"),
		asn(12, 16, "b"),
	}
	assert.Equal(t, want, Merge(in))
}

func TestMergeLeadingGapPreserved(t *testing.T) {
	in := []types.Assignment{
		asn(0, 4, ""),
		asn(4, 8, "a"),
	}
	want := []types.Assignment{
		asn(0, 4, ""),
		asn(4, 8, "a"),
	}
	assert.Equal(t, want, Merge(in))
}

func TestMergeAllGapsCollapseToOne(t *testing.T) {
	in := []types.Assignment{
		asn(0, 4, ""),
		asn(4, 8, ""),
		asn(8, 12, ""),
	}
	want := []types.Assignment{asn(0, 12, "")}
	assert.Equal(t, want, Merge(in))
}

func TestMergeEmptyInput(t *testing.T) {
	assert.Empty(t, Merge(nil))
	assert.Empty(t, Merge([]types.Assignment{}))
}

func TestMergeSingleElement(t *testing.T) {
	resolved := []types.Assignment{asn(0, 5, "a")}
	assert.Equal(t, resolved, Merge(resolved))

	gap := []types.Assignment{asn(0, 5, "")}
	assert.Equal(t, gap, Merge(gap))
}

func TestMergeNoAbsorbAcrossTemporalGap(t *testing.T) {
	// Previous resolved entry ends at 4 but the gap starts at 5; the run
	// must stay an explicit gap instead of being merged across the hole.
	in := []types.Assignment{
		asn(0, 4, "a"),
		asn(5, 8, ""),
		asn(8, 10, ""),
	}
	want := []types.Assignment{
		asn(0, 4, "a"),
		asn(5, 10, ""),
	}
	assert.Equal(t, want, Merge(in))
}

func TestMergeTrailingGapAbsorbed(t *testing.T) {
	in := []types.Assignment{
		asn(0, 4, "a"),
		asn(4, 9, ""),
	}
	want := []types.Assignment{asn(0, 9, "a")}
	assert.Equal(t, want, Merge(in))
}

func TestMergeIdempotent(t *testing.T) {
	cases := [][]types.Assignment{
		{asn(0, 4, "a"), asn(4, 8, ""), asn(8, 12, ""), asn(12, 16, "b")},
		{asn(0, 4, ""), asn(4, 8, "a"), asn(8, 12, "")},
		{asn(0, 4, ""), asn(4, 8, ""), asn(8, 12, "")},
		{asn(0, 4, "a")},
	}
	for _, in := range cases {
		once := Merge(in)
		twice := Merge(once)
		require.Equal(t, once, twice)
	}
}

func TestMergeNoAdjacentGapsInOutput(t *testing.T) {
	in := []types.Assignment{
		asn(0, 2, ""),
		asn(2, 4, ""),
		asn(4, 6, "a"),
		asn(6, 8, ""),
		asn(8, 10, "b"),
		asn(10, 12, ""),
		asn(12, 14, ""),
	}
	out := Merge(in)
	for i := 1; i < len(out); i++ {
		if !out[i-1].HasFootage() && !out[i].HasFootage() {
			t.Fatalf("adjacent unresolved entries at %d and %d: %+v", i-1, i, out)
		}
	}
}
