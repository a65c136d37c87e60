package captions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(text string, start, end float64) whisperWord {
	return whisperWord{Word: text, Start: start, End: end}
}

func TestGroupWordsChunks(t *testing.T) {
	words := []whisperWord{
		word(" The", 0.0, 0.2),
		word(" quick", 0.2, 0.5),
		word(" brown", 0.5, 0.9),
		word(" fox", 0.9, 1.3),
		word(" jumps", 1.3, 1.8),
	}

	captions := groupWords(words, 2)
	require.Len(t, captions, 3)

	assert.Equal(t, "The quick", captions[0].Text)
	assert.Equal(t, 0.0, captions[0].Interval.Start)
	assert.Equal(t, 0.5, captions[0].Interval.End)

	assert.Equal(t, "brown fox", captions[1].Text)
	assert.Equal(t, 0.5, captions[1].Interval.Start)
	assert.Equal(t, 1.3, captions[1].Interval.End)

	// Remainder chunk keeps the final word's span
	assert.Equal(t, "jumps", captions[2].Text)
	assert.Equal(t, 1.3, captions[2].Interval.Start)
	assert.Equal(t, 1.8, captions[2].Interval.End)
}

func TestGroupWordsContiguousIntervals(t *testing.T) {
	words := []whisperWord{
		word("a", 0, 1), word("b", 1, 2), word("c", 2, 3), word("d", 3, 4),
	}
	captions := groupWords(words, 2)
	for i := 1; i < len(captions); i++ {
		assert.Equal(t, captions[i-1].Interval.End, captions[i].Interval.Start)
	}
}

func TestGroupWordsMinChunkSize(t *testing.T) {
	words := []whisperWord{word("solo", 0, 1)}
	captions := groupWords(words, 0) // clamped to 1
	require.Len(t, captions, 1)
	assert.Equal(t, "solo", captions[0].Text)
}
