package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortvid-pipeline/config"
	"shortvid-pipeline/types"
)

var testStyle = config.CaptionsConfig{
	FontSize:     100,
	StrokeWidth:  3,
	BottomMargin: 280,
}

func capSeg(start, end float64, text string) types.CaptionSegment {
	return types.CaptionSegment{
		Interval: types.TimeInterval{Start: start, End: end},
		Text:     text,
	}
}

func TestCaptionFilterBasic(t *testing.T) {
	f, err := captionFilter(capSeg(1.5, 3.25, "hello world"), testStyle, 1920)
	require.NoError(t, err)

	assert.Contains(t, f, "drawtext=text='hello world'")
	assert.Contains(t, f, "fontsize=100")
	assert.Contains(t, f, "borderw=3")
	assert.Contains(t, f, "y=1640") // frame height minus bottom margin
	assert.Contains(t, f, "enable='between(t,1.500,3.250)'")
}

func TestCaptionFilterEscaping(t *testing.T) {
	f, err := captionFilter(capSeg(0, 1, `it's 50%: yes, really`), testStyle, 1920)
	require.NoError(t, err)

	// An apostrophe closes the quoted section, emits an escaped quote, and
	// reopens it; quoted punctuation stays literal.
	assert.Contains(t, f, `text='it'\''s 50%: yes, really'`)
	assert.NotContains(t, f, `\'s`)
}

func TestEscapeDrawtext(t *testing.T) {
	assert.Equal(t, `it'\''s`, escapeDrawtext(`it's`))
	assert.Equal(t, `'\'''\''`, escapeDrawtext(`''`))
	assert.Equal(t, `plain text`, escapeDrawtext(`plain text`))
}

func TestCaptionFilterRejectsEmptyText(t *testing.T) {
	_, err := captionFilter(capSeg(0, 1, "   "), testStyle, 1920)
	assert.Error(t, err)
}

func TestCaptionFilterRejectsBadInterval(t *testing.T) {
	_, err := captionFilter(capSeg(2, 2, "text"), testStyle, 1920)
	assert.Error(t, err)
}

func testCompositor() *Compositor {
	return New(&config.Config{
		Video: config.VideoConfig{
			Orientation: types.Portrait,
			FPS:         25,
			Preset:      "veryfast",
		},
		Captions: testStyle,
		Footage:  config.FootageConfig{DownloadWorkers: 2},
	})
}

func TestBuildFFmpegArgsLayout(t *testing.T) {
	c := testCompositor()

	assignments := []types.Assignment{
		{Interval: types.TimeInterval{Start: 0, End: 4}, FootageURL: "http://x/a.hd.mp4"},
		{Interval: types.TimeInterval{Start: 4, End: 8}}, // unrepaired gap stays black
		{Interval: types.TimeInterval{Start: 8, End: 12}, FootageURL: "http://x/b.hd.mp4"},
	}
	clips := map[int]string{0: "/tmp/clip_000.mp4", 2: "/tmp/clip_002.mp4"}
	captions := []types.CaptionSegment{
		capSeg(0, 2, "first words"),
		capSeg(2, 4, ""), // skipped, never fatal
	}

	args, err := c.buildFFmpegArgs("/tmp/audio.wav", 12.0, captions, assignments, clips, "/tmp/out.mp4")
	require.NoError(t, err)
	joined := strings.Join(args, " ")

	// Black base at the portrait frame size, narration as second input
	assert.Contains(t, joined, "color=c=black:s=1080x1920:r=25")
	assert.Contains(t, joined, "/tmp/audio.wav")

	// Both clips present, the gap absent
	assert.Contains(t, joined, "/tmp/clip_000.mp4")
	assert.Contains(t, joined, "/tmp/clip_002.mp4")

	// Clips enabled over their absolute intervals
	assert.Contains(t, joined, "between(t,0.000,4.000)")
	assert.Contains(t, joined, "between(t,8.000,12.000)")

	// One surviving caption, the empty one dropped
	assert.Contains(t, joined, "first words")
	assert.Equal(t, 1, strings.Count(joined, "drawtext"))

	// Output bound to audio duration, fixed codec profile
	assert.Contains(t, joined, "-t 12.000")
	assert.Contains(t, joined, "libx264")
	assert.Contains(t, joined, "veryfast")
	assert.Equal(t, "/tmp/out.mp4", args[len(args)-1])
}

func TestBuildFFmpegArgsAllGaps(t *testing.T) {
	c := testCompositor()

	assignments := []types.Assignment{
		{Interval: types.TimeInterval{Start: 0, End: 12}},
	}
	args, err := c.buildFFmpegArgs("/tmp/audio.wav", 12.0, nil, assignments, nil, "/tmp/out.mp4")
	require.NoError(t, err)

	joined := strings.Join(args, " ")
	// Nothing to overlay: the black base carries the whole timeline
	assert.NotContains(t, joined, "overlay")
	assert.Contains(t, joined, "-map 0:v")
}
