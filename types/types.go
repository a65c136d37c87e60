package types

// TimeInterval is an absolute time span in seconds from narration start.
// Across a full sequence, intervals are contiguous and non-overlapping,
// starting at 0 and ending at the narration duration.
type TimeInterval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the interval length in seconds.
func (t TimeInterval) Duration() float64 {
	return t.End - t.Start
}

// CaptionSegment is one caption chunk with its timing, produced once by
// the alignment stage and read-only afterwards.
type CaptionSegment struct {
	Interval TimeInterval `json:"interval"`
	Text     string       `json:"text"`
}

// QueryAssignment holds the ordered footage search queries for one segment.
// Queries are deduplicated case-insensitively across the whole script, so a
// segment can end up with an empty query list; it stays in the sequence as
// an explicit gap rather than being dropped.
type QueryAssignment struct {
	Interval TimeInterval `json:"interval"`
	Queries  []string     `json:"queries"`
}

// Assignment binds a segment to a footage URL. An empty FootageURL means no
// suitable footage was found; that is a repairable gap, not an error.
type Assignment struct {
	Interval   TimeInterval `json:"interval"`
	FootageURL string       `json:"footage_url,omitempty"`
}

// HasFootage reports whether the segment resolved to a clip.
func (a Assignment) HasFootage() bool {
	return a.FootageURL != ""
}

// VideoMetadata holds upload metadata for the finished video
type VideoMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"category_id"`
	Visibility  string   `json:"visibility"`
}

// PipelineState tracks the full state of one pipeline run
type PipelineState struct {
	RunID       string            `json:"run_id"`
	Topic       string            `json:"topic"`
	StartedAt   string            `json:"started_at"`
	CompletedAt string            `json:"completed_at"`
	Script      string            `json:"script,omitempty"`
	AudioFile   string            `json:"audio_file,omitempty"`
	Captions    []CaptionSegment  `json:"captions,omitempty"`
	Queries     []QueryAssignment `json:"queries,omitempty"`
	Assignments []Assignment      `json:"assignments,omitempty"`
	VideoFile   string            `json:"video_file,omitempty"`
	Metadata    *VideoMetadata    `json:"metadata,omitempty"`
	YouTubeURL  string            `json:"youtube_url,omitempty"`
	Error       string            `json:"error,omitempty"`
}
