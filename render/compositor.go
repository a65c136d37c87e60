package render

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"shortvid-pipeline/audio"
	"shortvid-pipeline/config"
	"shortvid-pipeline/types"
)

// ErrEncode marks a failed final ffmpeg write; fatal for the render.
var ErrEncode = errors.New("video encode failed")

// Compositor renders the final timeline: background clips and caption
// overlays at absolute offsets over one narration track.
type Compositor struct {
	cfg             *config.Config
	httpClient      *http.Client
	downloadWorkers int
}

// New creates a Compositor
func New(cfg *config.Config) *Compositor {
	return &Compositor{
		cfg:             cfg,
		httpClient:      &http.Client{Timeout: 120 * time.Second},
		downloadWorkers: cfg.Footage.DownloadWorkers,
	}
}

// Render downloads the assigned clips and composes them with the captions
// and the narration audio into one video at outputPath. Downloaded media is
// scoped to this call: the temp dir is removed on every exit path. The
// output duration is bound to the audio duration.
func (c *Compositor) Render(ctx context.Context, audioPath string, captions []types.CaptionSegment, assignments []types.Assignment, outputPath string) error {
	if len(assignments) == 0 {
		return fmt.Errorf("no timeline assignments to render")
	}

	audioDur, err := audio.Duration(audioPath)
	if err != nil {
		return fmt.Errorf("probe narration duration: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "shortvid-render-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	log.Printf("[render] Downloading %d background clip(s)...", countResolved(assignments))
	clipPaths, err := c.downloadAll(ctx, assignments, tmpDir)
	if err != nil {
		return err
	}

	args, err := c.buildFFmpegArgs(audioPath, audioDur, captions, assignments, clipPaths, outputPath)
	if err != nil {
		return err
	}

	log.Println("[render] Compositing timeline with ffmpeg...")
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	fi, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("%w: output missing: %v", ErrEncode, err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("%w: output is empty", ErrEncode)
	}

	log.Printf("[render] ✅ Rendered %s (%.1f MB)", outputPath, float64(fi.Size())/1024/1024)
	return nil
}

// buildFFmpegArgs assembles one ffmpeg invocation: a black base the size of
// the output frame, each clip overlaid over its absolute interval, caption
// drawtext overlays, and the narration mapped as the only audio.
func (c *Compositor) buildFFmpegArgs(audioPath string, audioDur float64, captions []types.CaptionSegment, assignments []types.Assignment, clipPaths map[int]string, outputPath string) ([]string, error) {
	w, h := c.cfg.Video.Orientation.TargetDimensions()
	fps := c.cfg.Video.FPS

	args := []string{"-y",
		"-f", "lavfi", "-i", fmt.Sprintf("color=c=black:s=%dx%d:r=%d", w, h, fps),
		"-i", audioPath,
	}

	// Clip inputs, in timeline order; input index 2 onward
	var filters []string
	prev := "[0:v]"
	inputIdx := 2
	overlayIdx := 0
	for i, a := range assignments {
		path, ok := clipPaths[i]
		if !ok {
			continue // unrepaired gap stays black
		}
		args = append(args, "-i", path)

		clipLabel := fmt.Sprintf("[clip%d]", overlayIdx)
		outLabel := fmt.Sprintf("[v%d]", overlayIdx)
		filters = append(filters, fmt.Sprintf(
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,trim=duration=%.3f,setpts=PTS-STARTPTS+%.3f/TB%s",
			inputIdx, w, h, w, h, a.Interval.Duration(), a.Interval.Start, clipLabel,
		))
		filters = append(filters, fmt.Sprintf(
			"%s%soverlay=enable='between(t,%.3f,%.3f)':eof_action=pass%s",
			prev, clipLabel, a.Interval.Start, a.Interval.End, outLabel,
		))
		prev = outLabel
		inputIdx++
		overlayIdx++
	}

	// Caption overlays; a caption that fails to build is skipped, never fatal
	var drawtexts []string
	for _, seg := range captions {
		f, err := captionFilter(seg, c.cfg.Captions, h)
		if err != nil {
			log.Printf("[render] Warning: skipping caption %.2f-%.2f: %v", seg.Interval.Start, seg.Interval.End, err)
			continue
		}
		drawtexts = append(drawtexts, f)
	}

	final := prev
	if len(drawtexts) > 0 {
		filters = append(filters, fmt.Sprintf("%s%s[vout]", prev, strings.Join(drawtexts, ",")))
		final = "[vout]"
	}

	if len(filters) > 0 {
		args = append(args, "-filter_complex", strings.Join(filters, ";"))
	} else {
		// no clips and no captions: map the black base stream directly
		final = "0:v"
	}

	args = append(args,
		"-map", final,
		"-map", "1:a",
		"-t", fmt.Sprintf("%.3f", audioDur),
		"-r", fmt.Sprintf("%d", fps),
		"-c:v", "libx264",
		"-preset", c.cfg.Video.Preset,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		outputPath,
	)
	return args, nil
}

// captionFilter builds one drawtext overlay for a caption: white text with
// a black stroke, anchored to the bottom-center band, enabled over the
// caption's interval. Errors here mean the caption is dropped, not that the
// render fails.
func captionFilter(seg types.CaptionSegment, style config.CaptionsConfig, frameH int) (string, error) {
	text := strings.TrimSpace(seg.Text)
	if text == "" {
		return "", fmt.Errorf("empty caption text")
	}
	if seg.Interval.End <= seg.Interval.Start {
		return "", fmt.Errorf("non-positive caption interval")
	}

	return fmt.Sprintf(
		"drawtext=text='%s':fontsize=%d:fontcolor=white:borderw=%.0f:bordercolor=black:x=(w-text_w)/2:y=%d:enable='between(t,%.3f,%.3f)'",
		escapeDrawtext(text),
		style.FontSize,
		style.StrokeWidth,
		frameH-style.BottomMargin,
		seg.Interval.Start,
		seg.Interval.End,
	), nil
}

// escapeDrawtext escapes caption text for embedding inside the
// single-quoted drawtext text value. Within the quotes everything is
// literal except the quote itself, which has to close the section, emit an
// escaped quote outside it, and reopen: it's -> it'\''s.
func escapeDrawtext(s string) string {
	return strings.ReplaceAll(s, `'`, `'\''`)
}

func countResolved(assignments []types.Assignment) int {
	n := 0
	for _, a := range assignments {
		if a.HasFootage() {
			n++
		}
	}
	return n
}
