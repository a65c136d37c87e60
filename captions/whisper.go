package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"shortvid-pipeline/types"
)

// Generator produces word-level timed captions from the narration audio
type Generator struct {
	whisperModel string
	maxWords     int
}

// New creates a caption Generator
func New(whisperModel string, maxWordsPerCaption int) *Generator {
	return &Generator{whisperModel: whisperModel, maxWords: maxWordsPerCaption}
}

// whisperOutput matches the JSON whisper writes with --word_timestamps True
type whisperOutput struct {
	Segments []struct {
		Words []whisperWord `json:"words"`
	} `json:"segments"`
}

type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Generate transcribes the audio with word timestamps and groups the words
// into short caption chunks. The resulting sequence is ordered and
// contiguous within each chunk's word span.
func (g *Generator) Generate(ctx context.Context, audioFile, outputDir string) ([]types.CaptionSegment, error) {
	log.Println("[captions] Running Whisper word-level transcription...")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx,
		"whisper",
		audioFile,
		"--model", g.whisperModel,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--language", "en",
		"--word_timestamps", "True",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("whisper failed: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioFile), filepath.Ext(audioFile))
	jsonFile := filepath.Join(outputDir, base+".json")

	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	var words []whisperWord
	for _, seg := range out.Segments {
		words = append(words, seg.Words...)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("whisper produced no word timestamps")
	}

	captions := groupWords(words, g.maxWords)
	log.Printf("[captions] ✅ %d captions from %d words", len(captions), len(words))
	return captions, nil
}

// groupWords chunks consecutive words into captions of at most maxWords
// words each. A chunk's interval runs from its first word's start to its
// last word's end.
func groupWords(words []whisperWord, maxWords int) []types.CaptionSegment {
	if maxWords < 1 {
		maxWords = 1
	}

	var captions []types.CaptionSegment
	for i := 0; i < len(words); i += maxWords {
		j := i + maxWords
		if j > len(words) {
			j = len(words)
		}

		var parts []string
		for _, w := range words[i:j] {
			parts = append(parts, strings.TrimSpace(w.Word))
		}

		captions = append(captions, types.CaptionSegment{
			Interval: types.TimeInterval{Start: words[i].Start, End: words[j-1].End},
			Text:     strings.Join(parts, " "),
		})
	}
	return captions
}
