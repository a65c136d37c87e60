package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"shortvid-pipeline/diaglog"
	"shortvid-pipeline/llm"
	"shortvid-pipeline/types"
)

// ErrScriptFormat marks query-generator output that cannot be coerced into
// the required array-of-pairs shape after all repair attempts. Fatal for
// the generation attempt.
var ErrScriptFormat = errors.New("invalid search query format")

const systemPrompt = `# Instructions

Given a video script and timed captions, generate search keywords for background videos. Follow these rules:

1. Each time segment should have TWO specific, visually descriptive keywords for variety
2. Keywords must be:
   - In English and visually concrete (e.g., "running cheetah", not "speed")
   - Highly specific and detailed (e.g., "aerial view mountain lake" instead of just "mountain")
   - Related to the actual content/context of the script
   - Diverse to avoid repetition
3. Each segment should be 3-5 seconds long for smoother transitions
4. Time segments must be consecutive and cover the entire video
5. Format must be a valid JSON array: [[[start_time, end_time], ["keyword1", "keyword2"]], ...]

Example good output:
[
  [[0, 4], ["aerial view ocean waves", "coastal cliff sunset"]],
  [[4, 8], ["snow capped mountain peak", "alpine forest landscape"]],
  [[8, 12], ["busy city intersection timelapse", "modern skyscraper district"]]
]

Guidelines for keywords:
- GOOD: "drone shot rainforest canopy", "slow motion waterfall cascade", "urban street night traffic"
- BAD: "nature", "city", "technology" (too generic)
- BAD: "beautiful scene" (not visually specific)
- BAD: "happiness" (abstract concept)

Your response must be ONLY the JSON array, nothing else.`

// Generator derives per-segment footage search queries from the script and
// its timed captions.
type Generator struct {
	client *llm.Client
	dlog   *diaglog.Logger
}

// New creates a query Generator
func New(client *llm.Client, dlog *diaglog.Logger) *Generator {
	return &Generator{client: client, dlog: dlog}
}

// Generate sends the full script and caption timeline in one call and
// returns one query list per time segment, deduplicated globally.
func (g *Generator) Generate(ctx context.Context, script string, captions []types.CaptionSegment) ([]types.QueryAssignment, error) {
	if len(captions) == 0 {
		return nil, fmt.Errorf("no captions provided")
	}

	log.Println("[queries] Generating timed search queries...")

	userPrompt := buildUserPrompt(script, captions)
	content, err := g.client.Chat(ctx, systemPrompt, userPrompt, 0.7)
	if err != nil {
		return nil, err
	}
	g.dlog.Record(diaglog.TypeGPT, script, content)

	items, err := cleanArray(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScriptFormat, err)
	}

	assignments, err := validateSegments(items)
	if err != nil {
		return nil, err
	}
	assignments = dedupeKeywords(assignments)

	// Coverage check against the caption timeline
	wantEnd := captions[len(captions)-1].Interval.End
	gotEnd := assignments[len(assignments)-1].Interval.End
	if math.Abs(gotEnd-wantEnd) > 1e-9 {
		log.Printf("[queries] Warning: segments don't cover full duration. Expected end: %g, got: %g", wantEnd, gotEnd)
	}

	log.Printf("[queries] ✅ %d timed query segments", len(assignments))
	return assignments, nil
}

func buildUserPrompt(script string, captions []types.CaptionSegment) string {
	pairs := make([][2]any, 0, len(captions))
	for _, c := range captions {
		pairs = append(pairs, [2]any{[2]float64{c.Interval.Start, c.Interval.End}, c.Text})
	}
	timed, _ := json.Marshal(pairs)

	var sb strings.Builder
	sb.WriteString("Script: ")
	sb.WriteString(script)
	sb.WriteString("\nTimed Captions: ")
	sb.Write(timed)
	return sb.String()
}

// validateSegments enforces the [[start,end],[keyword...]] shape. Any
// structural violation is fatal for the attempt.
func validateSegments(items []any) ([]types.QueryAssignment, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrScriptFormat)
	}

	out := make([]types.QueryAssignment, 0, len(items))
	for i, item := range items {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: item %d must be [time_range, keywords]", ErrScriptFormat, i)
		}

		timeRange, ok := pair[0].([]any)
		if !ok || len(timeRange) != 2 {
			return nil, fmt.Errorf("%w: item %d time range must be [start, end]", ErrScriptFormat, i)
		}
		start, err := coerceFloat(timeRange[0])
		if err != nil {
			return nil, fmt.Errorf("%w: item %d start: %v", ErrScriptFormat, i, err)
		}
		end, err := coerceFloat(timeRange[1])
		if err != nil {
			return nil, fmt.Errorf("%w: item %d end: %v", ErrScriptFormat, i, err)
		}

		rawKeywords, ok := pair[1].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d keywords must be a list of strings", ErrScriptFormat, i)
		}
		keywords := make([]string, 0, len(rawKeywords))
		for _, k := range rawKeywords {
			s, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: item %d keywords must be a list of strings", ErrScriptFormat, i)
			}
			keywords = append(keywords, s)
		}

		out = append(out, types.QueryAssignment{
			Interval: types.TimeInterval{Start: start, End: end},
			Queries:  keywords,
		})
	}
	return out, nil
}

func coerceFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(t, 64)
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

// dedupeKeywords removes keywords already used by an earlier segment,
// case-insensitively. A segment whose list empties is kept with zero
// queries so the timeline never silently loses coverage; the assigner
// turns it into an explicit gap.
func dedupeKeywords(assignments []types.QueryAssignment) []types.QueryAssignment {
	seen := make(map[string]bool)
	out := make([]types.QueryAssignment, 0, len(assignments))
	for _, a := range assignments {
		var kept []string
		for _, k := range a.Queries {
			key := strings.ToLower(k)
			if seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, k)
		}
		out = append(out, types.QueryAssignment{Interval: a.Interval, Queries: kept})
	}
	return out
}
