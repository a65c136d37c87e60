package footage

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"shortvid-pipeline/types"
)

// UsedSet tracks footage file keys already assigned during one run, so no
// stock clip is reused across segments of the same output. Append-only,
// owned by one run, never persisted.
type UsedSet map[string]struct{}

// NewUsedSet creates an empty session set
func NewUsedSet() UsedSet {
	return make(UsedSet)
}

// Contains reports whether a file key was already used.
func (u UsedSet) Contains(key string) bool {
	_, ok := u[key]
	return ok
}

// Add marks a file key as used.
func (u UsedSet) Add(key string) {
	u[key] = struct{}{}
}

// FileKey normalizes a variant URL to the asset's identity: the prefix
// before the quality suffix. Two variants of the same asset share a key.
func FileKey(link string) string {
	if i := strings.Index(link, ".hd"); i >= 0 {
		return link[:i]
	}
	return link
}

// queryRewrites are tried in order when the original query yields nothing
// usable; first success short-circuits.
var queryRewrites = []string{
	"cinematic %s",
	"professional %s",
	"beautiful %s",
	"%s scene",
	"%s footage",
}

const (
	aspectTolerance = 0.05
	minCandidateDur = 3.0

	defaultIdealDurationSec = 15.0
)

// Scorer picks the best unused clip for a query
type Scorer struct {
	client   *Client
	idealDur float64
}

// NewScorer creates a Scorer over a search client. idealDurationSec is the
// clip duration the duration-closeness score peaks at; zero or negative
// falls back to the default.
func NewScorer(client *Client, idealDurationSec float64) *Scorer {
	if idealDurationSec <= 0 {
		idealDurationSec = defaultIdealDurationSec
	}
	return &Scorer{client: client, idealDur: idealDurationSec}
}

type scoredCandidate struct {
	video Video
	file  VideoFile
}

// FindBest returns the URL of the best-scoring unused candidate for the
// query, or "" when nothing usable exists even after the rewrite fallbacks.
// On success the picked file key is added to used before returning; that is
// the only mutation point for session dedup.
func (s *Scorer) FindBest(ctx context.Context, query string, orientation types.Orientation, used UsedSet) (string, error) {
	queries := make([]string, 0, len(queryRewrites)+1)
	queries = append(queries, query)
	for _, rw := range queryRewrites {
		queries = append(queries, fmt.Sprintf(rw, query))
	}

	for i, q := range queries {
		url, retryable, err := s.bestFor(ctx, q, orientation, used)
		if err != nil {
			return "", err
		}
		if url != "" {
			if i > 0 {
				log.Printf("[footage] Rewrite %q matched where %q did not", q, query)
			}
			return url, nil
		}
		// A miss on a rewrite always advances to the next rewrite; only an
		// all-used result on the original query ends the chain early.
		if i == 0 && !retryable {
			return "", nil
		}
	}
	return "", nil
}

// bestFor runs one search and the full filter/score/dedup pipeline for a
// single query. retryable is false only when candidates survived filtering
// but every one was already used in this session.
func (s *Scorer) bestFor(ctx context.Context, query string, orientation types.Orientation, used UsedSet) (url string, retryable bool, err error) {
	videos, err := s.client.Search(ctx, query, orientation)
	if err != nil {
		return "", false, err
	}
	if len(videos) == 0 {
		log.Printf("[footage] No videos found for query: %s", query)
		return "", true, nil
	}

	targetW, targetH := orientation.TargetDimensions()
	candidates := filterCandidates(videos, targetW, targetH)
	if len(candidates) == 0 {
		log.Printf("[footage] No suitable quality videos for query: %s", query)
		return "", true, nil
	}

	// Stable sort keeps the service's order on ties
	sort.SliceStable(candidates, func(i, j int) bool {
		return score(candidates[i], targetW, targetH, s.idealDur) > score(candidates[j], targetW, targetH, s.idealDur)
	})

	for _, c := range candidates {
		key := FileKey(c.file.Link)
		if used.Contains(key) {
			continue
		}
		used.Add(key)
		return c.file.Link, false, nil
	}

	log.Printf("[footage] No unused videos for query: %s", query)
	return "", false, nil
}

// filterCandidates applies the required conditions: dimensions at least the
// target, aspect ratio within tolerance, long enough, and at least one HD
// variant. The representative file is the HD variant with the most pixels.
func filterCandidates(videos []Video, targetW, targetH int) []scoredCandidate {
	targetRatio := float64(targetW) / float64(targetH)

	var out []scoredCandidate
	for _, v := range videos {
		if v.Width < targetW || v.Height < targetH {
			continue
		}
		// Tolerance is relative to the target ratio, so portrait and
		// landscape targets reject equally off-shape candidates.
		if math.Abs(float64(v.Width)/float64(v.Height)-targetRatio)/targetRatio > aspectTolerance {
			continue
		}
		if v.Duration < minCandidateDur {
			continue
		}

		var best VideoFile
		bestPixels := -1
		for _, f := range v.VideoFiles {
			if f.Quality != "hd" {
				continue
			}
			if pixels := f.Width * f.Height; pixels > bestPixels {
				best, bestPixels = f, pixels
			}
		}
		if bestPixels < 0 {
			continue
		}
		out = append(out, scoredCandidate{video: v, file: best})
	}
	return out
}

// score rewards durations near the ideal and oversized resolution:
// durationCloseness peaks at idealDur and bottoms out idealDur away; the
// resolution ratio is uncapped.
func score(c scoredCandidate, targetW, targetH int, idealDur float64) float64 {
	durationCloseness := 1 - math.Min(1, math.Abs(idealDur-c.video.Duration)/idealDur)
	resolutionRatio := float64(c.file.Width*c.file.Height) / float64(targetW*targetH)
	return durationCloseness + 0.5*resolutionRatio
}
