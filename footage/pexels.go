package footage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shortvid-pipeline/diaglog"
	"shortvid-pipeline/types"
)

const defaultSearchURL = "https://api.pexels.com/videos/search"

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Client searches stock footage on Pexels
type Client struct {
	apiKey     string
	httpClient *http.Client
	dlog       *diaglog.Logger
	searchURL  string // overridable in tests

	pageSize       int
	minDurationSec float64
	maxDurationSec float64
}

// NewClient creates a Pexels search client
func NewClient(apiKey string, dlog *diaglog.Logger, pageSize int, minDur, maxDur float64) *Client {
	return &Client{
		apiKey:         apiKey,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		dlog:           dlog,
		searchURL:      defaultSearchURL,
		pageSize:       pageSize,
		minDurationSec: minDur,
		maxDurationSec: maxDur,
	}
}

// Video is one search candidate as returned by the service
type Video struct {
	ID         int         `json:"id"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Duration   float64     `json:"duration"`
	VideoFiles []VideoFile `json:"video_files"`
}

// VideoFile is one quality variant of a candidate
type VideoFile struct {
	Quality string `json:"quality"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Link    string `json:"link"`
}

type searchResponse struct {
	Videos []Video `json:"videos"`
}

// Search queries Pexels for candidates matching the orientation, within the
// configured duration window, large size hint. The raw response is recorded
// in the diagnostic log.
func (c *Client) Search(ctx context.Context, query string, orientation types.Orientation) ([]Video, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("orientation", string(orientation))
	params.Set("per_page", strconv.Itoa(c.pageSize))
	params.Set("min_duration", strconv.FormatFloat(c.minDurationSec, 'f', -1, 64))
	params.Set("max_duration", strconv.FormatFloat(c.maxDurationSec, 'f', -1, 64))
	params.Set("size", "large")

	req, err := http.NewRequestWithContext(ctx, "GET", c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.dlog.Record(diaglog.TypePexels, query, string(body))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels HTTP %d for query %q", resp.StatusCode, query)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse pexels response: %w", err)
	}
	return parsed.Videos, nil
}
