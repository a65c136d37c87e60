package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortvid-pipeline/types"
)

func TestDownloadAllFetchesResolvedClipsOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fake mp4 bytes for " + r.URL.Path))
	}))
	t.Cleanup(srv.Close)

	c := testCompositor()
	dir := t.TempDir()
	assignments := []types.Assignment{
		{Interval: types.TimeInterval{Start: 0, End: 4}, FootageURL: srv.URL + "/a.mp4"},
		{Interval: types.TimeInterval{Start: 4, End: 8}}, // gap, nothing to fetch
		{Interval: types.TimeInterval{Start: 8, End: 12}, FootageURL: srv.URL + "/b.mp4"},
	}

	paths, err := c.downloadAll(context.Background(), assignments, dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "fake mp4 bytes for /a.mp4", string(data))

	_, gapFetched := paths[1]
	assert.False(t, gapFetched)
	assert.Equal(t, filepath.Join(dir, "clip_002.mp4"), paths[2])
}

func TestDownloadAllFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	c := testCompositor()
	assignments := []types.Assignment{
		{Interval: types.TimeInterval{Start: 0, End: 4}, FootageURL: srv.URL + "/gone.mp4"},
	}

	_, err := c.downloadAll(context.Background(), assignments, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownload)
}
