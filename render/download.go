package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"shortvid-pipeline/types"
)

// ErrDownload marks a failed background-clip download; fatal for the render.
var ErrDownload = errors.New("footage download failed")

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// downloadAll fetches every resolved assignment's clip into dir and returns
// assignment index → local path. Assignments are already finalized by the
// merge, so downloads have no ordering dependency and run concurrently.
func (c *Compositor) downloadAll(ctx context.Context, assignments []types.Assignment, dir string) (map[int]string, error) {
	paths := make(map[int]string, len(assignments))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.downloadWorkers)

	for i, a := range assignments {
		if !a.HasFootage() {
			continue
		}
		i, a := i, a
		dest := filepath.Join(dir, fmt.Sprintf("clip_%03d.mp4", i))
		paths[i] = dest
		g.Go(func() error {
			if err := c.downloadFile(ctx, a.FootageURL, dest); err != nil {
				return fmt.Errorf("%w: segment %.2f-%.2f: %v", ErrDownload, a.Interval.Start, a.Interval.End, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (c *Compositor) downloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return err
	}
	return nil
}
