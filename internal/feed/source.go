// Package feed pulls camera frames, sends them to the landmark detector and
// grades the resulting skeletons against the session's active pose.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/kozaktomas/pose-coach/internal/detector"
)

// ErrNoFrames is returned by a DirSource over a directory without images.
var ErrNoFrames = errors.New("no frames available")

// Source yields encoded frames one at a time.
type Source interface {
	Next(ctx context.Context) ([]byte, error)
}

// SnapshotSource fetches one JPEG per call from an IP camera snapshot URL.
type SnapshotSource struct {
	url    string
	client *http.Client
}

// NewSnapshotSource creates a source reading from a camera snapshot endpoint.
func NewSnapshotSource(url string) *SnapshotSource {
	return &SnapshotSource{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SnapshotSource) Next(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// DirSource replays the images of a directory in name order, starting over after
// the last one.
type DirSource struct {
	mu    sync.Mutex
	files []string
	next  int
}

// NewDirSource lists the images in dir.
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !detector.IsImageFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}
	sort.Strings(files)

	return &DirSource{files: files}, nil
}

// Files returns the image paths in replay order.
func (s *DirSource) Files() []string {
	out := make([]string, len(s.files))
	copy(out, s.files)
	return out
}

func (s *DirSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	path := s.files[s.next]
	s.next = (s.next + 1) % len(s.files)
	s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame %s: %w", path, err)
	}
	return data, nil
}
