// Package fs provides a file-backed telemetry sink: every reporting cycle
// is persisted as one JSON-lines object through the viant/afs abstraction,
// so snapshots can land on local disk, memory or cloud storage alike.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/alloctrack/internal/clock"
	"github.com/viant/alloctrack/telemetry"
)

// Sink writes one JSON-lines file per reporting cycle under a base location.
type Sink struct {
	fs      afs.Service
	baseURL string
}

// New creates a file sink rooted at baseURL, creating the location when it
// does not exist yet.
func New(fs afs.Service, baseURL string) (*Sink, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create sink location %s: %w", baseURL, err)
		}
	}
	return &Sink{fs: fs, baseURL: baseURL}, nil
}

// Emit persists the cycle's records as one file, one JSON object per line.
func (s *Sink) Emit(ctx context.Context, usages []telemetry.Usage) error {
	if len(usages) == 0 {
		return nil
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for i := range usages {
		if err := encoder.Encode(&usages[i]); err != nil {
			return fmt.Errorf("failed to encode usage record: %w", err)
		}
	}
	name := fmt.Sprintf("usage-%d-%s.json", clock.Now().UnixNano(), uuid.New().String())
	URL := path.Join(s.baseURL, name)
	if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, &buf); err != nil {
		return fmt.Errorf("failed to upload usage snapshot %s: %w", URL, err)
	}
	return nil
}

var _ telemetry.Sink = (*Sink)(nil)
