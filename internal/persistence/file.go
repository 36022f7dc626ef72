// Package persistence implements the snapshot gateways: a local JSON file, a
// remote HTTP endpoint and a Redis read-through cache in front of either.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// FileGateway stores the snapshot as a single JSON document on disk.
type FileGateway struct {
	path string
}

func NewFileGateway(path string) *FileGateway {
	return &FileGateway{path: path}
}

func (g *FileGateway) Path() string {
	return g.path
}

// Load reads and validates the snapshot file. A missing file yields
// entities.ErrSnapshotNotFound.
func (g *FileGateway) Load(ctx context.Context) (*entities.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(g.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, entities.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", g.path, err)
	}

	return entities.DecodeSnapshot(data)
}

// Save writes the snapshot to a temporary file next to the target and renames
// it into place, so readers never observe a partial document.
func (g *FileGateway) Save(ctx context.Context, snap *entities.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := snap.Encode()
	if err != nil {
		return err
	}
	return WriteFileAtomic(g.path, data)
}

// WriteFileAtomic writes data to path through a temp file and rename, creating
// the parent directory when needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename snapshot into place: %w", err)
	}
	return nil
}
