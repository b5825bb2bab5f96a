package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sdujack2012/remic/internal/statefile"
	"github.com/sdujack2012/remic/internal/todo"
	"github.com/sdujack2012/remic/internal/tree"
)

var _ todo.Fetcher = (*File)(nil)

// File reads to-dos from a JSON, YAML or TOML document on disk.
type File struct {
	path   string
	format statefile.Format
	delay  time.Duration
}

// NewFile validates the path's extension and returns a source for it. A
// positive delay is waited before every read.
func NewFile(path string, delay time.Duration) (*File, error) {
	format, err := statefile.FormatFor(path)
	if err != nil {
		return nil, err
	}
	return &File{path: path, format: format, delay: delay}, nil
}

// Path returns the file being read.
func (f *File) Path() string {
	return f.path
}

// Fetch reads and decodes the file. A missing file yields an empty
// collection.
func (f *File) Fetch(ctx context.Context) (tree.Map, error) {
	if f == nil {
		return nil, fmt.Errorf("source is nil")
	}
	if err := wait(ctx, f.delay); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return tree.Map{}, nil
		}
		return nil, fmt.Errorf("read to-dos: %w", err)
	}
	doc, err := statefile.Decode(data, f.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	items, err := Collection(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return items, nil
}

var _ todo.Saver = (*File)(nil)

// Save writes items back as {toDos: {...}} in the file's format. The file
// is replaced atomically.
func (f *File) Save(ctx context.Context, items tree.Map) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if items == nil {
		items = tree.Map{}
	}
	data, err := statefile.Encode(tree.Map{"toDos": items}, f.format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create to-dos dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".todos-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write to-dos: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close to-dos: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace to-dos: %w", err)
	}
	return nil
}

// wait blocks for d or until ctx ends. A non-positive d only checks ctx.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
