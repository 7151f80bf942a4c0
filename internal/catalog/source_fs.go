package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// FSSource reads one directory per product, each holding a product.json.
type FSSource struct {
	fsys fs.FS
}

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

func NewDirSource(root string) *FSSource {
	return NewFSSource(os.DirFS(root))
}

// IDs returns product directory names sorted by name. Hidden directories are ignored.
func (s *FSSource) IDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list product dirs: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, nil
}

func (s *FSSource) Read(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	data, err := fs.ReadFile(s.fsys, path.Join(id, DescriptorFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	if len(data) > maxDescriptorBytes {
		return nil, fmt.Errorf("%w: %s: descriptor larger than %d bytes", ErrMalformed, id, maxDescriptorBytes)
	}
	return data, nil
}

// Ping checks that the catalog root can be opened.
func (s *FSSource) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fs.Stat(s.fsys, ".")
	return err
}
