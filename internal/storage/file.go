package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
)

// DefaultDir is where the file backend keeps timelines unless configured.
const DefaultDir = "timelines"

var fileExtensions = []string{codec.FormatJSON.Extension(), codec.FormatCBOR.Extension()}

// FileStore keeps one file per timeline in a directory. The extension
// follows the document encoding: name.json or name.cbor.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating timeline directory")
	}
	return &FileStore{dir: filepath.Clean(dir)}, nil
}

// Dir returns the directory the store writes into.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file that holds name, or ErrNotFound.
func (s *FileStore) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	for _, ext := range fileExtensions {
		p := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errors.Wrapf(ErrNotFound, "%q", name)
}

func (s *FileStore) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	ext := codec.FormatJSON.Extension()
	if f, err := codec.DetectFormat(data); err == nil {
		ext = f.Extension()
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing timeline %q", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing timeline %q", name)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name+ext)); err != nil {
		return errors.Wrapf(err, "storing timeline %q", name)
	}

	// A name lives under one extension only.
	for _, other := range fileExtensions {
		if other != ext {
			_ = os.Remove(filepath.Join(s.dir, name+other))
		}
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%q", name)
		}
		return nil, errors.Wrapf(err, "reading timeline %q", name)
	}
	return data, nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing timeline directory")
	}

	seen := make(map[string]bool)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != fileExtensions[0] && ext != fileExtensions[1] {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if ValidateName(name) != nil || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	removed := false
	for _, ext := range fileExtensions {
		err := os.Remove(filepath.Join(s.dir, name+ext))
		switch {
		case err == nil:
			removed = true
		case !os.IsNotExist(err):
			return errors.Wrapf(err, "deleting timeline %q", name)
		}
	}
	if !removed {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
