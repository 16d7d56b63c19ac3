package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/dmitrijs2005/mitienda/internal/filex"
)

// DiskStore keeps images as plain files under a directory relative to the
// working directory. The store owns both the directory and the URL prefix
// images are served under, so a reconfigured directory cannot drift apart
// from the addresses handed to browsers.
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore ensures the image directory exists and returns a store
// writing into it.
func NewDiskStore(dirName string) (*DiskStore, error) {
	dir, err := filex.EnsureSubDir(dirName)
	if err != nil {
		return nil, err
	}
	urlPrefix := "/" + path.Clean(filepath.ToSlash(dirName)) + "/"
	return &DiskStore{dir: dir, urlPrefix: urlPrefix}, nil
}

// Dir returns the absolute directory images are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// URLPrefix returns the request path prefix the stored images must be
// served under.
func (s *DiskStore) URLPrefix() string {
	return s.urlPrefix
}

func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ref := makeRef(filepath.Base(filename))

	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	return ref, nil
}

func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

func (s *DiskStore) URL(ref string) string {
	return s.urlPrefix + ref
}
