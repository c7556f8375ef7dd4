// Package archive builds Walk abstraction on top of "github.com/hidez8891/zip"
// and locates stylesheets and documents stored inside zip archives.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	fixzip "github.com/hidez8891/zip"
	"golang.org/x/text/encoding"
)

// ErrNotFound is returned by ReadFile when archive has no requested entry.
var ErrNotFound = errors.New("entry not found in archive")

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to Walk
// The file argument is the zip.File structure for file in archive which satisfies
// match condition. If an error is returned, processing stops.
type WalkFunc func(archive string, file *fixzip.File) error

// Walk walks the all files in the archive which satisfy match condition,
// calling walkFn for each item. Archives having entries with path traversal
// components ("..") or absolute paths are rejected.
func Walk(archive, pattern string, walkFn WalkFunc) error {

	r, err := fixzip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, pattern) {
			if err := walkFn(archive, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadFile returns content of a single entry of the archive. Entry names
// are compared after decoding non UTF-8 names with cp, when it is not nil.
func ReadFile(archive, name string, cp encoding.Encoding) ([]byte, error) {
	var (
		data  []byte
		found bool
	)
	name = strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
	err := Walk(archive, "", func(_ string, f *fixzip.File) error {
		if EntryName(f, cp) != name {
			return nil
		}
		r, err := f.Open()
		if err != nil {
			return fmt.Errorf("unable to open %q: %w", f.Name, err)
		}
		defer r.Close()
		if data, err = io.ReadAll(r); err != nil {
			return fmt.Errorf("unable to read %q: %w", f.Name, err)
		}
		found = true
		return io.EOF
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s in %s: %w", name, archive, ErrNotFound)
	}
	return data, nil
}

// EntryName returns name of the entry. Since zip "standard" does not define
// file name encoding old archives may need cp to decode non UTF-8 names.
func EntryName(f *fixzip.File, cp encoding.Encoding) string {
	name := f.FileHeader.Name
	if cp == nil || !f.FileHeader.NonUTF8 {
		return name
	}
	if n, err := cp.NewDecoder().String(name); err == nil {
		return n
	}
	return name
}

// Split breaks path into the archive file on disk and the path inside it.
// When no element of p is an existing regular file with ".zip" extension
// archive is empty and inner is p.
func Split(p string) (archive, inner string) {
	p = filepath.Clean(p)
	for dir := p; ; {
		if strings.EqualFold(filepath.Ext(dir), ".zip") {
			if fi, err := os.Stat(dir); err == nil && fi.Mode().IsRegular() {
				rest := strings.TrimPrefix(p[len(dir):], string(filepath.Separator))
				return dir, filepath.ToSlash(rest)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", p
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
