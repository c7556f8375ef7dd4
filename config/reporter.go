package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
	zip "github.com/hidez8891/zip"

	"cssc/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created the
// report goes to a temporary file, see Name.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, entries: make(map[string]entry)}, nil
}

// entry is either a file read when report is closed or data captured when
// it was stored.
type entry struct {
	source string
	data   []byte
	stamp  time.Time
}

// Report is a zip archive collecting logs, configuration, loaded
// stylesheets, image previews and results of a run. All methods may be
// called on nil Report, which means no report was requested. Report is
// safe for concurrent use.
type Report struct {
	mu      sync.Mutex
	file    *os.File
	entries map[string]entry
}

// EntryName builds unique name of report entry for n-th resource of a kind
// addressed by uri, e.g. "sheets/02-main-css".
func EntryName(kind string, n int, uri string) string {
	base := path.Base(strings.TrimRight(filepath.ToSlash(uri), "/"))
	name := slug.Make(base)
	if name == "" {
		name = "entry"
	}
	return fmt.Sprintf("%s/%02d-%s", kind, n, name)
}

// Name returns absolute name of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store records file to be put in the archive under name. The file is read
// when report is closed, so it may still be written to. Storing the same
// name for another file panics.
func (r *Report) Store(name, file string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(file); err == nil {
		file = p
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.entries[name]; ok && old.source != file {
		panic(fmt.Sprintf("report entry %q already stores %q, not %q", name, old.source, file))
	}
	r.entries[name] = entry{source: file}
}

// StoreData records data to be put in the archive under name. Storing the
// same name twice panics.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		panic(fmt.Sprintf("report entry %q already exists", name))
	}
	r.entries[name] = entry{data: bytes.Clone(data), stamp: time.Now()}
}

// Close writes the archive: MANIFEST listing every entry followed by
// entries in name order. Files which no longer exist are listed but
// skipped.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.file.Close()

	arc := zip.NewWriter(r.file)
	names := slices.Sorted(func(yield func(string) bool) {
		for k := range r.entries {
			if !yield(k) {
				return
			}
		}
	})

	now := time.Now()
	var manifest bytes.Buffer
	for _, name := range names {
		e := r.entries[name]
		stamp, source := e.stamp, e.source
		if source == "" {
			source = "-"
		} else if fi, err := os.Stat(source); err != nil || !fi.Mode().IsRegular() {
			source += " (missing)"
		} else {
			stamp = fi.ModTime()
		}
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(&manifest, "%s\t%s\t%s\n", stamp.UTC().Format(time.UnixDate), name, source)
	}
	if err := addEntry(arc, "MANIFEST", now, &manifest); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if e.source == "" {
			if err := addEntry(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		if err := addFile(arc, name, e.source); err != nil {
			return err
		}
	}
	return arc.Close()
}

func addFile(arc *zip.Writer, name, file string) error {
	fi, err := os.Stat(file)
	if err != nil || !fi.Mode().IsRegular() {
		return nil
	}
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	return addEntry(arc, name, fi.ModTime(), f)
}

func addEntry(arc *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	return nil
}
