package archive

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	fixzip "github.com/hidez8891/zip"
	"golang.org/x/text/encoding/charmap"
)

type entry struct {
	name    string
	content string
	nonUTF8 bool
}

func makeZip(t *testing.T, dir string, entries ...entry) string {
	t.Helper()
	zipPath := filepath.Join(dir, "styles.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := fixzip.NewWriter(zipFile)
	for _, e := range entries {
		fw, err := w.CreateHeader(&fixzip.FileHeader{Name: e.name, Method: fixzip.Deflate, NonUTF8: e.nonUTF8})
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t, t.TempDir(),
		entry{name: "css/main.css", content: "p { color: red }"},
		entry{name: "css/print.css", content: "@media print { p { color: black } }"},
		entry{name: "book/index.html", content: "<p>x</p>"},
		entry{name: "readme.txt", content: "text"},
	)

	tests := []struct {
		pattern string
		want    int
	}{
		{"css/", 2},
		{"book/", 1},
		{"", 4},
		{"nonexistent/", 0},
		{"CSS/", 0},
	}
	for _, tt := range tests {
		var visited []string
		err := Walk(zipPath, tt.pattern, func(archive string, file *fixzip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})
		if err != nil {
			t.Errorf("Walk(%q) error = %v", tt.pattern, err)
		}
		if len(visited) != tt.want {
			t.Errorf("Walk(%q) visited %v, want %d files", tt.pattern, visited, tt.want)
		}
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := makeZip(t, t.TempDir(),
		entry{name: "a.css"}, entry{name: "b.css"}, entry{name: "c.css"},
	)
	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, "", func(string, *fixzip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if err != stopErr {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
	if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
		t.Fatalf("Failed to create invalid zip: %v", err)
	}
	for _, name := range []string{"/nonexistent/file.zip", invalidZip} {
		if err := Walk(name, "", func(string, *fixzip.File) error { return nil }); err == nil {
			t.Errorf("Walk(%s) expected error", name)
		}
	}
}

func TestWalk_UnsafePath(t *testing.T) {
	zipPath := makeZip(t, t.TempDir(), entry{name: "../evil.css", content: "x"})
	err := Walk(zipPath, "", func(string, *fixzip.File) error {
		t.Error("walkFn called for unsafe entry")
		return nil
	})
	if err == nil {
		t.Error("Walk() accepted archive with path traversal")
	}
}

func TestReadFile(t *testing.T) {
	cp := charmap.CodePage866
	legacy, err := cp.NewEncoder().String("стиль.css")
	if err != nil {
		t.Fatal(err)
	}
	zipPath := makeZip(t, t.TempDir(),
		entry{name: "css/main.css", content: "p { color: red }"},
		entry{name: legacy, content: "div {}", nonUTF8: true},
	)

	data, err := ReadFile(zipPath, "./css/../css/main.css", nil)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(data, []byte("p { color: red }")) {
		t.Errorf("content = %q", data)
	}

	if _, err := ReadFile(zipPath, "missing.css", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want ErrNotFound", err)
	}

	data, err = ReadFile(zipPath, "стиль.css", cp)
	if err != nil {
		t.Fatalf("ReadFile() with code page error = %v", err)
	}
	if string(data) != "div {}" {
		t.Errorf("content = %q", data)
	}
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	zipPath := makeZip(t, dir, entry{name: "css/main.css"})

	archive, inner := Split(filepath.Join(zipPath, "css", "main.css"))
	if archive != zipPath || inner != "css/main.css" {
		t.Errorf("Split() = %q, %q", archive, inner)
	}

	plain := filepath.Join(dir, "css", "main.css")
	if archive, inner := Split(plain); archive != "" || inner != plain {
		t.Errorf("Split(plain) = %q, %q", archive, inner)
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"css/main.css", true},
		{"a..b/c.css", true},
		{"../main.css", false},
		{"css/../../main.css", false},
		{"/etc/passwd", false},
		{`\windows\file`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
