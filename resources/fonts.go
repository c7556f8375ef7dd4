package resources

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"
)

// scanFonts returns family names of TrueType and OpenType fonts found in
// dir and its subdirectories. Unreadable fonts are skipped.
func scanFonts(dir string, log *zap.Logger) ([]string, error) {
	var (
		families []string
		buf      sfnt.Buffer
	)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			log.Debug("Unable to read font", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !filetype.Is(data, "ttf") && !filetype.Is(data, "otf") {
			return nil
		}
		f, err := sfnt.Parse(data)
		if err != nil {
			log.Debug("Unable to parse font", zap.String("path", path), zap.Error(err))
			return nil
		}
		name, err := f.Name(&buf, sfnt.NameIDFamily)
		if err != nil || name == "" {
			log.Debug("Font has no family name", zap.String("path", path), zap.Error(err))
			return nil
		}
		families = append(families, name)
		return nil
	})
	return families, err
}
