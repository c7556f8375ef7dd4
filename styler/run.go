package styler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	fixzip "github.com/hidez8891/zip"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/ianaindex"

	"cssc/archive"
	"cssc/config"
	"cssc/dom"
	"cssc/loader"
	"cssc/resources"
	"cssc/state"
)

var xmlExts = []string{".xml", ".xhtml", ".xht", ".fb2"}

var htmlExts = []string{".html", ".htm"}

// isDocument reports whether file name looks like a supported document.
func isDocument(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return slices.Contains(xmlExts, ext) || slices.Contains(htmlExts, ext)
}

// Run is the action of the compute command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compute")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite")
	if f := cmd.String("format"); f != "" {
		if f != "text" && f != "sqlite" {
			log.Warn("Unknown output format requested, using configured one", zap.String("format", f), zap.String("configured", env.Cfg.Output.Format))
		} else {
			env.Cfg.Output.Format = f
		}
	}

	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}
	if cs := env.Cfg.Engine.Charset; cs != "" {
		if env.SheetCharset, _ = charset.Lookup(cs); env.SheetCharset == nil {
			log.Warn("Unknown stylesheet charset. Ignoring...", zap.String("charset", cs))
		}
	}

	if !env.Cfg.Engine.DefaultStylesheet {
		env.DefaultStyle = nil
	} else if p := env.Cfg.Engine.StylesheetPath; p != "" {
		if env.DefaultStyle, err = os.ReadFile(p); err != nil {
			return fmt.Errorf("unable to read default stylesheet from %q: %w", p, err)
		}
	}

	p, err := newProcessor(env, cmd, dst, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.String("format", env.Cfg.Output.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)), zap.Int("documents", p.count))
	}(time.Now())

	return p.process(ctx, src)
}

type processor struct {
	env      *state.LocalEnv
	log      *zap.Logger
	engine   *Engine
	dst      string
	forceXML bool
	database string // single database for all documents, if set
	count    int
	sheets   int
	images   map[string]bool
}

func newProcessor(env *state.LocalEnv, cmd *cli.Command, dst string, log *zap.Logger) (*processor, error) {
	p := &processor{
		env:      env,
		log:      log,
		dst:      dst,
		forceXML: cmd.Bool("xml"),
		database: cmd.String("sqlite"),
		images:   make(map[string]bool),
	}
	if p.database != "" {
		p.env.Cfg.Output.Format = "sqlite"
	}

	lopts := env.LoaderOptions()
	if env.Rpt != nil {
		lopts = append(lopts, loader.WithObserver(func(uri string, data []byte) {
			p.sheets++
			env.Rpt.StoreData(config.EntryName("sheets", p.sheets, uri), data)
		}))
	}

	var err error
	p.engine, err = New(&env.Cfg.Engine, Options{
		DefaultStyle:  env.DefaultStyle,
		UserSheets:    cmd.StringSlice("user-css"),
		AuthorSheets:  cmd.StringSlice("css"),
		Pseudo:        env.Cfg.Output.PseudoElements,
		LoaderOptions: lopts,
	}, log)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// process determines the input type (directory, archive, path inside of
// archive or single file) and processes accordingly.
func (p *processor) process(ctx context.Context, src string) error {
	if arc, inner := archive.Split(src); arc != "" {
		if inner != "" && isDocument(inner) {
			return p.processDocument(ctx, src, path.Base(inner))
		}
		if err := p.processArchive(ctx, arc, inner); err != nil {
			return fmt.Errorf("unable to process archive: %w", err)
		}
		return nil
	}

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}
	switch {
	case fi.IsDir():
		if err := p.processDir(ctx, src); err != nil {
			return fmt.Errorf("unable to process directory: %w", err)
		}
		return nil
	case fi.Mode().IsRegular():
		return p.processDocument(ctx, src, filepath.Base(src))
	}
	return fmt.Errorf("unexpected path mode for (%s)", src)
}

// processDir walks directory tree finding documents and archives. Symbolic
// links are not followed.
func (p *processor) processDir(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			p.log.Warn("Skipping path", zap.String("path", name), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, _ := filepath.Rel(dir, name)
		if strings.EqualFold(filepath.Ext(name), ".zip") {
			if err := p.processArchive(ctx, name, ""); err != nil {
				p.log.Error("Unable to process archive", zap.String("file", name), zap.Error(err))
			}
			return nil
		}
		if !isDocument(name) {
			p.log.Debug("Skipping file, not recognized as document or archive", zap.String("file", name))
			return nil
		}
		if err := p.processDocument(ctx, name, rel); err != nil {
			p.log.Error("Unable to process file", zap.String("file", name), zap.Error(err))
		}
		return nil
	})
}

// processArchive processes every document in archive under prefix.
func (p *processor) processArchive(ctx context.Context, arc, prefix string) error {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	var names []string
	err := archive.Walk(arc, prefix, func(_ string, f *fixzip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if name := archive.EntryName(f, p.env.CodePage); isDocument(name) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(names) == 0 {
		p.log.Debug("Nothing to process", zap.String("archive", arc), zap.String("path", prefix))
	}
	for _, name := range names {
		rel := strings.TrimPrefix(name, prefix)
		if err := p.processDocument(ctx, filepath.Join(arc, filepath.FromSlash(name)), rel); err != nil {
			p.log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", name), zap.Error(err))
		}
	}
	return nil
}

// processDocument styles a single document. rel is the document location
// relative to the processed source and is kept in the output path.
func (p *processor) processDocument(ctx context.Context, src, rel string) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	var outputName string
	p.log.Info("Styling starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			p.log.Error("Styling ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("styling panic: %v", r)
		} else if rerr == nil {
			p.log.Info("Styling completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	data, base, err := p.engine.Loader().Load(src)
	if err != nil {
		return err
	}
	doc, err := p.parseDocument(data, base, rel)
	if err != nil {
		return err
	}
	styled, err := p.engine.Style(doc)
	if err != nil {
		p.log.Warn("Some stylesheets were not loaded", zap.String("document", base), zap.Error(err))
	}
	p.count++

	cfg := &p.env.Cfg.Output
	if p.database != "" {
		outputName = p.database
	} else {
		if outputName, err = BuildOutputPath(cfg, NewValues(styled, rel, cfg.Format), p.dst); err != nil {
			p.log.Warn("Using default output name", zap.Error(err))
		}
		if err := p.prepareOutput(outputName); err != nil {
			return err
		}
	}

	switch cfg.Format {
	case "sqlite":
		id, err := styled.WriteSQLite(outputName, base)
		if err != nil {
			return fmt.Errorf("unable to write database: %w", err)
		}
		p.log.Debug("Run stored", zap.String("database", outputName), zap.String("run_id", id))
	default:
		f, err := os.Create(outputName)
		if err != nil {
			return err
		}
		_, err = styled.WriteText(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("unable to write dump: %w", err)
		}
	}

	if p.env.Rpt != nil {
		p.env.Rpt.Store(fmt.Sprintf("result-%02d%s", p.count, filepath.Ext(outputName)), outputName)
		p.storePreviews()
	}
	return nil
}

func (p *processor) parseDocument(data []byte, base, rel string) (*dom.Document, error) {
	ext := strings.ToLower(path.Ext(rel))
	if p.forceXML || slices.Contains(xmlExts, ext) {
		return dom.ParseXML(bytes.NewReader(data), base)
	}
	return dom.ParseHTML(bytes.NewReader(data), "", base)
}

// prepareOutput removes existing result when allowed and creates missing
// directories.
func (p *processor) prepareOutput(name string) error {
	if _, err := os.Stat(name); err == nil {
		if !p.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		p.log.Warn("Overwriting existing file", zap.String("file", name))
		return os.Remove(name)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// storePreviews puts previews of images loaded so far into the report.
func (p *processor) storePreviews() {
	res := p.engine.Resources()
	for _, url := range res.Images() {
		if p.images[url] {
			continue
		}
		p.images[url] = true
		img, err := res.Preview(url, p.env.Cfg.Output.PreviewSize)
		if err != nil {
			p.log.Debug("No preview", zap.String("url", url), zap.Error(err))
			continue
		}
		var buf bytes.Buffer
		if err := resources.EncodePNG(&buf, img); err != nil {
			p.log.Debug("Unable to encode preview", zap.String("url", url), zap.Error(err))
			continue
		}
		p.env.Rpt.StoreData(config.EntryName("images", len(p.images), url)+".png", buf.Bytes())
	}
}
