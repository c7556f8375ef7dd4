// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"

	"cssc/config"
	"cssc/loader"
)

type envKey struct{}

// LocalEnv is the state of a single program run, available to every
// subcommand through context.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// Set from compute flags.
	Overwrite    bool
	CodePage     encoding.Encoding // non UTF-8 names in archives
	SheetCharset encoding.Encoding // stylesheets without BOM and @charset
	DefaultStyle []byte            // user agent stylesheet, nil when disabled

	start   time.Time
	undoStd func()
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{
		start:        time.Now(),
		DefaultStyle: loader.DefaultStylesheet(),
	})
}

// EnvFromContext panics when ctx was not prepared with ContextWithEnv.
func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("program state is missing from context")
	}
	return env
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// LoaderOptions returns resource loader settings for this run. Fallback
// stylesheet charset comes from flags first, then from configuration.
func (e *LocalEnv) LoaderOptions() []loader.Option {
	opts := []loader.Option{loader.WithCodePage(e.CodePage)}
	enc := e.SheetCharset
	if enc == nil && e.Cfg != nil && e.Cfg.Engine.Charset != "" {
		enc, _ = charset.Lookup(e.Cfg.Engine.Charset)
	}
	if enc != nil {
		opts = append(opts, loader.WithFallbackCharset(enc))
	}
	return opts
}

// RedirectStdLog sends output of standard library logger to Log until
// RestoreStdLog is called.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log != nil {
		e.undoStd = zap.RedirectStdLog(e.Log)
	}
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.undoStd != nil {
		e.undoStd()
		e.undoStd = nil
	}
}
