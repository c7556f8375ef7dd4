package styler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssc/css"
	"cssc/loader"
	"cssc/props"
	"cssc/state"
)

// openOutput returns destination named by the second argument or stdout.
func openOutput(cmd *cli.Command) (io.Writer, func() error, error) {
	fname := cmd.Args().Get(1)
	if fname == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(fname)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return f, f.Close, nil
}

func sheetLoader(env *state.LocalEnv) *loader.Loader {
	return loader.New(env.Log, env.LoaderOptions()...)
}

// WriteTokens writes one token per line: kind and CSS text. Whitespace and
// comments are included.
func WriteTokens(w io.Writer, data []byte) error {
	t := css.NewTokenizer(data)
	for tok := t.Next(); tok.Kind != css.TokenEOF; tok = t.Next() {
		if _, err := fmt.Fprintf(w, "%-12s %q\n", tok.Kind, tok.String()); err != nil {
			return err
		}
	}
	return nil
}

// Tokens is the action of the tokens command.
func Tokens(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	src := cmd.Args().Get(0)
	if src == "" {
		return errors.New("no stylesheet has been specified")
	}
	data, base, err := sheetLoader(env).Import(src)
	if err != nil {
		return err
	}
	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); err == nil {
			err = cerr
		}
	}()
	env.Log.Debug("Writing tokens", zap.String("url", base))
	return WriteTokens(out, data)
}

// Sheet is the action of the sheet command: it parses stylesheet with all
// its imports and writes it back.
func Sheet(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	src := cmd.Args().Get(0)
	if src == "" {
		return errors.New("no stylesheet has been specified")
	}
	origin, err := css.ParseOrigin(cmd.String("origin"))
	if err != nil {
		return err
	}

	ld := sheetLoader(env)
	data, base, err := ld.Import(src)
	if err != nil {
		return err
	}
	media := env.Cfg.Engine.Media
	if m := cmd.StringSlice("media"); len(m) > 0 {
		media = m
	}
	opts := []css.Option{css.WithImporter(ld), css.WithMedia(media...)}
	if cmd.Bool("expand") {
		// drops invalid declarations and expands shorthands
		opts = append(opts, css.WithValueParser(props.NewRegistry(env.Log)))
	}
	p := css.NewParser(env.Log, opts...)
	sheet, err := p.Parse(data, origin, base)
	if err != nil {
		env.Log.Warn("Some imports were not loaded", zap.Error(err))
	}

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); err == nil {
			err = cerr
		}
	}()
	if _, err = sheet.WriteTo(out); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return nil
}
