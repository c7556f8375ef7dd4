package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssc/config"
	"cssc/state"
	"cssc/styler"
)

const computeHelp = `%s
SOURCE:
    document(s) to style, one of:
        a file: "[path_to_file]file.html"
        a directory: "[path_to_directory]directory" - every document under it, symbolic links are not followed
        a document in archive: "[path_to_archive]archive.zip[path_in_archive]/file.xhtml"
        a directory in archive: "[path_to_archive]archive.zip[path_in_archive]" - every document under it

    .html and .htm files are read as HTML; .xhtml, .xht, .xml and .fb2 as XML.

DESTINATION:
    directory for results, names come from output name template
    if absent - current working directory
`

func computeCommand() *cli.Command {
	return &cli.Command{
		Name:         "compute",
		Usage:        "Computes styles of every element of document(s)",
		ArgsUsage:    "SOURCE [DESTINATION]",
		OnUsageError: passUsageError,
		Action:       styler.Run,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "css", Usage: "additional author stylesheet `FILE` applied after document stylesheets"},
			&cli.StringSliceFlag{Name: "user-css", Usage: "additional user stylesheet `FILE`"},
			&cli.BoolFlag{Name: "xml", Usage: "parse documents as XML regardless of extension"},
			&cli.StringFlag{Name: "format", Usage: "output `TYPE` (text or sqlite), overrides configuration"},
			&cli.StringFlag{Name: "sqlite", Usage: "store results of all documents in single database `FILE`"},
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "replace existing results"},
			&cli.StringFlag{Name: "force-zip-cp", Usage: "treat every non UTF-8 file name in archives as `ENCODING` (IANA name)"},
		},
		CustomHelpTemplate: fmt.Sprintf(computeHelp, cli.CommandHelpTemplate),
	}
}

func tokensCommand() *cli.Command {
	return &cli.Command{
		Name:         "tokens",
		Usage:        "Prints token stream of a stylesheet",
		ArgsUsage:    "STYLESHEET [DESTINATION]",
		OnUsageError: passUsageError,
		Action:       styler.Tokens,
	}
}

func sheetCommand() *cli.Command {
	return &cli.Command{
		Name:         "sheet",
		Usage:        "Parses stylesheet with its imports and prints it back",
		ArgsUsage:    "STYLESHEET [DESTINATION]",
		OnUsageError: passUsageError,
		Action:       styler.Sheet,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "origin", Value: "author", Usage: "stylesheet `ORIGIN` (default, user or author)"},
			&cli.StringSliceFlag{Name: "media", Usage: "media `TYPE` honored by @media and @import, overrides configuration"},
			&cli.BoolFlag{Name: "expand", Usage: "validate declarations and expand shorthands"},
		},
	}
}

func dumpConfigCommand() *cli.Command {
	return &cli.Command{
		Name:         "dumpconfig",
		Usage:        "Dumps either default or actual configuration (YAML)",
		ArgsUsage:    "DESTINATION",
		OnUsageError: passUsageError,
		Action:       dumpConfig,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
		},
		CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Actual configuration is the default one merged with configuration file.
`, cli.CommandHelpTemplate),
	}
}

func dumpConfig(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	kind, dump := "actual", func() ([]byte, error) { return config.Dump(env.Cfg) }
	if cmd.Bool("default") {
		kind, dump = "default", config.Prepare
	}
	data, err := dump()
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if fname == "" {
		env.Log.Info("Writing configuration", zap.String("kind", kind), zap.String("file", "STDOUT"))
		_, err = os.Stdout.Write(data)
	} else {
		env.Log.Info("Writing configuration", zap.String("kind", kind), zap.String("file", fname))
		err = os.WriteFile(fname, data, 0644)
	}
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
