package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssc/config"
	"cssc/misc"
	"cssc/state"
)

// setup runs after command line is parsed: it loads configuration, opens
// debug report and logs.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		return ctx, nil
	}
	env := state.EnvFromContext(ctx)
	file := cmd.String("config")

	var err error
	if env.Cfg, err = config.LoadConfiguration(file); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug report: %w", err)
		}
		storeConfig(env, file)
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("hash", misc.GetGitHash()),
		zap.String("runtime", runtime.Version()))
	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if file == "" {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

// storeConfig puts effective configuration into report under the name of
// the file it came from.
func storeConfig(env *state.LocalEnv, file string) {
	data, err := config.Dump(env.Cfg)
	if err != nil {
		return
	}
	name := "actual.yaml"
	if file != "" {
		name = filepath.Base(file)
	}
	env.Rpt.StoreData("config/"+name, data)
}

// teardown flushes logs and writes report. Nothing may be logged after
// that, errors go to stderr.
func teardown(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	var err error
	if e := env.Rpt.Close(); e != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", e))
	}
	if env.Cfg != nil && env.Cfg.Logging.FileLogger.Destination != "" {
		err = multierr.Append(err, removeEmptyPanicLog(filepath.Dir(env.Cfg.Logging.FileLogger.Destination)))
	}
	return err
}

func removeEmptyPanicLog(dir string) error {
	debug.SetCrashOutput(nil, debug.CrashOptions{})
	name := filepath.Join(dir, misc.GetAppName()+"-panic.log")
	fi, err := os.Stat(name)
	if err != nil || fi.Size() != 0 {
		return nil
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", name, err)
	}
	return nil
}

// errLogged is set when error returned by a command already went to log.
var errLogged bool

func logExitError(ctx context.Context, _ *cli.Command, err error) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Error("Program ended with error", zap.Error(err))
		errLogged = true
	}
}

func passUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func unknownCommand(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}
