package state

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/charmap"

	"cssc/config"
	"cssc/loader"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if !bytes.Equal(env.DefaultStyle, loader.DefaultStylesheet()) {
		t.Error("user agent stylesheet not set")
	}
	if env.CodePage != nil || env.SheetCharset != nil {
		t.Error("encodings are set by default")
	}
}

func TestLocalEnv_LoaderOptions(t *testing.T) {
	tests := []struct {
		name string
		env  *LocalEnv
		want int
	}{
		{"defaults", &LocalEnv{}, 1},
		{"flag charset", &LocalEnv{SheetCharset: charmap.Windows1251}, 2},
		{"config charset", &LocalEnv{Cfg: &config.Config{Engine: config.EngineConfig{Charset: "koi8-r"}}}, 2},
		{"unknown charset", &LocalEnv{Cfg: &config.Config{Engine: config.EngineConfig{Charset: "no-such"}}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.env.LoaderOptions()); got != tt.want {
				t.Errorf("LoaderOptions() returned %d options, want %d", got, tt.want)
			}
		})
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now()}
	for _, delay := range []time.Duration{5 * time.Millisecond, 10 * time.Millisecond} {
		time.Sleep(delay)
		if uptime := env.Uptime(); uptime < delay {
			t.Errorf("After %v delay, uptime %v is too small", delay, uptime)
		}
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	env := &LocalEnv{Log: zap.New(core)}

	env.RedirectStdLog()
	if env.undoStd == nil {
		t.Fatal("Expected undoStd to be set")
	}
	log.Print("from standard logger")
	env.RestoreStdLog()
	log.Print("after restore")

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "from standard logger" {
		t.Errorf("captured %+v", entries)
	}
}

func TestLocalEnv_NilLogger(t *testing.T) {
	env := &LocalEnv{}
	// Should not panic
	env.RedirectStdLog()
	if env.undoStd != nil {
		t.Error("Expected undoStd to remain nil")
	}
	env.RestoreStdLog()
}

func TestLocalEnv_RedirectAndRestore(t *testing.T) {
	env := &LocalEnv{
		Cfg: &config.Config{Version: 1},
		Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
	}
	for i := range 3 {
		env.RedirectStdLog()
		if env.undoStd == nil {
			t.Errorf("Iteration %d: undoStd not set", i)
		}
		env.RestoreStdLog()
		if env.undoStd != nil {
			t.Errorf("Iteration %d: undoStd not reset", i)
		}
	}
}
