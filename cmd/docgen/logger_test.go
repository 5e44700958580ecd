package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-docgen/cmd/docgen/config"
	"github.com/goliatone/go-docgen/docgen"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ docgen.Logger = (*zap.SugaredLogger)(nil)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docgen.log")
	logger, err := newLogger(config.LogConfig{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Sugar().Infof("rendered %s", "fatura")
	logger.Sugar().Debugf("hidden")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"msg":"rendered fatura"`) {
		t.Fatalf("expected json message, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug to be filtered, got %q", out)
	}
}
