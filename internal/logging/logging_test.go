package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestResolveDir(t *testing.T) {
	t.Setenv("LOGS_FOLDER", "")
	if got := ResolveDir("/opt/crm"); got != filepath.Join("/opt/crm", "logs") {
		t.Errorf("Expected binary-relative logs dir, got %s", got)
	}
	if got := ResolveDir(""); got != "logs" {
		t.Errorf("Expected ./logs, got %s", got)
	}

	t.Setenv("LOGS_FOLDER", "/var/log/crm")
	if got := ResolveDir("/opt/crm"); got != "/var/log/crm" {
		t.Errorf("Expected LOGS_FOLDER to win, got %s", got)
	}
}

func TestSetup_WritesBothSinks(t *testing.T) {
	original := log.Logger
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(originalLevel)
	})

	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer
	if err := Setup(Options{Verbose: true, Dir: dir, Console: &console}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	log.Debug().Str("snapshot", "default").Msg("Snapshot refreshed")

	if !strings.Contains(console.String(), "Snapshot refreshed") {
		t.Errorf("Expected console output, got %q", console.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	if !strings.Contains(string(data), `"snapshot":"default"`) {
		t.Errorf("Expected structured JSON in log file, got %q", data)
	}
}

func TestSetup_InfoLevelDropsDebug(t *testing.T) {
	original := log.Logger
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(originalLevel)
	})

	var console bytes.Buffer
	if err := Setup(Options{Dir: t.TempDir(), Console: &console}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	log.Debug().Msg("hidden")
	if strings.Contains(console.String(), "hidden") {
		t.Error("Expected debug messages to be dropped at info level")
	}
}
