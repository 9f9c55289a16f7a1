package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hanru/internal/config"
	"hanru/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Info("startup", logging.Component("test"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "hanru.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "startup") {
		t.Fatalf("log file missing entry: %q", content)
	}
	if !strings.Contains(string(content), "[test]") {
		t.Fatalf("console format missing component prefix: %q", content)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "leveled.log")

	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("suppressed line")
	logger.Warn("visible line")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "suppressed line") {
		t.Errorf("info entry must be filtered at warn level: %q", content)
	}
	if !strings.Contains(string(content), "visible line") {
		t.Errorf("warn entry missing: %q", content)
	}
}

func TestNewJSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("structured", logging.Project("proj-1"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"structured"`) {
		t.Errorf("json output malformed: %q", content)
	}
	if !strings.Contains(string(content), `"project":"proj-1"`) {
		t.Errorf("attribute missing: %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("must not panic", logging.Error(nil))
}
