package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	err := Setup(LogConfig{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	log := WithComponent("pages")
	log.Debug().Int("total", 3).Msg("selection parsed")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(data))
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q: %v", line, err)
	}
	if entry["component"] != "pages" || entry["message"] != "selection parsed" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if err := Setup(LogConfig{Level: "loud", Output: "stderr"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSetupLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	if err := Setup(LogConfig{Level: "warn", Format: "json", Output: path}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log := WithComponent("output")
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("level filter not applied: %s", data)
	}
}
