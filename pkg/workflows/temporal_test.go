package workflows

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ghuser/restocker/pkg/logger"
)

func TestTemporalLogger_ForwardsKeyvals(t *testing.T) {
	var buf bytes.Buffer
	l := newTemporalLogger(logger.NewJSON(&buf, "debug"))

	l.Warn("activity retry", "ActivityType", "inventory.sweep_low_stock", "Attempt", 2)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("parse log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "WARN" || entry["msg"] != "activity retry" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["ActivityType"] != "inventory.sweep_low_stock" || entry["Attempt"] != float64(2) {
		t.Errorf("keyvals not forwarded: %v", entry)
	}
}

func TestTemporalLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := newTemporalLogger(logger.NewJSON(&buf, "info"))

	l.Debug("hidden")
	l.Info("shown")
	l.Error("failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line must be filtered at info level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "failed") {
		t.Errorf("expected info and error lines, got %q", out)
	}
}
