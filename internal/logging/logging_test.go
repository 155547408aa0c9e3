package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_DefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "bogus", Out: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	if logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fincalc.log")
	logger, closer, err := New(Options{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.WithField("action", "calculate-budget").Debug("dispatched")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"action":"calculate-budget"`) {
		t.Errorf("log file missing JSON field: %s", data)
	}
}
