package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestDebugSuppressedInProduction(t *testing.T) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(log.DebugLevel)

	appLogger := &AppLogger{logger: logger, debug: false}
	appLogger.Debug("debug message that should not appear")

	if strings.Contains(buf.String(), "debug message that should not appear") {
		t.Errorf("Expected debug message to be suppressed, got: %s", buf.String())
	}
}

func TestTestLoggerCapturesAllLevels(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.Debug("debug line")
	logger.Info("info line", "key", "value")
	logger.Warn("warn line")
	logger.Error("error line")

	output := buf.String()
	for _, want := range []string{"debug line", "info line", "key", "warn line", "error line"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestSetVerboseRaisesLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{ReportTimestamp: false})
	logger.SetLevel(log.WarnLevel)
	appLogger := &AppLogger{logger: logger, debug: false}

	appLogger.Info("before verbose")
	appLogger.SetVerbose()
	appLogger.Info("after verbose")

	output := buf.String()
	if strings.Contains(output, "before verbose") {
		t.Errorf("Info should be suppressed before SetVerbose, got: %s", output)
	}
	if !strings.Contains(output, "after verbose") {
		t.Errorf("Info should appear after SetVerbose, got: %s", output)
	}
}

func TestLogPerformanceDebugOnly(t *testing.T) {
	logger, buf := NewTestLogger()
	logger.LogPerformance("build", time.Now().Add(-time.Second))

	if !strings.Contains(buf.String(), "build") {
		t.Errorf("Expected performance entry, got: %s", buf.String())
	}
}
