package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestVerboseToggle(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be enabled")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be disabled")
	}
}

func TestDebugSuppressedWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetVerbose(false)

	Debug("hidden %d", 1)
	Info("hidden")
	Warn("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLevelsWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetVerbose(true)
	defer SetVerbose(false)

	Debug("d %s", "one")
	Info("i")
	Warn("w")
	Section("Ingest")

	out := buf.String()
	for _, want := range []string{"[DEBUG] d one", "[INFO] i", "[WARN] w", "=== Ingest ==="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestErrorAlwaysPrinted(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetVerbose(false)

	Error("boom: %v", "cause")

	if !strings.Contains(buf.String(), "[ERROR] boom: cause") {
		t.Errorf("expected error output, got %q", buf.String())
	}
}
