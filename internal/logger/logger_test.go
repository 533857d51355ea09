package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesLeveledLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recent.log")
	if err := Init(path); err != nil {
		t.Fatalf("init: %v", err)
	}
	Infof("touched %s", "alice")
	Warnf("slow %d", 3)
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(b)
	for _, want := range []string{"[INFO] touched alice", "[WARN] slow 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q:\n%s", want, out)
		}
	}
}

func TestSetOutputAndDebugGate(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { _ = Close() })

	Debugf("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written without RECENT_MCP_DEBUG: %q", buf.String())
	}

	t.Setenv("RECENT_MCP_DEBUG", "1")
	Debugf("shown %d", 1)
	Errorf("boom")
	if !strings.Contains(buf.String(), "[DEBUG] shown 1") || !strings.Contains(buf.String(), "[ERROR] boom") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
