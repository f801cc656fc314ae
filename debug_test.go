package drift

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestSetLoggerNilRestoresNop(t *testing.T) {
	SetLogger(nil)
	if logger == nil {
		t.Fatal("logger is nil")
	}
	logger.Info("dropped")
}

func TestDebugLogOnlyWhenEnabled(t *testing.T) {
	logs := observeLogs(t)

	d := NewDriver("footer", NewArena(DefaultArenaConfig()))
	d.debugLog(frameStats{particles: 3})
	if logs.Len() != 0 {
		t.Fatalf("logged %d entries with debug off", logs.Len())
	}

	d.debug = true
	d.debugLog(frameStats{stepTime: time.Millisecond, particles: 3, trails: 2, vertices: 96})
	entries := logs.FilterMessage("frame").All()
	if len(entries) != 1 {
		t.Fatalf("frame entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["view"] != "footer" {
		t.Errorf("view = %v, want footer", fields["view"])
	}
	if fields["particles"] != int64(3) {
		t.Errorf("particles = %v, want 3", fields["particles"])
	}
	if fields["vertices"] != int64(96) {
		t.Errorf("vertices = %v, want 96", fields["vertices"])
	}
}

func TestArenaResizeLogsPopulation(t *testing.T) {
	logs := observeLogs(t)
	a := NewArena(DefaultArenaConfig())
	a.Resize(1200, 300)
	if logs.FilterMessage("arena populated").Len() != 1 {
		t.Error("missing arena populated entry")
	}
}
