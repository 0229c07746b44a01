package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestNewRendersDurations(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("run finished", "duration", 1500*time.Microsecond, "issues", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["duration"] != "1.5ms" {
		t.Fatalf("unexpected duration %v", entry["duration"])
	}
	if entry["issues"] != float64(3) || entry["msg"] != "run finished" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestResolve(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	scoped := slog.New(slog.NewTextHandler(io.Discard, nil))

	if got := Resolve(context.Background(), nil); got != slog.Default() {
		t.Fatal("expected slog.Default without any logger")
	}
	if got := Resolve(context.Background(), fallback); got != fallback {
		t.Fatal("expected the fallback logger")
	}
	ctx := ContextWithLogger(context.Background(), scoped)
	if got := Resolve(ctx, fallback); got != scoped {
		t.Fatal("expected the context logger to win")
	}
	if ContextWithLogger(ctx, nil) != ctx {
		t.Fatal("a nil logger must not replace the context")
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, slog.LevelInfo)

	Component(context.Background(), base, "handler", "SimulationHandler", "SimulateEvent", "event_id", "evt-1").Info("done")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for key, want := range map[string]string{"handler": "SimulationHandler", "operation": "SimulateEvent", "event_id": "evt-1"} {
		if entry[key] != want {
			t.Fatalf("%s = %v, want %s", key, entry[key], want)
		}
	}

	buf.Reset()
	Component(context.Background(), base, "service", "SimulationService", "").Info("done")
	fresh := map[string]any{}
	if err := json.Unmarshal(buf.Bytes(), &fresh); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := fresh["operation"]; ok || fresh["service"] != "SimulationService" {
		t.Fatalf("unexpected entry without operation: %v", fresh)
	}
}
