package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "missing service name", mutate: func(c *Config) { c.ServiceName = "" }, wantErr: true},
		{name: "missing service version", mutate: func(c *Config) { c.ServiceVersion = "" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "bad buffer size", mutate: func(c *Config) { c.Events.BufferSize = 0 }, wantErr: true},
		{name: "events disabled skips buffer check", mutate: func(c *Config) {
			c.Events.Enabled = false
			c.Events.BufferSize = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("Validate should fail")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
		})
	}
}

func TestProfileConfigs(t *testing.T) {
	prod := ProductionConfig()
	if prod.Logging.Format != "json" || !prod.Logging.EnableSampling {
		t.Errorf("production logging = %+v, want sampled json", prod.Logging)
	}

	dev := DevelopmentConfig()
	if dev.Logging.Level != "debug" || dev.Logging.Format != "console" {
		t.Errorf("development logging = %+v, want debug console", dev.Logging)
	}
}

func TestLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topogen.log")

	logger, err := NewLogger(LoggingConfig{
		Level:      "debug",
		Format:     "json",
		Output:     path,
		TimeFormat: "rfc3339",
	})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.NewComponentLogger("compiler").WithRunID("run-1").Info("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"component":"compiler"`, `"run_id":"run-1"`, `"message":"hello"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topogen.log")

	logger, err := NewLogger(LoggingConfig{
		Level:      "warn",
		Format:     "json",
		Output:     path,
		TimeFormat: "rfc3339",
	})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Debug("dropped")
	logger.Warn("kept")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Error("debug message leaked past warn level")
	}
	if !strings.Contains(string(data), "kept") {
		t.Error("warn message missing")
	}
}

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext should return a default logger")
	}
}

func newSyncPublisher(t *testing.T) *EventPublisher {
	t.Helper()
	ep, err := NewEventPublisher(EventsConfig{
		Enabled:      true,
		BufferSize:   16,
		MaxBatchSize: 4,
	})
	if err != nil {
		t.Fatalf("NewEventPublisher failed: %v", err)
	}
	return ep
}

func TestEventPublishAndSubscribe(t *testing.T) {
	ep := newSyncPublisher(t)

	var got []Event
	ep.Subscribe(func(e Event) { got = append(got, e) }, nil)

	if err := ep.PublishCompileStarted("run-1", 3); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := ep.PublishObjectCreated("run-1", "pga", "pga.1"); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Type != EventTypeCompileStarted || got[0].RunID != "run-1" {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1].Class != "pga" || got[1].Object != "pga.1" {
		t.Errorf("second event = %+v", got[1])
	}
	if got[0].ID == "" || got[0].Timestamp.IsZero() {
		t.Error("event id and timestamp should be filled in")
	}
}

func TestEventFilters(t *testing.T) {
	ep := newSyncPublisher(t)

	var errorsOnly []Event
	ep.Subscribe(func(e Event) { errorsOnly = append(errorsOnly, e) }, FilterByLevel(EventLevelError))

	_ = ep.PublishCompileStarted("run-1", 1)
	_ = ep.PublishCompileFailed("run-1", "boom")

	if len(errorsOnly) != 1 || errorsOnly[0].Type != EventTypeCompileFailed {
		t.Errorf("filtered events = %+v, want only the failure", errorsOnly)
	}
}

func TestEventGlobalFilter(t *testing.T) {
	ep := newSyncPublisher(t)

	var got []Event
	ep.Subscribe(func(e Event) { got = append(got, e) }, nil)
	ep.AddFilter(FilterByRunID("run-2"))

	_ = ep.PublishCompileStarted("run-1", 1)
	_ = ep.PublishCompileStarted("run-2", 1)

	if len(got) != 1 || got[0].RunID != "run-2" {
		t.Errorf("events = %+v, want only run-2", got)
	}
}

func TestEventPublisherDisabled(t *testing.T) {
	ep, err := NewEventPublisher(EventsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewEventPublisher failed: %v", err)
	}

	called := false
	ep.Subscribe(func(Event) { called = true }, nil)

	if err := ep.Publish(Event{Type: EventTypeError}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if called {
		t.Error("disabled publisher should not deliver events")
	}
	if err := ep.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestEventPublisherAsync(t *testing.T) {
	ep, err := NewEventPublisher(EventsConfig{
		Enabled:       true,
		BufferSize:    16,
		MaxBatchSize:  1,
		FlushInterval: 10 * time.Millisecond,
		EnableAsync:   true,
	})
	if err != nil {
		t.Fatalf("NewEventPublisher failed: %v", err)
	}

	got := make(chan Event, 1)
	ep.Subscribe(func(e Event) { got <- e }, nil)

	if err := ep.PublishCompileStarted("run-1", 1); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case e := <-got:
		if e.Type != EventTypeCompileStarted {
			t.Errorf("event type = %s", e.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("async event not delivered")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ep.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestTelemetryLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Output = filepath.Join(t.TempDir(), "topogen.log")
	cfg.Events.EnableAsync = false

	tel, err := NewTelemetry(cfg)
	if err != nil {
		t.Fatalf("NewTelemetry failed: %v", err)
	}

	ctx := tel.WithContext(context.Background())
	if FromTelemetryContext(ctx) != tel {
		t.Error("telemetry not retrievable from context")
	}

	var events []Event
	tel.Events.Subscribe(func(e Event) { events = append(events, e) }, nil)

	ctx = WithCompileContext(ctx, "run-1", 2)
	EndCompileContext(ctx, "run-1", 3, 5, nil)

	if len(events) != 2 {
		t.Fatalf("got %d events, want started and completed", len(events))
	}
	if events[1].Type != EventTypeCompileCompleted {
		t.Errorf("final event = %s, want %s", events[1].Type, EventTypeCompileCompleted)
	}

	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}
