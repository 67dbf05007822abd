package telemetry

import (
	"context"
	"time"
)

// Telemetry provides a unified telemetry interface combining logging and
// events.
type Telemetry struct {
	Logger *Logger
	Events *EventPublisher
	Config *Config
}

// telemetryContextKey is the context key for telemetry instances.
type telemetryContextKey struct{}

// NewTelemetry creates a new telemetry instance from configuration.
func NewTelemetry(cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	events, err := NewEventPublisher(cfg.Events)
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		Logger: logger,
		Events: events,
		Config: cfg,
	}, nil
}

// WithContext adds the telemetry instance to the context.
func (t *Telemetry) WithContext(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, telemetryContextKey{}, t)
	ctx = t.Logger.WithContext(ctx)
	return ctx
}

// FromTelemetryContext retrieves the telemetry instance from the context.
// If no telemetry is found, it returns nil.
func FromTelemetryContext(ctx context.Context) *Telemetry {
	if t, ok := ctx.Value(telemetryContextKey{}).(*Telemetry); ok {
		return t
	}
	return nil
}

// Shutdown gracefully shuts down all telemetry components.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.Events.Shutdown(ctx)
}

// WithCompileContext creates a context enriched with run-specific telemetry
// and publishes the compile started event.
func WithCompileContext(ctx context.Context, runID string, files int) context.Context {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return ctx
	}

	logger := tel.Logger.WithRunID(runID)
	ctx = logger.WithContext(ctx)

	_ = tel.Events.PublishCompileStarted(runID, files)

	ctx = context.WithValue(ctx, compileTimerKey{}, time.Now())

	return ctx
}

// compileTimerKey is the context key for the compile start time.
type compileTimerKey struct{}

// EndCompileContext completes a compile context, publishing the completion or
// failure event.
func EndCompileContext(ctx context.Context, runID string, classes, objects int, err error) {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return
	}

	var duration time.Duration
	if start, ok := ctx.Value(compileTimerKey{}).(time.Time); ok {
		duration = time.Since(start)
	}

	if err != nil {
		_ = tel.Events.PublishCompileFailed(runID, err.Error())
		return
	}

	_ = tel.Events.PublishCompileCompleted(runID, classes, objects, duration)
}
