// Package telemetry provides observability instrumentation for topogen.
//
// The telemetry package integrates structured logging (zerolog) and event
// publishing into a unified system for monitoring and debugging compilation
// runs.
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceName = "topogen"
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
// Add telemetry to context:
//
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
// The logger provides component-specific logging with automatic context
// propagation:
//
//	logger := tel.Logger.NewComponentLogger("compiler")
//	logger = logger.WithRunID("run-123").WithClass("pga")
//	logger.Info("Defining classes")
//	logger.WithError(err).Error("Compilation failed")
//
// Log levels: trace, debug, info, warn, error, fatal
//
// # Event Publishing
//
// Events capture the lifecycle of compilation runs for audit and tooling:
//
//	tel.Events.Subscribe(func(event telemetry.Event) {
//	    fmt.Println(event.Type, event.Message)
//	}, telemetry.FilterByType(telemetry.EventTypeCompileCompleted))
//
//	_ = tel.Events.PublishCompileStarted(runID, len(files))
package telemetry
