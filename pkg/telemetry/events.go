package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a telemetry event in the topogen pipeline.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source identifies where the event originated.
	Source string `json:"source"`

	// RunID is the associated compilation run ID, if applicable.
	RunID string `json:"run_id,omitempty"`

	// Class is the associated class name, if applicable.
	Class string `json:"class,omitempty"`

	// Object is the associated object name, if applicable.
	Object string `json:"object,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// EventType constants for common event types.
const (
	EventTypeCompileStarted   = "compile.started"
	EventTypeCompileCompleted = "compile.completed"
	EventTypeCompileFailed    = "compile.failed"
	EventTypeClassDefined     = "class.defined"
	EventTypeObjectCreated    = "object.created"
	EventTypeWatchTriggered   = "watch.triggered"
	EventTypeError            = "error"
)

// EventLevel constants for event severity.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher manages event publishing and subscriptions.
type EventPublisher struct {
	config      EventsConfig
	buffer      chan Event
	subscribers []subscriberEntry
	filters     []EventFilter
	wg          sync.WaitGroup
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	if !cfg.Enabled {
		return &EventPublisher{config: cfg}, nil
	}

	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	ep := &EventPublisher{
		config:      cfg,
		buffer:      make(chan Event, cfg.BufferSize),
		subscribers: make([]subscriberEntry, 0),
		filters:     make([]EventFilter, 0),
		ctx:         ctx,
		cancel:      cancel,
	}

	// Start the event processing goroutine
	if cfg.EnableAsync {
		ep.wg.Add(1)
		go ep.processEvents()
	}

	return ep, nil
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}

	// Set ID and timestamp if not already set
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Apply global filters
	ep.mu.RLock()
	for _, filter := range ep.filters {
		if !filter(event) {
			ep.mu.RUnlock()
			return nil // Event filtered out
		}
	}
	ep.mu.RUnlock()

	// Send to buffer if async, otherwise process immediately
	if ep.config.EnableAsync {
		select {
		case ep.buffer <- event:
			return nil
		case <-ep.ctx.Done():
			return fmt.Errorf("event publisher stopped")
		default:
			return fmt.Errorf("event buffer full, event dropped")
		}
	}

	// Synchronous publishing
	ep.deliverEvent(event)
	return nil
}

// PublishCompileStarted publishes a compilation started event.
func (ep *EventPublisher) PublishCompileStarted(runID string, files int) error {
	return ep.Publish(Event{
		Type:    EventTypeCompileStarted,
		Source:  "compiler",
		RunID:   runID,
		Message: fmt.Sprintf("Compilation %s started over %d files", runID, files),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"files": files,
		},
	})
}

// PublishCompileCompleted publishes a compilation completed event.
func (ep *EventPublisher) PublishCompileCompleted(runID string, classes, objects int, duration time.Duration) error {
	return ep.Publish(Event{
		Type:    EventTypeCompileCompleted,
		Source:  "compiler",
		RunID:   runID,
		Message: fmt.Sprintf("Compilation %s completed: %d classes, %d objects", runID, classes, objects),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"classes":  classes,
			"objects":  objects,
			"duration": duration.Seconds(),
		},
	})
}

// PublishCompileFailed publishes a compilation failed event.
func (ep *EventPublisher) PublishCompileFailed(runID, reason string) error {
	return ep.Publish(Event{
		Type:    EventTypeCompileFailed,
		Source:  "compiler",
		RunID:   runID,
		Message: fmt.Sprintf("Compilation %s failed: %s", runID, reason),
		Level:   EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishClassDefined publishes a class defined event.
func (ep *EventPublisher) PublishClassDefined(runID, class string) error {
	return ep.Publish(Event{
		Type:    EventTypeClassDefined,
		Source:  "compiler",
		RunID:   runID,
		Class:   class,
		Message: fmt.Sprintf("Class %s defined", class),
		Level:   EventLevelInfo,
	})
}

// PublishObjectCreated publishes an object created event.
func (ep *EventPublisher) PublishObjectCreated(runID, class, object string) error {
	return ep.Publish(Event{
		Type:    EventTypeObjectCreated,
		Source:  "compiler",
		RunID:   runID,
		Class:   class,
		Object:  object,
		Message: fmt.Sprintf("Object %s created from class %s", object, class),
		Level:   EventLevelInfo,
	})
}

// PublishWatchTriggered publishes a watch triggered event.
func (ep *EventPublisher) PublishWatchTriggered(file string) error {
	return ep.Publish(Event{
		Type:    EventTypeWatchTriggered,
		Source:  "watcher",
		Message: fmt.Sprintf("Configuration change detected in %s", file),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"file": file,
		},
	})
}

// Subscribe adds a new event subscriber.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// AddFilter adds a global event filter.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.filters = append(ep.filters, filter)
}

// processEvents processes events from the buffer asynchronously.
func (ep *EventPublisher) processEvents() {
	defer ep.wg.Done()

	batch := make([]Event, 0, ep.config.MaxBatchSize)

	for {
		select {
		case event := <-ep.buffer:
			batch = append(batch, event)

			// Flush batch if it reaches max size
			if len(batch) >= ep.config.MaxBatchSize {
				ep.flushBatch(batch)
				batch = make([]Event, 0, ep.config.MaxBatchSize)
			}

		case <-time.After(ep.config.FlushInterval):
			if len(batch) > 0 {
				ep.flushBatch(batch)
				batch = make([]Event, 0, ep.config.MaxBatchSize)
			}

		case <-ep.ctx.Done():
			// Flush remaining events before shutting down
			if len(batch) > 0 {
				ep.flushBatch(batch)
			}
			return
		}
	}
}

// flushBatch delivers a batch of events to subscribers.
func (ep *EventPublisher) flushBatch(events []Event) {
	for _, event := range events {
		ep.deliverEvent(event)
	}
}

// deliverEvent delivers an event to all subscribers.
func (ep *EventPublisher) deliverEvent(event Event) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, entry := range ep.subscribers {
		// Apply subscriber-specific filter
		if entry.filter != nil && !entry.filter(event) {
			continue
		}

		entry.subscriber(event)
	}
}

// Shutdown gracefully shuts down the event publisher.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled {
		return nil
	}

	// Signal shutdown
	ep.cancel()

	// Wait for processing to complete with timeout
	done := make(chan struct{})
	go func() {
		ep.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event publisher shutdown timeout")
	}
}

// Common event filters.

// FilterByLevel creates a filter that only allows events of a specific level or higher.
func FilterByLevel(minLevel string) EventFilter {
	levels := map[string]int{
		EventLevelInfo:    0,
		EventLevelWarning: 1,
		EventLevelError:   2,
	}

	minLevelValue := levels[minLevel]

	return func(event Event) bool {
		return levels[event.Level] >= minLevelValue
	}
}

// FilterByType creates a filter that only allows events of specific types.
func FilterByType(types ...string) EventFilter {
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	return func(event Event) bool {
		return typeSet[event.Type]
	}
}

// FilterByRunID creates a filter that only allows events for a specific run.
func FilterByRunID(runID string) EventFilter {
	return func(event Event) bool {
		return event.RunID == runID
	}
}

// FilterByClass creates a filter that only allows events for a specific class.
func FilterByClass(class string) EventFilter {
	return func(event Event) bool {
		return event.Class == class
	}
}
