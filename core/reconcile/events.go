package reconcile

import "go.uber.org/zap"

// EventKind identifies a progress event emitted during a run.
type EventKind string

const (
	// EventTableStarted marks the beginning of one table's reconciliation.
	EventTableStarted EventKind = "table_started"
	// EventDiffComputed carries the add/modify/delete counts for a table.
	EventDiffComputed EventKind = "diff_computed"
	// EventTableDisabled marks the start of the offline mutation window.
	EventTableDisabled EventKind = "table_disabled"
	// EventMutationApplied reports a single applied mutation (verbose only).
	EventMutationApplied EventKind = "mutation_applied"
	// EventTableEnabled marks the end of the offline mutation window.
	EventTableEnabled EventKind = "table_enabled"
	// EventOutcome carries the final per-table outcome.
	EventOutcome EventKind = "outcome"
)

// Event is a structured progress notification. The engine only emits
// events; rendering them is the sink's concern.
type Event struct {
	Kind     EventKind
	RunID    string
	Table    string
	Adds     int
	Mods     int
	Dels     int
	Mutation string
	Outcome  Outcome
	Err      error
}

// EventSink receives progress events from the engine. Implementations
// must not block; the engine publishes synchronously.
type EventSink interface {
	Publish(Event)
}

// LogSink renders events through a zap logger.
type LogSink struct {
	log *zap.Logger
}

// NewLogSink builds an event sink backed by the given logger.
func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

// Publish logs one event with structured fields.
func (s *LogSink) Publish(e Event) {
	fields := []zap.Field{
		zap.String("run_id", e.RunID),
		zap.String("table", e.Table),
	}
	switch e.Kind {
	case EventTableStarted:
		s.log.Info("reconciling table", fields...)
	case EventDiffComputed:
		fields = append(fields,
			zap.Int("add", e.Adds),
			zap.Int("modify", e.Mods),
			zap.Int("delete", e.Dels))
		s.log.Info("diff computed", fields...)
	case EventTableDisabled:
		s.log.Info("table disabled", fields...)
	case EventMutationApplied:
		fields = append(fields, zap.String("mutation", e.Mutation))
		s.log.Debug("mutation applied", fields...)
	case EventTableEnabled:
		s.log.Info("table enabled", fields...)
	case EventOutcome:
		fields = append(fields, zap.String("outcome", string(e.Outcome)))
		if e.Err != nil {
			fields = append(fields, zap.Error(e.Err))
			s.log.Error("table reconciliation failed", fields...)
			return
		}
		s.log.Info("table reconciled", fields...)
	}
}

// nopSink swallows events when no sink is configured.
type nopSink struct{}

func (nopSink) Publish(Event) {}
