package testdoubles

import (
	"context"
	"fmt"
	"sync"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

// Contextual log levels as recorded by ContextualLoggerSpy.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// ContextualLogRecord is one recorded contextual log call.
type ContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Attr returns the value logged under key, formatted with %v.
func (r ContextualLogRecord) Attr(key string) (string, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return fmt.Sprintf("%v", r.Args[i+1]), true
		}
	}

	return "", false
}

// ContextualLoggerSpy records calls to an entitytable.ContextualLogger in call order.
type ContextualLoggerSpy struct {
	records     []ContextualLogRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewContextualLoggerSpy creates a spy; with recordCalls false it discards everything.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelDebug, msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelInfo, msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelWarn, msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelError, msg, args)
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, ContextualLogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

// Records returns a copy of all records, optionally filtered by level (empty means all).
func (s *ContextualLoggerSpy) Records(level string) []ContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ContextualLogRecord
	for _, r := range s.records {
		if level == "" || r.Level == level {
			out = append(out, r)
		}
	}

	return out
}

// Find returns the first record with the given level and message.
func (s *ContextualLoggerSpy) Find(level, message string) (ContextualLogRecord, bool) {
	for _, r := range s.Records(level) {
		if r.Message == message {
			return r, true
		}
	}

	return ContextualLogRecord{}, false
}

func (s *ContextualLoggerSpy) HasDebugLog(message string) bool {
	_, ok := s.Find(LevelDebug, message)
	return ok
}

func (s *ContextualLoggerSpy) HasInfoLog(message string) bool {
	_, ok := s.Find(LevelInfo, message)
	return ok
}

func (s *ContextualLoggerSpy) HasWarnLog(message string) bool {
	_, ok := s.Find(LevelWarn, message)
	return ok
}

func (s *ContextualLoggerSpy) HasErrorLog(message string) bool {
	_, ok := s.Find(LevelError, message)
	return ok
}

// Reset drops all recorded calls.
func (s *ContextualLoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

var _ entitytable.ContextualLogger = (*ContextualLoggerSpy)(nil)
