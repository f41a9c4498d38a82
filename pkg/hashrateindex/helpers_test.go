package hashrateindex_test

import (
	"context"
	"sync"

	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

// memoryLogger keeps "level: message" entries.
type memoryLogger struct {
	mutex   sync.Mutex
	entries []string
}

func (l *memoryLogger) add(level, msg string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.entries = append(l.entries, level+": "+msg)
}

func (l *memoryLogger) Debug(msg string, _ map[string]interface{}) { l.add("debug", msg) }

func (l *memoryLogger) Info(msg string, _ map[string]interface{}) { l.add("info", msg) }

func (l *memoryLogger) Warn(msg string, _ map[string]interface{}) { l.add("warn", msg) }

func (l *memoryLogger) Error(msg string, _ map[string]interface{}) { l.add("error", msg) }

func (l *memoryLogger) snapshot() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return append([]string(nil), l.entries...)
}

// memorySink collects query entries.
type memorySink struct {
	mutex   sync.Mutex
	entries []hashrateindex.QueryEntry
}

func (s *memorySink) RecordQuery(_ context.Context, entry hashrateindex.QueryEntry) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries = append(s.entries, entry)
}
