package hashrateindex

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
)

// QueryEntry is one outgoing query observed in verbose mode.
type QueryEntry struct {
	Operation string                 `json:"operation,omitempty"`
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// QuerySink records outgoing queries. Implementations must not block the
// caller and have no way to fail it.
type QuerySink interface {
	RecordQuery(ctx context.Context, entry QueryEntry)
}

// LoggerSink writes queries to a Logger at info level.
type LoggerSink struct {
	logger Logger
}

// NewLoggerSink creates a sink backed by logger.
func NewLoggerSink(logger Logger) *LoggerSink {
	if logger == nil {
		logger = NoopLogger{}
	}

	return &LoggerSink{logger: logger}
}

// RecordQuery implements QuerySink.
func (s *LoggerSink) RecordQuery(ctx context.Context, entry QueryEntry) {
	fields := map[string]interface{}{
		"query": entry.Query,
	}

	if entry.Operation != "" {
		fields["operation"] = entry.Operation
	}

	s.logger.Info("GraphQL query", fields)
}

// MultiSink fans a query out to several sinks.
type MultiSink []QuerySink

// RecordQuery implements QuerySink.
func (m MultiSink) RecordQuery(ctx context.Context, entry QueryEntry) {
	for _, sink := range m {
		if sink != nil {
			sink.RecordQuery(ctx, entry)
		}
	}
}

// Publisher is the subset of *nats.Conn used by NATSSink.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes queries to a NATS subject from a background goroutine.
// Queries arriving while the buffer is full are dropped.
type NATSSink struct {
	publisher Publisher
	conn      *nats.Conn
	subject   string
	logger    Logger

	entries chan QueryEntry
	done    chan struct{}

	mutex  sync.RWMutex
	closed bool
}

// NewNATSSink creates a sink publishing through publisher.
func NewNATSSink(publisher Publisher, subject string, logger Logger) *NATSSink {
	if subject == "" {
		subject = constants.DefaultNATSSubject
	}

	if logger == nil {
		logger = NoopLogger{}
	}

	sink := &NATSSink{
		publisher: publisher,
		subject:   subject,
		logger:    logger,
		entries:   make(chan QueryEntry, constants.SinkBufferSize),
		done:      make(chan struct{}),
	}

	go sink.run()

	return sink
}

// ConnectNATSSink dials url and returns a sink owning the connection.
func ConnectNATSSink(url, subject string, logger Logger) (*NATSSink, error) {
	conn, err := nats.Connect(url, nats.Name(constants.DefaultUserAgent))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	sink := NewNATSSink(conn, subject, logger)
	sink.conn = conn

	return sink, nil
}

// RecordQuery implements QuerySink.
func (s *NATSSink) RecordQuery(ctx context.Context, entry QueryEntry) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return
	}

	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("query sink buffer full, dropping query", map[string]interface{}{
			"subject":   s.subject,
			"operation": entry.Operation,
		})
	}
}

// Close drains pending queries and releases the connection if the sink owns it.
func (s *NATSSink) Close() error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()

		return nil
	}

	s.closed = true
	close(s.entries)
	s.mutex.Unlock()

	<-s.done

	if s.conn == nil {
		return nil
	}

	defer s.conn.Close()

	err := s.conn.FlushTimeout(constants.NATSFlushTimeout)
	if err != nil {
		return fmt.Errorf("flushing NATS connection: %w", err)
	}

	return nil
}

func (s *NATSSink) run() {
	defer close(s.done)

	for entry := range s.entries {
		data, err := json.Marshal(entry)
		if err != nil {
			s.logger.Debug("encoding query entry failed", map[string]interface{}{"error": err.Error()})

			continue
		}

		err = s.publisher.Publish(s.subject, data)
		if err != nil {
			s.logger.Debug("publishing query failed", map[string]interface{}{
				"subject": s.subject,
				"error":   err.Error(),
			})
		}
	}
}
