package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/hashrateindex-client/internal/client"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

// recordedRequest is one request seen by a graphQLServer.
type recordedRequest struct {
	Method  string
	Headers http.Header
	Body    []byte
}

// decoded returns the request body as a GraphQL request.
func (r recordedRequest) decoded(t *testing.T) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}

	require.NoError(t, json.Unmarshal(r.Body, &body))

	return body
}

// graphQLServer records every request and answers with a fixed status and body.
type graphQLServer struct {
	*httptest.Server

	mutex      sync.Mutex
	requests   []recordedRequest
	statusCode int
	body       string
}

func newGraphQLServer(t *testing.T, statusCode int, body string) *graphQLServer {
	t.Helper()

	server := &graphQLServer{statusCode: statusCode, body: body}
	server.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		payload, _ := io.ReadAll(request.Body)

		server.mutex.Lock()
		server.requests = append(server.requests, recordedRequest{
			Method:  request.Method,
			Headers: request.Header.Clone(),
			Body:    payload,
		})
		server.mutex.Unlock()

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(server.statusCode)
		_, _ = writer.Write([]byte(server.body))
	}))

	t.Cleanup(server.Close)

	return server
}

func (s *graphQLServer) recorded() []recordedRequest {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]recordedRequest(nil), s.requests...)
}

func newTestClient(t *testing.T, endpoint string, configure ...func(*hashrateindex.Config)) *client.Client {
	t.Helper()

	config := &hashrateindex.Config{
		Endpoint: endpoint,
		APIKey:   "test-key",
	}

	for _, apply := range configure {
		apply(config)
	}

	c, err := client.New(config)
	require.NoError(t, err)

	return c
}

// captureSink collects queries handed over in verbose mode.
type captureSink struct {
	mutex   sync.Mutex
	entries []hashrateindex.QueryEntry
}

func (s *captureSink) RecordQuery(_ context.Context, entry hashrateindex.QueryEntry) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries = append(s.entries, entry)
}

// recordingLogger keeps every message with its level.
type recordingLogger struct {
	mutex    sync.Mutex
	messages []string
}

func (l *recordingLogger) record(level, msg string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.messages = append(l.messages, level+": "+msg)
}

func (l *recordingLogger) Debug(msg string, _ map[string]interface{}) { l.record("debug", msg) }

func (l *recordingLogger) Info(msg string, _ map[string]interface{}) { l.record("info", msg) }

func (l *recordingLogger) Warn(msg string, _ map[string]interface{}) { l.record("warn", msg) }

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.record("error", msg) }

func (l *recordingLogger) all() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return append([]string(nil), l.messages...)
}
