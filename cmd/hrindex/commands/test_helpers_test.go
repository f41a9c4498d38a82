package commands_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const hashpriceBody = `{"data":{"getHashprice":{"nodes":[{"timestamp":"2024-01-01T00:00:00Z","usdHashprice":0.061},{"timestamp":"2024-01-02T00:00:00Z","usdHashprice":0.058}]}}}`

// apiServer answers every request with a fixed status and body and keeps
// the decoded request bodies.
type apiServer struct {
	*httptest.Server

	mutex  sync.Mutex
	bodies []map[string]interface{}
}

func newAPIServer(t *testing.T, statusCode int, body string) *apiServer {
	t.Helper()

	server := &apiServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		payload, _ := io.ReadAll(request.Body)

		var decoded map[string]interface{}
		_ = json.Unmarshal(payload, &decoded)

		server.mutex.Lock()
		server.bodies = append(server.bodies, decoded)
		server.mutex.Unlock()

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(statusCode)
		_, _ = writer.Write([]byte(body))
	}))

	t.Cleanup(server.Close)

	return server
}

func (s *apiServer) requests() []map[string]interface{} {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]map[string]interface{}(nil), s.bodies...)
}

func (s *apiServer) lastRequest(t *testing.T) map[string]interface{} {
	t.Helper()

	requests := s.requests()
	require.NotEmpty(t, requests)

	return requests[len(requests)-1]
}

// memoryLogger keeps every message with its level.
type memoryLogger struct {
	mutex    sync.Mutex
	messages []string
}

func (l *memoryLogger) record(level, msg string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.messages = append(l.messages, level+": "+msg)
}

func (l *memoryLogger) Debug(msg string, _ map[string]interface{}) { l.record("debug", msg) }

func (l *memoryLogger) Info(msg string, _ map[string]interface{}) { l.record("info", msg) }

func (l *memoryLogger) Warn(msg string, _ map[string]interface{}) { l.record("warn", msg) }

func (l *memoryLogger) Error(msg string, _ map[string]interface{}) { l.record("error", msg) }

func (l *memoryLogger) all() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return append([]string(nil), l.messages...)
}
