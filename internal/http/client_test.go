package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hihttp "github.com/fivetwenty-io/hashrateindex-client/internal/http"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

func (l *MockLogger) messages() []string {
	messages := make([]string, 0, len(l.logs))
	for _, entry := range l.logs {
		messages = append(messages, entry["msg"].(string))
	}

	return messages
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
			assert.Equal(t, "secret", request.Header.Get("x-hi-api-key"))

			var body map[string]interface{}

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "{ ping }", body["query"])
			assert.Contains(t, body, "variables")
			assert.Nil(t, body["variables"])

			_, _ = writer.Write([]byte(`{"data":{"ping":"pong"}}`))
		}))
		defer server.Close()

		client := hihttp.NewClient(server.URL, "secret")

		resp, err := client.Post(context.Background(), "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.JSONEq(t, `{"data":{"ping":"pong"}}`, string(resp.Body))
	})

	t.Run("empty api key is still sent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			values, ok := request.Header["X-Hi-Api-Key"]
			assert.True(t, ok)
			assert.Equal(t, []string{""}, values)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := hihttp.NewClient(server.URL, "")

		_, err := client.Post(context.Background(), "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.NoError(t, err)
	})

	t.Run("configured method", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "PUT", request.Method)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := hihttp.NewClient(server.URL, "key", hihttp.WithMethod("put"))
		assert.Equal(t, "PUT", client.Method())

		_, err := client.Post(context.Background(), "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.NoError(t, err)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = writer.Write([]byte(`{"errors":[{"message":"bad interval"}]}`))
		}))
		defer server.Close()

		client := hihttp.NewClient(server.URL, "key")

		resp, err := client.Post(context.Background(), "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, 400, resp.StatusCode)

		var remoteErr *hashrateindex.RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, 400, remoteErr.StatusCode)
		assert.Equal(t, "Bad Request", remoteErr.Reason)
		assert.Equal(t, `{"errors":[{"message":"bad interval"}]}`, remoteErr.Body)
		assert.True(t, hashrateindex.IsRemote(err))
		assert.Equal(t, `400: Bad Request: {"errors":[{"message":"bad interval"}]}`, err.Error())
	})

	t.Run("error response is not retried", func(t *testing.T) {
		t.Parallel()

		var calls int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.AddInt32(&calls, 1)
			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := hihttp.NewClient(server.URL, "key")

		_, err := client.Post(context.Background(), "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.Error(t, err)
		assert.Equal(t, "503: Service Unavailable", err.Error())
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "hashrateindex-client-go", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := hihttp.NewClient(server.URL, "key")

		_, err := client.Do(context.Background(), &hihttp.Request{
			Headers: map[string]string{"X-Custom-Header": "custom-value"},
			Body:    hashrateindex.GraphQLRequest{Query: "{ ping }"},
		})
		require.NoError(t, err)
	})

	t.Run("raw body bytes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			body, _ := io.ReadAll(request.Body)
			assert.Equal(t, `{"query":"{ raw }","variables":null}`, string(body))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := hihttp.NewClient(server.URL, "key")

		_, err := client.Do(context.Background(), &hihttp.Request{
			Body: []byte(`{"query":"{ raw }","variables":null}`),
		})
		require.NoError(t, err)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		endpoint := server.URL
		server.Close()

		client := hihttp.NewClient(endpoint, "key")

		resp, err := client.Post(context.Background(), "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, hashrateindex.IsTransport(err))

		var transportErr *hashrateindex.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, endpoint, transportErr.URL)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			time.Sleep(200 * time.Millisecond)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := hihttp.NewClient(server.URL, "key", hihttp.WithTimeout(20*time.Millisecond))

		_, err := client.Post(context.Background(), "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.Error(t, err)
		assert.True(t, hashrateindex.IsTransport(err))
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := hihttp.NewClient(server.URL, "key")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Post(ctx, "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("session logs through the configured logger", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := hihttp.NewClient(server.URL, "key", hihttp.WithLogger(logger))

		_, err := client.Post(context.Background(), "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.NoError(t, err)

		assert.Contains(t, logger.messages(), "performing request")
		assert.NotContains(t, logger.messages(), "API Request")
	})
}

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	t.Run("request interceptor sees operation and variables", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "added", request.Header.Get("X-Added"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		var seen *hashrateindex.Request

		chain := hashrateindex.NewInterceptorChain()
		chain.AddRequestInterceptor(func(ctx context.Context, req *hashrateindex.Request) error {
			seen = req

			return nil
		})
		chain.AddRequestInterceptor(hashrateindex.HeaderInterceptor(map[string]string{"X-Added": "added"}))

		client := hihttp.NewClient(server.URL, "key", hihttp.WithInterceptors(chain))

		_, err := client.Do(context.Background(), &hihttp.Request{
			Operation: "network_hashrate",
			Query:     "query q { x }",
			Variables: map[string]interface{}{"first": 10},
			Body:      hashrateindex.GraphQLRequest{Query: "query q { x }"},
		})
		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.Equal(t, "network_hashrate", seen.Operation)
		assert.Equal(t, "query q { x }", seen.Query)
		assert.Equal(t, map[string]interface{}{"first": 10}, seen.Metadata[hashrateindex.MetadataVariables])
	})

	t.Run("failing request interceptor aborts before sending", func(t *testing.T) {
		t.Parallel()

		var calls int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer server.Close()

		chain := hashrateindex.NewInterceptorChain()
		chain.AddRequestInterceptor(func(ctx context.Context, req *hashrateindex.Request) error {
			return errors.New("blocked")
		})

		client := hihttp.NewClient(server.URL, "key", hihttp.WithInterceptors(chain))

		_, err := client.Post(context.Background(), "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked")
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})

	t.Run("response interceptor sees remote errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		var status int

		var respErr error

		chain := hashrateindex.NewInterceptorChain()
		chain.AddResponseInterceptor(func(ctx context.Context, req *hashrateindex.Request, resp *hashrateindex.Response) error {
			status = resp.StatusCode
			respErr = resp.Error

			return nil
		})

		client := hihttp.NewClient(server.URL, "key", hihttp.WithInterceptors(chain))

		_, err := client.Post(context.Background(), "", &hashrateindex.GraphQLRequest{Query: "{ ping }"})
		require.Error(t, err)
		assert.Equal(t, 401, status)
		assert.True(t, hashrateindex.IsRemote(respErr))
	})
}
