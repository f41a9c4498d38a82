package commands_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/hashrateindex-client/cmd/hrindex/commands"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hiclient"
)

func newMCPTools(t *testing.T, server *apiServer) map[string]commands.MCPTool {
	t.Helper()

	client, err := hiclient.NewWithKey(server.URL, "test-key")
	require.NoError(t, err)

	return toolsByName(client)
}

// newSessionTools builds the tools the way serve-mcp does, from a session.
func newSessionTools(t *testing.T, opts commands.Options, logger hashrateindex.Logger) map[string]commands.MCPTool {
	t.Helper()

	session, err := commands.NewSession(opts, logger)
	require.NoError(t, err)

	t.Cleanup(func() { assert.NoError(t, session.Close()) })

	client, err := session.Client()
	require.NoError(t, err)

	return toolsByName(client)
}

func toolsByName(client hashrateindex.Client) map[string]commands.MCPTool {
	tools := make(map[string]commands.MCPTool)
	for _, tool := range commands.MCPTools(client) {
		tools[tool.Tool.Name] = tool
	}

	return tools
}

func callTool(t *testing.T, tool commands.MCPTool, args map[string]interface{}) (*mcp.CallToolResult, string) {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Name = tool.Tool.Name
	req.Params.Arguments = args

	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)

	return result, text.Text
}

func TestMCPTools(t *testing.T) {
	t.Parallel()

	t.Run("one tool per operation plus raw query", func(t *testing.T) {
		t.Parallel()

		client, err := hiclient.NewWithKey("http://127.0.0.1:1", "")
		require.NoError(t, err)

		var names []string
		for _, tool := range commands.MCPTools(client) {
			names = append(names, tool.Tool.Name)
		}

		assert.Equal(t, []string{
			"bitcoin_overview",
			"hashprice",
			"network_hashrate",
			"network_difficulty",
			"ohlc_prices",
			"asic_price_index",
			commands.GraphQLQueryTool,
		}, names)
	})

	t.Run("required parameters", func(t *testing.T) {
		t.Parallel()

		tools := newMCPTools(t, newAPIServer(t, http.StatusOK, hashpriceBody))

		schema := tools["hashprice"].Tool.InputSchema
		assert.Equal(t, []string{"inputInterval", "currency"}, schema.Required)
		assert.Contains(t, schema.Properties, "first")
		assert.Empty(t, tools["bitcoin_overview"].Tool.InputSchema.Required)
	})

	t.Run("operation returns records", func(t *testing.T) {
		t.Parallel()

		server := newAPIServer(t, http.StatusOK, hashpriceBody)
		tools := newMCPTools(t, server)

		result, text := callTool(t, tools["hashprice"], map[string]interface{}{
			"inputInterval": "_7_DAYS",
			"currency":      "USD",
			"first":         float64(5),
		})
		assert.False(t, result.IsError)
		assert.JSONEq(t, `[
			{"timestamp": "2024-01-01T00:00:00Z", "usdHashprice": 0.061},
			{"timestamp": "2024-01-02T00:00:00Z", "usdHashprice": 0.058}
		]`, text)

		body := server.lastRequest(t)
		assert.Equal(t, map[string]interface{}{"inputInterval": "_7_DAYS", "first": float64(5)}, body["variables"])
	})

	t.Run("missing required argument", func(t *testing.T) {
		t.Parallel()

		server := newAPIServer(t, http.StatusOK, hashpriceBody)
		tools := newMCPTools(t, server)

		result, text := callTool(t, tools["hashprice"], map[string]interface{}{"inputInterval": "_7_DAYS"})
		assert.True(t, result.IsError)
		assert.Contains(t, text, "currency")
		assert.Empty(t, server.requests())
	})

	t.Run("remote error", func(t *testing.T) {
		t.Parallel()

		tools := newMCPTools(t, newAPIServer(t, http.StatusForbidden, `{"message":"invalid key"}`))

		result, text := callTool(t, tools["bitcoin_overview"], nil)
		assert.True(t, result.IsError)
		assert.Contains(t, text, "403")
	})

	t.Run("raw query", func(t *testing.T) {
		t.Parallel()

		server := newAPIServer(t, http.StatusOK, `{"data":{"viewer":{"id":"1"}}}`)
		tools := newMCPTools(t, server)

		result, text := callTool(t, tools[commands.GraphQLQueryTool], map[string]interface{}{
			"query":     "query q($id: ID) { viewer { id } }",
			"variables": `{"id":"1"}`,
		})
		assert.False(t, result.IsError)
		assert.JSONEq(t, `{"data":{"viewer":{"id":"1"}}}`, text)

		body := server.lastRequest(t)
		assert.Equal(t, map[string]interface{}{"id": "1"}, body["variables"])
	})

	t.Run("raw query with bad variables", func(t *testing.T) {
		t.Parallel()

		server := newAPIServer(t, http.StatusOK, `{}`)
		tools := newMCPTools(t, server)

		result, _ := callTool(t, tools[commands.GraphQLQueryTool], map[string]interface{}{
			"query":     "{ viewer { id } }",
			"variables": "not json",
		})
		assert.True(t, result.IsError)
		assert.Empty(t, server.requests())
	})
}

func TestNewMCPServer(t *testing.T) {
	t.Parallel()

	client, err := hiclient.New(&hashrateindex.Config{Endpoint: "http://127.0.0.1:1"})
	require.NoError(t, err)

	server := commands.NewMCPServer(client, "1.0.0")
	require.NotNil(t, server)

	_, err = json.Marshal(commands.MCPTools(client)[0].Tool)
	require.NoError(t, err)
}

func TestMCPTools_Session(t *testing.T) {
	t.Parallel()

	hashpriceArgs := map[string]interface{}{"inputInterval": "_7_DAYS", "currency": "USD"}

	t.Run("verbose logs every tool query", func(t *testing.T) {
		t.Parallel()

		server := newAPIServer(t, http.StatusOK, hashpriceBody)
		logger := &memoryLogger{}
		tools := newSessionTools(t, commands.Options{
			Endpoint: server.URL,
			APIKey:   "test-key",
			Verbose:  true,
		}, logger)

		result, _ := callTool(t, tools["hashprice"], hashpriceArgs)
		assert.False(t, result.IsError)
		assert.Contains(t, logger.all(), "info: GraphQL query")
	})

	t.Run("quiet without verbose", func(t *testing.T) {
		t.Parallel()

		server := newAPIServer(t, http.StatusOK, hashpriceBody)
		logger := &memoryLogger{}
		tools := newSessionTools(t, commands.Options{Endpoint: server.URL, APIKey: "test-key"}, logger)

		callTool(t, tools["hashprice"], hashpriceArgs)
		assert.NotContains(t, logger.all(), "info: GraphQL query")
	})

	t.Run("debug logs requests", func(t *testing.T) {
		t.Parallel()

		server := newAPIServer(t, http.StatusOK, hashpriceBody)
		logger := &memoryLogger{}
		tools := newSessionTools(t, commands.Options{
			Endpoint: server.URL,
			APIKey:   "test-key",
			Debug:    true,
		}, logger)

		callTool(t, tools["hashprice"], hashpriceArgs)
		assert.Contains(t, logger.all(), "debug: API Request")
		assert.Contains(t, logger.all(), "debug: API Response")
	})

	t.Run("metrics file is written on close", func(t *testing.T) {
		t.Parallel()

		server := newAPIServer(t, http.StatusOK, hashpriceBody)
		metricsFile := filepath.Join(t.TempDir(), "hrindex.prom")

		session, err := commands.NewSession(commands.Options{
			Endpoint:    server.URL,
			APIKey:      "test-key",
			MetricsFile: metricsFile,
		}, &memoryLogger{})
		require.NoError(t, err)

		client, err := session.Client()
		require.NoError(t, err)

		callTool(t, toolsByName(client)["hashprice"], hashpriceArgs)
		require.NoError(t, session.Close())

		data, err := os.ReadFile(metricsFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `hashrateindex_requests_total{code="200",operation="hashprice"} 1`)
	})
}
