package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hiclient"
)

// MCP tool names and arguments that are not catalog operations.
const (
	MCPServerName    = "hrindex"
	GraphQLQueryTool = "graphql_query"
	argQuery         = "query"
	argVariables     = "variables"
)

// MCPTool pairs an MCP tool definition with its handler.
type MCPTool struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// NewServeMCPCommand creates the serve-mcp command.
func NewServeMCPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve Hashrate Index operations as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout. Every catalog
operation becomes a tool, plus graphql_query for raw queries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			opts := LoadOptions()

			logger, err := NewLogger(cmd.ErrOrStderr(), opts.LogFile, opts.Debug)
			if err != nil {
				return err
			}

			defer func() { _ = logger.Close() }()

			session, err := NewSession(opts, logger)
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, session.Close())
			}()

			client, err := session.Client()
			if err != nil {
				return err
			}

			logger.Info("serving MCP tools on stdio", map[string]interface{}{
				"tools": len(client.Operations()) + 1,
			})

			err = server.ServeStdio(NewMCPServer(client, version))
			if err != nil {
				return fmt.Errorf("serving MCP: %w", err)
			}

			return nil
		},
	}
}

// NewMCPServer registers every tool of MCPTools on a new MCP server.
func NewMCPServer(client hashrateindex.Client, version string) *server.MCPServer {
	mcpServer := server.NewMCPServer(MCPServerName, version, server.WithToolCapabilities(false))

	for _, tool := range MCPTools(client) {
		mcpServer.AddTool(tool.Tool, tool.Handler)
	}

	return mcpServer
}

// MCPTools returns one tool per catalog operation followed by graphql_query.
func MCPTools(client hashrateindex.Client) []MCPTool {
	resolver := hiclient.NewResolver(false)
	infos := client.Operations()
	tools := make([]MCPTool, 0, len(infos)+1)

	for _, info := range infos {
		tools = append(tools, operationTool(client, resolver, info))
	}

	return append(tools, queryTool(client))
}

func operationTool(client hashrateindex.Client, resolver hashrateindex.Resolver, info hashrateindex.OperationInfo) MCPTool {
	options := []mcp.ToolOption{mcp.WithDescription(info.Description)}

	for _, param := range info.Params {
		options = append(options, paramOption(info, param))
	}

	tool := mcp.NewTool(info.Name, options...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		envelope, err := client.Execute(ctx, info.Name, positionalArguments(info, req.GetArguments()))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := resolver.Resolve(info.Name, envelope)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return jsonResult(result.Records), nil
	}

	return MCPTool{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func paramOption(info hashrateindex.OperationInfo, param hashrateindex.ParamInfo) mcp.ToolOption {
	properties := []mcp.PropertyOption{mcp.Description(describeParam(info, param))}
	if param.Required {
		properties = append(properties, mcp.Required())
	}

	if param.Kind == "int" {
		return mcp.WithNumber(param.Name, properties...)
	}

	return mcp.WithString(param.Name, properties...)
}

func describeParam(info hashrateindex.OperationInfo, param hashrateindex.ParamInfo) string {
	switch param.Kind {
	case "interval":
		intervals := info.Intervals
		if len(intervals) == 0 {
			intervals = hashrateindex.KnownIntervals()
		}

		return fmt.Sprintf("Time window, one of %v", intervals)
	case "currency":
		return "Currency, USD or BTC"
	default:
		if param.Default != nil {
			return fmt.Sprintf("Optional %s, defaults to %v", param.Name, param.Default)
		}

		return param.Name
	}
}

// positionalArguments orders named tool arguments by parameter position,
// stopping at the first one that is absent.
func positionalArguments(info hashrateindex.OperationInfo, arguments map[string]interface{}) []string {
	args := make([]string, 0, len(info.Params))

	for _, param := range info.Params {
		value, ok := arguments[param.Name]
		if !ok || value == nil {
			break
		}

		args = append(args, argumentString(value))
	}

	return args
}

func argumentString(value interface{}) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

func queryTool(client hashrateindex.Client) MCPTool {
	tool := mcp.NewTool(GraphQLQueryTool,
		mcp.WithDescription("Run a raw GraphQL query against the Hashrate Index API."),
		mcp.WithString(argQuery,
			mcp.Required(),
			mcp.Description("GraphQL query text"),
		),
		mcp.WithString(argVariables,
			mcp.Description("Query variables as a JSON object"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		variables, err := parseVariables(req.GetString(argVariables, ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		envelope, err := client.Request(ctx, req.GetString(argQuery, ""), variables)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return jsonResult(envelope), nil
	}

	return MCPTool{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func jsonResult(value interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err))
	}

	return mcp.NewToolResultText(string(data))
}
