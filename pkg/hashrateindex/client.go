package hashrateindex

import (
	"context"
	"time"
)

// OperationsClient exposes one method per catalog operation. Each accepts
// only its required inputs; page sizes and slugs come from the catalog.
type OperationsClient interface {
	// BitcoinOverview fetches the most recent network overview snapshot.
	BitcoinOverview(ctx context.Context) (Envelope, error)
	// Hashprice returns hashprice in the given currency (USD or BTC).
	Hashprice(ctx context.Context, interval Interval, currency string) (Envelope, error)
	// NetworkHashrate returns the network hashrate series.
	NetworkHashrate(ctx context.Context, interval Interval) (Envelope, error)
	// NetworkDifficulty returns the network difficulty series with the
	// bitcoin price removed from every record.
	NetworkDifficulty(ctx context.Context, interval Interval) (Envelope, error)
	// OHLCPrices returns bitcoin open/high/low/close prices.
	OHLCPrices(ctx context.Context, interval Interval) (Envelope, error)
	// ASICPriceIndex returns the ASIC price index in the given currency.
	ASICPriceIndex(ctx context.Context, interval Interval, currency string) (Envelope, error)
}

// DynamicClient invokes operations by name.
type DynamicClient interface {
	// Execute looks the operation up by name and coerces each positional
	// argument according to the declared parameter kind.
	Execute(ctx context.Context, operation string, args []string) (Envelope, error)
	// Operations describes every registered operation.
	Operations() []OperationInfo
}

// Client is the full Hashrate Index API client.
type Client interface {
	OperationsClient
	DynamicClient
	// Request sends arbitrary GraphQL text. It is the escape hatch for
	// queries the catalog does not cover.
	Request(ctx context.Context, query string, variables map[string]interface{}) (Envelope, error)
}

// Resolver shapes a successful envelope into records or a table.
type Resolver interface {
	Resolve(operation string, envelope Envelope) (*Result, error)
}

// OperationInfo describes a catalog operation.
type OperationInfo struct {
	Name        string      `json:"name"                yaml:"name"`
	Description string      `json:"description"         yaml:"description"`
	Params      []ParamInfo `json:"params"              yaml:"params"`
	Path        []string    `json:"path"                yaml:"path"`
	Intervals   []Interval  `json:"intervals,omitempty" yaml:"intervals,omitempty"`
}

// ParamInfo describes one positional parameter of an operation.
type ParamInfo struct {
	Name     string      `json:"name"              yaml:"name"`
	Kind     string      `json:"kind"              yaml:"kind"`
	Required bool        `json:"required"          yaml:"required"`
	Default  interface{} `json:"default,omitempty" yaml:"default,omitempty"`
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration.
//
// Only Endpoint is required; hiclient.New fills the remaining defaults.
// Timeouts are an opaque pass-through to the HTTP transport: the client
// itself never cancels, retries or pools connections across calls.
type Config struct {
	// Endpoint: GraphQL endpoint URL. Defaults to the public Hashrate Index API.
	Endpoint string
	// APIKey: sent in the x-hi-api-key header. May be empty.
	APIKey string
	// Method: HTTP method, POST unless overridden.
	Method string
	// HTTPTimeout: per-request transport timeout. Zero selects the default.
	HTTPTimeout time.Duration
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Verbose: hands every outgoing query to QuerySink before it is sent.
	Verbose bool
	// QuerySink: receives queries in verbose mode. Defaults to a sink
	// writing to Logger at info level.
	QuerySink QuerySink
	// Debug: enables request/response logging in the transport.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
	// Interceptors: optional chain run around every request.
	Interceptors *InterceptorChain
}

// NoopLogger discards everything.
type NoopLogger struct{}

// Debug implements Logger.
func (NoopLogger) Debug(string, map[string]interface{}) {}

// Info implements Logger.
func (NoopLogger) Info(string, map[string]interface{}) {}

// Warn implements Logger.
func (NoopLogger) Warn(string, map[string]interface{}) {}

// Error implements Logger.
func (NoopLogger) Error(string, map[string]interface{}) {}
