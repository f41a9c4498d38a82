package constants

import "time"

// Endpoint and wire defaults.
const (
	// DefaultEndpoint is the public Hashrate Index GraphQL endpoint.
	DefaultEndpoint = "https://api.hashrateindex.com/graphql"

	// DefaultMethod is the HTTP method used for GraphQL requests.
	DefaultMethod = "POST"

	// APIKeyHeader carries the static API key.
	APIKeyHeader = "x-hi-api-key"

	// ContentTypeJSON is sent with every request body.
	ContentTypeJSON = "application/json"

	// DefaultUserAgent identifies the client library.
	DefaultUserAgent = "hashrateindex-client-go"
)

// Page sizes.
const (
	// DefaultPageSize is the number of time-series nodes requested per call.
	DefaultPageSize = 10000

	// OverviewPageSize is the number of overview snapshots requested.
	OverviewPageSize = 1
)

// Chart slugs understood by getChartBySlug.
const (
	// SlugPriceAndDifficulty selects bitcoin price and network difficulty.
	SlugPriceAndDifficulty = "bitcoin-price-and-difficulty"

	// SlugOHLC selects bitcoin open/high/low/close prices.
	SlugOHLC = "bitcoin-ohlc"

	// SlugASICPriceIndexPrefix is completed with the lowercase currency.
	SlugASICPriceIndexPrefix = "asic-price-index-"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// HTTP status codes commonly used.
const (
	// HTTPStatusOK represents a successful HTTP response.
	HTTPStatusOK = 200

	// HTTPStatusMultipleChoices is the first non-2xx status.
	HTTPStatusMultipleChoices = 300
)

// Observability.
const (
	// SinkBufferSize bounds the number of queued queries an asynchronous sink holds.
	SinkBufferSize = 100

	// DefaultNATSSubject receives published queries.
	DefaultNATSSubject = "hashrateindex.queries"

	// NATSFlushTimeout bounds the flush performed when a NATS sink is closed.
	NATSFlushTimeout = 2 * time.Second

	// MetricsNamespace prefixes every Prometheus metric name.
	MetricsNamespace = "hashrateindex"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and log files.
	ConfigFilePerm = 0600
)

// CLI defaults.
const (
	// DefaultLogFile mirrors the request log written next to the working directory.
	DefaultLogFile = "requests.log"

	// ConfigDirName is created under the user's home directory.
	ConfigDirName = ".hrindex"

	// EnvPrefix prefixes environment variables read by the CLI.
	EnvPrefix = "HRINDEX"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// ArgumentSeparator splits positional operation arguments on the command line.
	ArgumentSeparator = ","
)

// Format constants.
const (
	// FormatTable for tabular output.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)
