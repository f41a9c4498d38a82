package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/hashrateindex-client/internal/catalog"
	"github.com/fivetwenty-io/hashrateindex-client/internal/http"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

// Client implements the hashrateindex.Client interface.
type Client struct {
	httpClient *http.Client
	catalog    *catalog.Catalog
	logger     hashrateindex.Logger
}

var _ hashrateindex.Client = (*Client)(nil)

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *hashrateindex.Config, logger hashrateindex.Logger) []http.Option {
	httpOpts := []http.Option{
		http.WithLogger(logger),
		http.WithMethod(config.Method),
		http.WithTimeout(config.HTTPTimeout),
		http.WithInterceptors(createInterceptorChain(config, logger)),
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	return httpOpts
}

// createInterceptorChain puts the verbose query sink and debug logging ahead
// of caller interceptors.
func createInterceptorChain(config *hashrateindex.Config, logger hashrateindex.Logger) *hashrateindex.InterceptorChain {
	if !config.Verbose && !config.Debug {
		return config.Interceptors
	}

	chain := hashrateindex.NewInterceptorChain()

	if config.Verbose {
		sink := config.QuerySink
		if sink == nil {
			sink = hashrateindex.NewLoggerSink(logger)
		}

		chain.AddRequestInterceptor(hashrateindex.QueryInterceptor(sink))
	}

	if config.Debug {
		chain.AddRequestInterceptor(hashrateindex.LoggingInterceptor(logger))
		chain.AddResponseInterceptor(hashrateindex.LoggingResponseInterceptor(logger))
	}

	chain.Merge(config.Interceptors)

	return chain
}

// New creates a new Hashrate Index client backed by the default catalog.
func New(config *hashrateindex.Config) (*Client, error) {
	return NewWithCatalog(config, catalog.Default())
}

// NewWithCatalog creates a client dispatching through a custom catalog.
func NewWithCatalog(config *hashrateindex.Config, operations *catalog.Catalog) (*Client, error) {
	if config == nil {
		return nil, hashrateindex.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, hashrateindex.ErrEndpointRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = hashrateindex.NoopLogger{}
	}

	return &Client{
		httpClient: http.NewClient(config.Endpoint, config.APIKey, createHTTPClientOptions(config, logger)...),
		catalog:    operations,
		logger:     logger,
	}, nil
}

// BitcoinOverview implements hashrateindex.OperationsClient.BitcoinOverview.
func (c *Client) BitcoinOverview(ctx context.Context) (hashrateindex.Envelope, error) {
	return c.invoke(ctx, catalog.OpBitcoinOverview, catalog.Values{})
}

// Hashprice implements hashrateindex.OperationsClient.Hashprice.
func (c *Client) Hashprice(ctx context.Context, interval hashrateindex.Interval, currency string) (hashrateindex.Envelope, error) {
	return c.invoke(ctx, catalog.OpHashprice, catalog.Values{
		catalog.ParamInterval: interval,
		catalog.ParamCurrency: currency,
	})
}

// NetworkHashrate implements hashrateindex.OperationsClient.NetworkHashrate.
func (c *Client) NetworkHashrate(ctx context.Context, interval hashrateindex.Interval) (hashrateindex.Envelope, error) {
	return c.invoke(ctx, catalog.OpNetworkHashrate, catalog.Values{catalog.ParamInterval: interval})
}

// NetworkDifficulty implements hashrateindex.OperationsClient.NetworkDifficulty.
func (c *Client) NetworkDifficulty(ctx context.Context, interval hashrateindex.Interval) (hashrateindex.Envelope, error) {
	return c.invoke(ctx, catalog.OpNetworkDifficulty, catalog.Values{catalog.ParamInterval: interval})
}

// OHLCPrices implements hashrateindex.OperationsClient.OHLCPrices.
func (c *Client) OHLCPrices(ctx context.Context, interval hashrateindex.Interval) (hashrateindex.Envelope, error) {
	return c.invoke(ctx, catalog.OpOHLCPrices, catalog.Values{catalog.ParamInterval: interval})
}

// ASICPriceIndex implements hashrateindex.OperationsClient.ASICPriceIndex.
func (c *Client) ASICPriceIndex(ctx context.Context, interval hashrateindex.Interval, currency string) (hashrateindex.Envelope, error) {
	return c.invoke(ctx, catalog.OpASICPriceIndex, catalog.Values{
		catalog.ParamInterval: interval,
		catalog.ParamCurrency: currency,
	})
}

// Execute implements hashrateindex.DynamicClient.Execute.
func (c *Client) Execute(ctx context.Context, operation string, args []string) (hashrateindex.Envelope, error) {
	op, err := c.catalog.Lookup(operation)
	if err != nil {
		return nil, err
	}

	values, err := op.Coerce(args)
	if err != nil {
		return nil, err
	}

	return c.invoke(ctx, op.Name, values)
}

// Operations implements hashrateindex.DynamicClient.Operations.
func (c *Client) Operations() []hashrateindex.OperationInfo {
	operations := c.catalog.Operations()
	infos := make([]hashrateindex.OperationInfo, 0, len(operations))

	for _, operation := range operations {
		infos = append(infos, operation.Info())
	}

	return infos
}

// Request implements hashrateindex.Client.Request.
func (c *Client) Request(ctx context.Context, query string, variables map[string]interface{}) (hashrateindex.Envelope, error) {
	if strings.TrimSpace(query) == "" {
		return nil, hashrateindex.ErrEmptyQuery
	}

	return c.send(ctx, "", &hashrateindex.GraphQLRequest{Query: query, Variables: variables})
}

func (c *Client) invoke(ctx context.Context, name string, values catalog.Values) (hashrateindex.Envelope, error) {
	operation, err := c.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}

	request, err := operation.Build(values)
	if err != nil {
		return nil, err
	}

	c.checkInterval(operation, request)

	envelope, err := c.send(ctx, operation.Name, request)
	if err != nil {
		return nil, err
	}

	if !operation.HasTransform() {
		return envelope, nil
	}

	records, err := envelope.Records(operation.Path...)
	if err != nil {
		return nil, withOperation(err, operation.Name)
	}

	envelope, err = envelope.WithRecords(operation.Transform(records), operation.Path...)
	if err != nil {
		return nil, withOperation(err, operation.Name)
	}

	return envelope, nil
}

func (c *Client) send(ctx context.Context, operation string, request *hashrateindex.GraphQLRequest) (hashrateindex.Envelope, error) {
	resp, err := c.httpClient.Post(ctx, operation, request)
	if err != nil {
		return nil, err
	}

	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("%w: %s response body is not JSON", hashrateindex.ErrMalformedResponse, describe(operation))
	}

	return hashrateindex.Envelope(resp.Body), nil
}

// checkInterval warns about interval values the service is not documented to accept.
func (c *Client) checkInterval(operation *catalog.Operation, request *hashrateindex.GraphQLRequest) {
	interval, ok := request.Variables[catalog.ParamInterval].(hashrateindex.Interval)
	if !ok || len(operation.Intervals) == 0 {
		return
	}

	for _, documented := range operation.Intervals {
		if interval == documented {
			return
		}
	}

	c.logger.Warn("interval not documented for operation", map[string]interface{}{
		"operation": operation.Name,
		"interval":  interval.String(),
		"known":     interval.IsKnown(),
	})
}

func withOperation(err error, operation string) error {
	malformed := &hashrateindex.MalformedResponseError{}
	if errors.As(err, &malformed) {
		malformed.Operation = operation

		return malformed
	}

	return fmt.Errorf("%s: %w", operation, err)
}

func describe(operation string) string {
	if operation == "" {
		return "raw query"
	}

	return operation
}
