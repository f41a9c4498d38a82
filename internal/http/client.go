// Package http sends GraphQL request bodies to the Hashrate Index endpoint.
//
// Every call builds its own transport session: a go-retryablehttp client with
// retries disabled over a non-pooled net/http client, so nothing is shared
// between concurrent calls and each call is exactly one attempt.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

// Request is one call to the endpoint.
type Request struct {
	Method    string
	Operation string
	// Query is reported to interceptors; the wire body comes from Body.
	Query     string
	Variables map[string]interface{}
	Headers   map[string]string
	Body      interface{}
}

// Response is the raw HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
}

// Client is the GraphQL transport.
type Client struct {
	endpoint     string
	apiKey       string
	method       string
	userAgent    string
	timeout      time.Duration
	logger       hashrateindex.Logger
	interceptors *hashrateindex.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger handed to the retryablehttp session.
func WithLogger(logger hashrateindex.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithMethod sets the default HTTP method.
func WithMethod(method string) Option {
	return func(c *Client) {
		if method != "" {
			c.method = strings.ToUpper(method)
		}
	}
}

// WithTimeout sets the per-request transport timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithInterceptors sets the interceptor chain run around every call.
func WithInterceptors(chain *hashrateindex.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a transport for endpoint authenticated with apiKey.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	client := &Client{
		endpoint:  endpoint,
		apiKey:    apiKey,
		method:    constants.DefaultMethod,
		userAgent: constants.DefaultUserAgent,
		timeout:   constants.DefaultHTTPTimeout,
		logger:    hashrateindex.NoopLogger{},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Method returns the default HTTP method.
func (c *Client) Method() string {
	return c.method
}

// Post sends a GraphQL request with the client's default method. operation
// is reported to interceptors and may be empty for raw queries.
func (c *Client) Post(ctx context.Context, operation string, request *hashrateindex.GraphQLRequest) (*Response, error) {
	return c.Do(ctx, &Request{
		Operation: operation,
		Query:     request.Query,
		Variables: request.Variables,
		Body:      request,
	})
}

// Do sends one request. A non-2xx status returns both the response and a
// *hashrateindex.RemoteError; network failures return a *hashrateindex.TransportError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = c.method
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	intercepted := &hashrateindex.Request{
		Method:    method,
		URL:       c.endpoint,
		Operation: req.Operation,
		Query:     req.Query,
		Headers:   c.headers(req.Headers),
		Body:      body,
		Metadata:  map[string]interface{}{hashrateindex.MetadataVariables: req.Variables},
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, err
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, intercepted.Method, intercepted.URL, intercepted.Body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = intercepted.Headers

	httpResp, err := c.newSession().Do(httpReq)
	if err != nil {
		transportErr := &hashrateindex.TransportError{Method: intercepted.Method, URL: intercepted.URL, Err: err}
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &hashrateindex.Response{Error: transportErr})

		return nil, transportErr
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		transportErr := &hashrateindex.TransportError{Method: intercepted.Method, URL: intercepted.URL, Err: err}
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &hashrateindex.Response{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Error:      transportErr,
		})

		return nil, transportErr
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	var remoteErr error
	if resp.StatusCode < constants.HTTPStatusOK || resp.StatusCode >= constants.HTTPStatusMultipleChoices {
		remoteErr = &hashrateindex.RemoteError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp.StatusCode, resp.Status),
			Body:       string(respBody),
		}
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &hashrateindex.Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Headers,
		Body:       respBody,
		Error:      remoteErr,
	})
	if err != nil {
		return resp, err
	}

	if remoteErr != nil {
		return resp, remoteErr
	}

	return resp, nil
}

func (c *Client) headers(extra map[string]string) http.Header {
	headers := make(http.Header)
	headers.Set("Content-Type", constants.ContentTypeJSON)
	headers.Set(constants.APIKeyHeader, c.apiKey)

	if c.userAgent != "" {
		headers.Set("User-Agent", c.userAgent)
	}

	for key, value := range extra {
		headers.Set(key, value)
	}

	return headers
}

// newSession builds a single-use retryablehttp client that never retries.
func (c *Client) newSession() *retryablehttp.Client {
	httpClient := cleanhttp.DefaultClient()
	httpClient.Timeout = c.timeout

	session := retryablehttp.NewClient()
	session.HTTPClient = httpClient
	session.RetryMax = 0
	session.CheckRetry = neverRetry
	session.ErrorHandler = retryablehttp.PassthroughErrorHandler
	session.Logger = &leveledLogger{logger: c.logger}

	return session
}

func neverRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	return false, nil
}

func encodeBody(body interface{}) ([]byte, error) {
	switch typed := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return typed, nil
	default:
		var buffer bytes.Buffer

		encoder := json.NewEncoder(&buffer)
		encoder.SetEscapeHTML(false)

		err := encoder.Encode(typed)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		return bytes.TrimRight(buffer.Bytes(), "\n"), nil
	}
}

// reasonPhrase extracts "Not Found" from "404 Not Found".
func reasonPhrase(statusCode int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(statusCode)))
	if reason == "" {
		reason = http.StatusText(statusCode)
	}

	return reason
}

// leveledLogger adapts hashrateindex.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger hashrateindex.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(keysAndValues)/2)

	for index := 0; index+1 < len(keysAndValues); index += 2 {
		result[fmt.Sprint(keysAndValues[index])] = keysAndValues[index+1]
	}

	return result
}
