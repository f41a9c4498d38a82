package hashrateindex

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Typed errors below match these through errors.Is.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrOperationNotFound = errors.New("operation not found")
	ErrRemote            = errors.New("remote error")
	ErrTransport         = errors.New("transport error")
	ErrMalformedResponse = errors.New("malformed response")
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired     = errors.New("config is required")
	ErrEndpointRequired   = errors.New("API endpoint is required")
	ErrInvalidCurrency    = fmt.Errorf("%w: invalid currency input", ErrInvalidArgument)
	ErrTooManyArguments   = fmt.Errorf("%w: too many arguments", ErrInvalidArgument)
	ErrMissingArgument    = fmt.Errorf("%w: missing required argument", ErrInvalidArgument)
	ErrInvalidInteger     = fmt.Errorf("%w: expected an integer", ErrInvalidArgument)
	ErrEmptyQuery         = fmt.Errorf("%w: query is required", ErrInvalidArgument)
	ErrInvalidVariables   = fmt.Errorf("%w: variables must be a JSON object", ErrInvalidArgument)
	ErrRecordsNotAnArray  = fmt.Errorf("%w: payload is not an array of objects", ErrMalformedResponse)
	ErrDuplicateOperation = errors.New("operation already registered")
)

// RemoteError is returned for any non-2xx HTTP response.
type RemoteError struct {
	StatusCode int
	Reason     string
	Body       string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Reason)
	}

	return fmt.Sprintf("%d: %s: %s", e.StatusCode, e.Reason, e.Body)
}

// Is reports whether target is ErrRemote.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// TransportError wraps DNS, dial, timeout and connection failures.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// MalformedResponseError is returned when a successful response lacks the
// extraction path of its operation.
type MalformedResponseError struct {
	Operation string
	Path      []string
	// Missing is the first key of Path that was not found.
	Missing string
	// GraphQLErrors carries the messages of an "errors" array, if the body had one.
	GraphQLErrors []string
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	var builder strings.Builder

	builder.WriteString("malformed response")

	if e.Operation != "" {
		builder.WriteString(" for ")
		builder.WriteString(e.Operation)
	}

	fmt.Fprintf(&builder, ": missing %q in path %s", e.Missing, strings.Join(e.Path, "."))

	if len(e.GraphQLErrors) > 0 {
		builder.WriteString(" (graphql errors: ")
		builder.WriteString(strings.Join(e.GraphQLErrors, "; "))
		builder.WriteString(")")
	}

	return builder.String()
}

// Is reports whether target is ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// IsInvalidArgument checks if the error is an invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsOperationNotFound checks if the error is an unknown operation error.
func IsOperationNotFound(err error) bool {
	return errors.Is(err, ErrOperationNotFound)
}

// IsRemote checks if the error came from a non-2xx response.
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

// IsTransport checks if the error is a network-level failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsMalformedResponse checks if the response lacked its expected payload.
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// StatusCode returns the HTTP status of a RemoteError, or 0.
func StatusCode(err error) int {
	remoteErr := &RemoteError{}
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode
	}

	return 0
}
