package hashrateindex

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Envelope is a GraphQL response body: {"data": {...}} plus operation
// specific nesting. It is kept as raw JSON so key order survives.
type Envelope json.RawMessage

// MarshalJSON implements json.Marshaler.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if len(e) == 0 {
		return []byte("null"), nil
	}

	return []byte(e), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	*e = append((*e)[:0], data...)

	return nil
}

// Decode unmarshals the whole envelope into v.
func (e Envelope) Decode(v interface{}) error {
	err := json.Unmarshal(e, v)
	if err != nil {
		return fmt.Errorf("decoding envelope: %w", err)
	}

	return nil
}

// Lookup follows path from the root and returns the value found there.
// A missing key, a non-object step or a null value yields a
// *MalformedResponseError.
func (e Envelope) Lookup(path ...string) (json.RawMessage, error) {
	current := json.RawMessage(e)

	for _, key := range path {
		var object map[string]json.RawMessage

		err := json.Unmarshal(current, &object)
		if err != nil || object == nil {
			return nil, e.malformed(path, key)
		}

		value, ok := object[key]
		if !ok || isNull(value) {
			return nil, e.malformed(path, key)
		}

		current = value
	}

	return current, nil
}

// Records decodes the array found at path.
func (e Envelope) Records(path ...string) ([]*Record, error) {
	raw, err := e.Lookup(path...)
	if err != nil {
		return nil, err
	}

	var records []*Record

	err = json.Unmarshal(raw, &records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordsNotAnArray, err)
	}

	for index, record := range records {
		if record == nil {
			return nil, fmt.Errorf("%w: element %d is null", ErrRecordsNotAnArray, index)
		}
	}

	return records, nil
}

// WithRecords returns a copy of the envelope whose array at path is replaced
// by records. Key order is preserved at every level.
func (e Envelope) WithRecords(records []*Record, path ...string) (Envelope, error) {
	_, err := e.Lookup(path...)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []*Record{}
	}

	encoded, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}

	replaced, err := replaceAt(json.RawMessage(e), path, encoded)
	if err != nil {
		return nil, err
	}

	return Envelope(replaced), nil
}

// GraphQLErrors returns the entries of a top-level "errors" array, if any.
func (e Envelope) GraphQLErrors() []GraphQLError {
	var body struct {
		Errors []GraphQLError `json:"errors"`
	}

	err := e.Decode(&body)
	if err != nil {
		return nil
	}

	return body.Errors
}

func (e Envelope) malformed(path []string, missing string) *MalformedResponseError {
	malformed := &MalformedResponseError{
		Path:    append([]string(nil), path...),
		Missing: missing,
	}

	for _, gqlErr := range e.GraphQLErrors() {
		malformed.GraphQLErrors = append(malformed.GraphQLErrors, gqlErr.Message)
	}

	return malformed
}

func replaceAt(raw json.RawMessage, path []string, value json.RawMessage) (json.RawMessage, error) {
	if len(path) == 0 {
		return value, nil
	}

	object := orderedmap.New[string, json.RawMessage]()

	err := object.UnmarshalJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path[0], err)
	}

	child, _ := object.Get(path[0])

	updated, err := replaceAt(child, path[1:], value)
	if err != nil {
		return nil, err
	}

	object.Set(path[0], updated)

	encoded, err := object.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path[0], err)
	}

	return encoded, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
