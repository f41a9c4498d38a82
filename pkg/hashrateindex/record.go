package hashrateindex

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Record is one element of an operation payload. Field order follows the
// server response and values are kept as the raw JSON that was received.
type Record struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, json.RawMessage]()}
}

func (r *Record) ensure() {
	if r.fields == nil {
		r.fields = orderedmap.New[string, json.RawMessage]()
	}
}

// Set encodes value as JSON and stores it under name.
func (r *Record) Set(name string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding field %s: %w", name, err)
	}

	r.SetRaw(name, raw)

	return nil
}

// SetRaw stores raw JSON under name. Existing fields keep their position.
func (r *Record) SetRaw(name string, raw json.RawMessage) {
	r.ensure()
	r.fields.Set(name, raw)
}

// Get returns the raw JSON of a field.
func (r *Record) Get(name string) (json.RawMessage, bool) {
	if r.fields == nil {
		return nil, false
	}

	return r.fields.Get(name)
}

// Has reports whether the field is present.
func (r *Record) Has(name string) bool {
	_, ok := r.Get(name)

	return ok
}

// Value decodes a field. Numbers decode to json.Number so their text is
// preserved exactly; absent fields decode to nil.
func (r *Record) Value(name string) interface{} {
	raw, ok := r.Get(name)
	if !ok {
		return nil
	}

	return decodeRaw(raw)
}

// Delete removes a field and reports whether it was present.
func (r *Record) Delete(name string) bool {
	if r.fields == nil {
		return false
	}

	_, present := r.fields.Delete(name)

	return present
}

// Fields returns field names in order.
func (r *Record) Fields() []string {
	if r.fields == nil {
		return nil
	}

	names := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}

	return names
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r.fields == nil {
		return 0
	}

	return r.fields.Len()
}

// MarshalJSON implements json.Marshaler, keeping field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	r.ensure()

	data, err := r.fields.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	return data, nil
}

// UnmarshalJSON implements json.Unmarshaler. Only JSON objects are accepted.
func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: got %s", ErrRecordsNotAnArray, truncate(trimmed))
	}

	fields := orderedmap.New[string, json.RawMessage]()

	err := fields.UnmarshalJSON(trimmed)
	if err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	r.fields = fields

	return nil
}

// MarshalYAML implements yaml.Marshaler, keeping field order.
func (r *Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	if r.fields == nil {
		return node, nil
	}

	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key}
		valueNode := &yaml.Node{}

		err := valueNode.Encode(yamlValue(decodeRaw(pair.Value)))
		if err != nil {
			return nil, fmt.Errorf("encoding field %s: %w", pair.Key, err)
		}

		node.Content = append(node.Content, keyNode, valueNode)
	}

	return node, nil
}

func decodeRaw(raw json.RawMessage) interface{} {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value interface{}

	err := decoder.Decode(&value)
	if err != nil {
		return string(raw)
	}

	return value
}

// yamlValue turns json.Number into int64 or float64 so YAML emits plain numbers.
func yamlValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case json.Number:
		if integer, err := typed.Int64(); err == nil {
			return integer
		}

		if float, err := typed.Float64(); err == nil {
			return float
		}

		return typed.String()
	case map[string]interface{}:
		for key, nested := range typed {
			typed[key] = yamlValue(nested)
		}

		return typed
	case []interface{}:
		for index, nested := range typed {
			typed[index] = yamlValue(nested)
		}

		return typed
	default:
		return value
	}
}

func truncate(data []byte) string {
	const limit = 64

	if len(data) > limit {
		return string(data[:limit]) + "..."
	}

	return string(data)
}
