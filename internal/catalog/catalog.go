// Package catalog maps operation names to GraphQL query builders, parameter
// schemas, extraction paths and post-processing rules.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

// Kind is the declared type of an operation parameter.
type Kind int

// Parameter kinds. Coercion of positional string arguments is driven by kind.
const (
	KindString Kind = iota
	KindInt
	KindInterval
	KindCurrency
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindInterval:
		return "interval"
	case KindCurrency:
		return "currency"
	default:
		return "string"
	}
}

// Param declares one positional parameter.
type Param struct {
	Name     string
	Kind     Kind
	Required bool
	Default  interface{}
}

// Values holds parameter values by name.
type Values map[string]interface{}

// BuildFunc turns normalised values into a request body.
type BuildFunc func(values Values) (*hashrateindex.GraphQLRequest, error)

// TransformFunc post-processes the records of a successful response.
type TransformFunc func(records []*hashrateindex.Record) []*hashrateindex.Record

// Operation is an immutable catalog entry.
type Operation struct {
	Name        string
	Description string
	Params      []Param
	// Path leads from the envelope root to the payload array.
	Path []string
	// Intervals documents the values the service honours. Not enforced.
	Intervals []hashrateindex.Interval

	build     BuildFunc
	transform TransformFunc
}

// Build validates values, applies defaults and produces the request body.
func (o *Operation) Build(values Values) (*hashrateindex.GraphQLRequest, error) {
	normalized := make(Values, len(o.Params))

	for _, param := range o.Params {
		value, ok := values[param.Name]
		if !ok || value == nil {
			if param.Required {
				return nil, fmt.Errorf("%w: %s requires %s", hashrateindex.ErrMissingArgument, o.Name, param.Name)
			}

			normalized[param.Name] = param.Default

			continue
		}

		converted, err := normalizeValue(param, value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.Name, err)
		}

		normalized[param.Name] = converted
	}

	return o.build(normalized)
}

// Coerce converts positional string arguments into Values using the declared
// kind of the parameter at each position. A single empty argument counts as none.
func (o *Operation) Coerce(args []string) (Values, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) == "" {
		args = nil
	}

	if len(args) > len(o.Params) {
		return nil, fmt.Errorf("%w: %s accepts %d, got %d", hashrateindex.ErrTooManyArguments, o.Name, len(o.Params), len(args))
	}

	values := make(Values, len(args))

	for index, arg := range args {
		param := o.Params[index]
		arg = strings.TrimSpace(arg)

		switch param.Kind {
		case KindInt:
			number, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %s=%q", hashrateindex.ErrInvalidInteger, o.Name, param.Name, arg)
			}

			values[param.Name] = number
		default:
			values[param.Name] = arg
		}
	}

	return values, nil
}

// Transform applies the operation's post-processing rule, if any.
func (o *Operation) Transform(records []*hashrateindex.Record) []*hashrateindex.Record {
	if o.transform == nil {
		return records
	}

	return o.transform(records)
}

// HasTransform reports whether the operation post-processes its records.
func (o *Operation) HasTransform() bool {
	return o.transform != nil
}

// Info describes the operation for listings.
func (o *Operation) Info() hashrateindex.OperationInfo {
	info := hashrateindex.OperationInfo{
		Name:        o.Name,
		Description: o.Description,
		Params:      make([]hashrateindex.ParamInfo, 0, len(o.Params)),
		Path:        append([]string(nil), o.Path...),
		Intervals:   append([]hashrateindex.Interval(nil), o.Intervals...),
	}

	for _, param := range o.Params {
		info.Params = append(info.Params, hashrateindex.ParamInfo{
			Name:     param.Name,
			Kind:     param.Kind.String(),
			Required: param.Required,
			Default:  param.Default,
		})
	}

	return info
}

func normalizeValue(param Param, value interface{}) (interface{}, error) {
	switch param.Kind {
	case KindCurrency:
		text, err := asString(param, value)
		if err != nil {
			return nil, err
		}

		return hashrateindex.ParseCurrency(text)
	case KindInterval:
		text, err := asString(param, value)
		if err != nil {
			return nil, err
		}

		if text == "" {
			return nil, fmt.Errorf("%w: %s", hashrateindex.ErrMissingArgument, param.Name)
		}

		return hashrateindex.Interval(text), nil
	case KindInt:
		switch number := value.(type) {
		case int:
			return number, nil
		case int64:
			return int(number), nil
		default:
			return nil, fmt.Errorf("%w: %s=%v", hashrateindex.ErrInvalidInteger, param.Name, value)
		}
	default:
		return asString(param, value)
	}
}

func asString(param Param, value interface{}) (string, error) {
	switch text := value.(type) {
	case string:
		return text, nil
	case hashrateindex.Interval:
		return string(text), nil
	case hashrateindex.Currency:
		return string(text), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", hashrateindex.ErrInvalidArgument, param.Name, value)
	}
}

// Catalog is the set of registered operations.
type Catalog struct {
	operations *Registry[*Operation]
	order      []string
}

// New registers operations in the given order.
func New(operations ...*Operation) (*Catalog, error) {
	catalog := &Catalog{operations: NewRegistry[*Operation]()}

	for _, operation := range operations {
		err := catalog.operations.Register(operation.Name, operation)
		if err != nil {
			return nil, err
		}

		catalog.order = append(catalog.order, operation.Name)
	}

	return catalog, nil
}

// Lookup finds an operation by case-insensitive name.
func (c *Catalog) Lookup(name string) (*Operation, error) {
	operation, ok := c.operations.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", hashrateindex.ErrOperationNotFound, name)
	}

	return operation, nil
}

// Names returns registered operation names sorted alphabetically.
func (c *Catalog) Names() []string {
	return c.operations.Names()
}

// Operations returns operations in registration order.
func (c *Catalog) Operations() []*Operation {
	operations := make([]*Operation, 0, len(c.order))

	for _, name := range c.order {
		operation, _ := c.operations.Get(name)
		operations = append(operations, operation)
	}

	return operations
}

// SplitArguments splits a comma-separated argument string. An empty or
// blank string yields no arguments.
func SplitArguments(params string) []string {
	if strings.TrimSpace(params) == "" {
		return nil
	}

	return strings.Split(params, constants.ArgumentSeparator)
}
