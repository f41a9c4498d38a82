package hashrateindex

import (
	"fmt"
	"strings"
)

// Interval selects how much time-series history a query returns.
type Interval string

// Intervals accepted by the ChartsInterval enum. Individual operations
// document the subset the service honours; the client passes any value through.
const (
	Interval1Day    Interval = "_1_DAY"
	Interval7Days   Interval = "_7_DAYS"
	Interval1Month  Interval = "_1_MONTH"
	Interval3Months Interval = "_3_MONTHS"
	Interval6Months Interval = "_6_MONTHS"
	Interval1Year   Interval = "_1_YEAR"
	Interval3Years  Interval = "_3_YEAR"
	IntervalAll     Interval = "ALL"
)

var knownIntervals = []Interval{
	Interval1Day,
	Interval7Days,
	Interval1Month,
	Interval3Months,
	Interval6Months,
	Interval1Year,
	Interval3Years,
	IntervalAll,
}

// KnownIntervals returns every interval value the service is known to accept.
func KnownIntervals() []Interval {
	intervals := make([]Interval, len(knownIntervals))
	copy(intervals, knownIntervals)

	return intervals
}

// IsKnown reports whether the interval is one of KnownIntervals.
func (i Interval) IsKnown() bool {
	for _, known := range knownIntervals {
		if i == known {
			return true
		}
	}

	return false
}

// String implements fmt.Stringer.
func (i Interval) String() string {
	return string(i)
}

// Currency is the denomination of hashprice and ASIC price index series.
type Currency string

// Supported currencies, always lowercase.
const (
	CurrencyUSD Currency = "usd"
	CurrencyBTC Currency = "btc"
)

// ParseCurrency normalises value case-insensitively to a supported currency.
func ParseCurrency(value string) (Currency, error) {
	currency := Currency(strings.ToLower(strings.TrimSpace(value)))

	switch currency {
	case CurrencyUSD, CurrencyBTC:
		return currency, nil
	default:
		return "", fmt.Errorf("%w: %q (expected USD or BTC)", ErrInvalidCurrency, value)
	}
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// GraphQLRequest is the JSON body sent for every call.
type GraphQLRequest struct {
	Query     string                 `json:"query"     yaml:"query"`
	Variables map[string]interface{} `json:"variables" yaml:"variables"`
}

// GraphQLError is one entry of a response "errors" array.
type GraphQLError struct {
	Message    string                 `json:"message"              yaml:"message"`
	Path       []interface{}          `json:"path,omitempty"       yaml:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Result is the shaped payload of one operation.
type Result struct {
	Operation string    `json:"operation"       yaml:"operation"`
	Records   []*Record `json:"records"         yaml:"records"`
	// Table is set only when tabular output was requested.
	Table *Table `json:"table,omitempty" yaml:"table,omitempty"`
}
