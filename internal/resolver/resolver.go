// Package resolver shapes successful response envelopes into record lists
// or tables using each operation's extraction path and post-processing rule.
package resolver

import (
	"errors"
	"fmt"

	"github.com/fivetwenty-io/hashrateindex-client/internal/catalog"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

// Resolver implements hashrateindex.Resolver.
type Resolver struct {
	catalog *catalog.Catalog
	tabular bool
}

var _ hashrateindex.Resolver = (*Resolver)(nil)

// New creates a resolver over the default catalog. When tabular is set every
// result also carries a Table.
func New(tabular bool) *Resolver {
	return NewWithCatalog(catalog.Default(), tabular)
}

// NewWithCatalog creates a resolver over a custom catalog.
func NewWithCatalog(operations *catalog.Catalog, tabular bool) *Resolver {
	return &Resolver{catalog: operations, tabular: tabular}
}

// Resolve extracts the payload of operation from envelope.
func (r *Resolver) Resolve(operation string, envelope hashrateindex.Envelope) (*hashrateindex.Result, error) {
	op, err := r.catalog.Lookup(operation)
	if err != nil {
		return nil, err
	}

	records, err := envelope.Records(op.Path...)
	if err != nil {
		malformed := &hashrateindex.MalformedResponseError{}
		if errors.As(err, &malformed) {
			malformed.Operation = op.Name

			return nil, malformed
		}

		return nil, fmt.Errorf("resolving %s: %w", op.Name, err)
	}

	result := &hashrateindex.Result{
		Operation: op.Name,
		Records:   op.Transform(records),
	}

	if r.tabular {
		result.Table = hashrateindex.Tabulate(result.Records)
	}

	return result, nil
}
