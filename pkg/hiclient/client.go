package hiclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/hashrateindex-client/internal/catalog"
	"github.com/fivetwenty-io/hashrateindex-client/internal/client"
	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
	"github.com/fivetwenty-io/hashrateindex-client/internal/resolver"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

// New creates a new Hashrate Index API client. The caller's config is not modified.
func New(config *hashrateindex.Config) (hashrateindex.Client, error) {
	if config == nil {
		return nil, hashrateindex.ErrConfigRequired
	}

	normalized := *config
	normalized.Endpoint = NormalizeEndpoint(config.Endpoint)

	if normalized.Method == "" {
		normalized.Method = constants.DefaultMethod
	}

	if normalized.HTTPTimeout <= 0 {
		normalized.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	c, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithKey creates a client for endpoint authenticated with apiKey.
// An empty endpoint selects the public Hashrate Index API.
func NewWithKey(endpoint, apiKey string) (hashrateindex.Client, error) {
	return New(&hashrateindex.Config{
		Endpoint: endpoint,
		APIKey:   apiKey,
	})
}

// NewResolver creates a result resolver. When tabular is set every result
// also carries a Table.
func NewResolver(tabular bool) hashrateindex.Resolver {
	return resolver.New(tabular)
}

// Operations describes every operation the client supports.
func Operations() []hashrateindex.OperationInfo {
	operations := catalog.Default().Operations()
	infos := make([]hashrateindex.OperationInfo, 0, len(operations))

	for _, operation := range operations {
		infos = append(infos, operation.Info())
	}

	return infos
}

// NormalizeEndpoint trims the endpoint, applies the default and adds an
// https scheme when none is given.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return constants.DefaultEndpoint
	}

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
