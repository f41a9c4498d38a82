package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fivetwenty-io/hashrateindex-client/internal/catalog"
	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hiclient"
)

// Run executes one catalog function or raw query and prints the result to out.
// A raw query takes precedence over a function when both are given.
func Run(ctx context.Context, opts Options, out io.Writer, logger hashrateindex.Logger) (err error) {
	query := strings.TrimSpace(opts.Query)
	if opts.Function == "" && query == "" {
		return constants.ErrFunctionOrQueryRequired
	}

	format, err := opts.OutputFormat()
	if err != nil {
		return err
	}

	tabular := opts.Tabular || format == constants.FormatTable
	if query != "" && tabular {
		return constants.ErrTabularRequiresFunction
	}

	session, err := NewSession(opts, logger)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, session.Close())
	}()

	client, err := session.Client()
	if err != nil {
		return err
	}

	var envelope hashrateindex.Envelope

	if query != "" {
		variables, parseErr := parseVariables(opts.Params)
		if parseErr != nil {
			return parseErr
		}

		envelope, err = client.Request(ctx, opts.Query, variables)
	} else {
		envelope, err = client.Execute(ctx, opts.Function, catalog.SplitArguments(opts.Params))
	}

	if err != nil {
		return err
	}

	logger.Info("response received", map[string]interface{}{
		"function": opts.Function,
		"bytes":    len(envelope),
	})

	if !tabular {
		return writeEnvelope(out, format, envelope)
	}

	result, err := hiclient.NewResolver(true).Resolve(opts.Function, envelope)
	if err != nil {
		return err
	}

	return writeTable(out, format, result.Table)
}

// parseVariables decodes -p as a JSON object of GraphQL variables.
func parseVariables(params string) (map[string]interface{}, error) {
	if strings.TrimSpace(params) == "" {
		return nil, nil
	}

	var variables map[string]interface{}

	err := json.Unmarshal([]byte(params), &variables)
	if err != nil || variables == nil {
		return nil, fmt.Errorf("%w: %q", hashrateindex.ErrInvalidVariables, params)
	}

	return variables, nil
}
