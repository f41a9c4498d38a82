package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

func writeJSON(out io.Writer, value interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))
	encoder.SetEscapeHTML(false)

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	return nil
}

func writeYAML(out io.Writer, value interface{}) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}

	return nil
}

// writeEnvelope prints a raw response in JSON or YAML, keeping key order.
func writeEnvelope(out io.Writer, format string, envelope hashrateindex.Envelope) error {
	switch format {
	case constants.FormatYAML:
		var node yaml.Node

		err := yaml.Unmarshal(envelope, &node)
		if err != nil {
			return fmt.Errorf("converting response to YAML: %w", err)
		}

		plainStyle(&node)

		return writeYAML(out, &node)
	case constants.FormatJSON:
		return writeJSON(out, envelope)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutputFormat, format)
	}
}

// plainStyle drops the flow and quoting styles a JSON document carries.
func plainStyle(node *yaml.Node) {
	node.Style = 0

	for _, child := range node.Content {
		plainStyle(child)
	}
}

// writeTable prints a resolved table in the requested format.
func writeTable(out io.Writer, format string, table *hashrateindex.Table) error {
	switch format {
	case constants.FormatJSON:
		return writeJSON(out, table)
	case constants.FormatYAML:
		return writeYAML(out, table)
	case constants.FormatTable:
		return renderTable(out, table.Columns, table.Strings())
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutputFormat, format)
	}
}

func renderTable(out io.Writer, columns []string, rows [][]string) error {
	table := tablewriter.NewWriter(out)
	table.Header(toCells(columns)...)

	for _, row := range rows {
		err := table.Append(toCells(row)...)
		if err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for index, value := range values {
		cells[index] = value
	}

	return cells
}
