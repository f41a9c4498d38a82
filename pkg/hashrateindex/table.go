package hashrateindex

import (
	"encoding/json"
	"fmt"
)

// Table is the tabular form of a record list. Columns are the union of
// record fields in encounter order; rows follow record order and hold nil
// where a record lacks a column.
type Table struct {
	Columns []string        `json:"columns" yaml:"columns"`
	Rows    [][]interface{} `json:"rows"    yaml:"rows"`
}

// Tabulate converts records into a Table. It does not reorder or coerce values.
func Tabulate(records []*Record) *Table {
	table := &Table{
		Columns: []string{},
		Rows:    make([][]interface{}, 0, len(records)),
	}

	seen := make(map[string]struct{})

	for _, record := range records {
		for _, field := range record.Fields() {
			if _, ok := seen[field]; ok {
				continue
			}

			seen[field] = struct{}{}
			table.Columns = append(table.Columns, field)
		}
	}

	for _, record := range records {
		row := make([]interface{}, len(table.Columns))
		for index, column := range table.Columns {
			row[index] = record.Value(column)
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Strings renders every cell as text for presentation layers.
func (t *Table) Strings() [][]string {
	rendered := make([][]string, 0, len(t.Rows))

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for index, cell := range row {
			cells[index] = FormatValue(cell)
		}

		rendered = append(rendered, cells)
	}

	return rendered
}

// FormatValue renders a decoded JSON value as a table cell.
func FormatValue(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		return fmt.Sprintf("%t", typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprintf("%v", typed)
		}

		return string(encoded)
	}
}

// MarshalYAML implements yaml.Marshaler so numeric cells are emitted as numbers.
func (t *Table) MarshalYAML() (interface{}, error) {
	rows := make([][]interface{}, 0, len(t.Rows))

	for _, row := range t.Rows {
		converted := make([]interface{}, len(row))
		for index, cell := range row {
			converted[index] = yamlValue(cell)
		}

		rows = append(rows, converted)
	}

	return struct {
		Columns []string        `yaml:"columns"`
		Rows    [][]interface{} `yaml:"rows"`
	}{Columns: t.Columns, Rows: rows}, nil
}
