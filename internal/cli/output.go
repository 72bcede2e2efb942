package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v2"
)

// Output formats accepted by -o.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// table is the tabular rendering of a result.
type table struct {
	Headers []string
	Rows    [][]string
}

func (t *table) add(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// printer writes v as JSON or YAML, or tbl as aligned columns.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return &printer{w: w, format: format}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (table, json, yaml)", format)
	}
}

func (p *printer) print(v any, tbl *table) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = p.w.Write(out)
		return err
	}

	if len(tbl.Rows) == 0 {
		_, err := fmt.Fprintln(p.w, "No data found")
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tbl.Headers, "\t"))
	for _, row := range tbl.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
