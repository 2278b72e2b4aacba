// Package output handles CLI output formatting: text, JSON, YAML, and
// table rendering, with optional jq and JSONPath filtering carried
// through the context.
package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is human-readable key-value format (default).
	FormatText Format = "text"
	// FormatJSON is pretty-printed JSON format.
	FormatJSON Format = "json"
	// FormatTable is tabular format for lists.
	FormatTable Format = "table"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format type.
// Empty string defaults to FormatText.
// Returns error if the format is invalid.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.New("invalid --output format (expected text|json|table|yaml)")
	}
}

// Printer handles output formatting across different formats.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a new Printer that writes to w in the given format.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{
		w:      w,
		format: format,
	}
}

// Print outputs data in the configured format, after applying any
// --query or --jsonpath filter carried in the context.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}

	filtered, err := applyFilters(ctx, data)
	if err != nil {
		return err
	}
	data = filtered

	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, data)
	case FormatYAML:
		return p.printYAML(data)
	case FormatTable:
		return p.printTable(data)
	case FormatText:
		return p.printText(data)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func (p *Printer) printJSON(ctx context.Context, data interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	if !CompactJSONFromContext(ctx) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}

// printYAML outputs data as YAML.
func (p *Printer) printYAML(data interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

// printTable renders a pre-rendered Table, or a slice of structs/maps
// with the field names as headers.
func (p *Printer) printTable(data interface{}) error {
	tbl, err := toTable(data)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	if len(tbl.Headers) > 0 {
		_, _ = fmt.Fprintln(tw, strings.Join(tbl.Headers, "\t"))
	}
	for _, row := range tbl.Rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// printText outputs data as human-readable text: key-value pairs for
// single structs/maps, one line per element for slices, direct output
// for primitives.
func (p *Printer) printText(data interface{}) error {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := p.printText(v.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, fmt.Sprint(k.Interface()))
		}
		sort.Strings(keys)
		for _, k := range keys {
			val := v.MapIndex(reflect.ValueOf(k))
			if !val.IsValid() {
				// Non-string map keys were stringified for ordering.
				for _, mk := range v.MapKeys() {
					if fmt.Sprint(mk.Interface()) == k {
						val = v.MapIndex(mk)
						break
					}
				}
			}
			_, _ = fmt.Fprintf(p.w, "%s:\t%v\n", k, val.Interface())
		}
		return nil
	case reflect.Struct:
		return p.printStructText(v)
	default:
		_, _ = fmt.Fprintln(p.w, data)
		return nil
	}
}

func (p *Printer) printStructText(v reflect.Value) error {
	t := v.Type()
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
			name = strings.Split(tag, ",")[0]
		}
		_, _ = fmt.Fprintf(tw, "%s:\t%v\n", name, v.Field(i).Interface())
	}
	return tw.Flush()
}
