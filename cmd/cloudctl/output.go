package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/stuck-lehnert/cloud/resource"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

func success(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", args...)
}

func warning(w io.Writer, format string, args ...any) {
	warningColor.Fprintf(w, "⚠ "+format+"\n", args...)
}

func info(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, "ℹ "+format+"\n", args...)
}

// printRecords writes records as indented JSON or as a table with one
// column per attribute followed by the included references.
func printRecords(w io.Writer, res *resource.Resource, records []resource.Record, includes []string) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		info(w, "no %s records", res.Name())
		return nil
	}

	headers := append(res.Attributes(), uniqueSorted(includes)...)
	data := pterm.TableData{headers}
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = cell(rec[h])
		}
		data = append(data, row)
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// cell renders one table value. Included records are shown by their id,
// lists by their ids or size.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case resource.Record:
		return summary(x)
	case []resource.Record:
		if len(x) == 0 {
			return "[]"
		}
		if len(x) > 3 {
			return fmt.Sprintf("[%d records]", len(x))
		}
		parts := make([]string, len(x))
		for i, rec := range x {
			parts[i] = summary(rec)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}

func summary(rec resource.Record) string {
	for _, key := range []string{"name", "username", "id"} {
		if v, ok := rec[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return fmt.Sprintf("{%d fields}", len(rec))
}

func printFailures(w io.Writer, result resource.BatchResult) {
	for _, f := range result.Failed {
		warning(w, "target %d %v: %v", f.Index, f.Target, f.Err)
	}
}
