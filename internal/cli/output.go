package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/rickpr/data-covid19-sfbayarea/internal/county"
	"github.com/rickpr/data-covid19-sfbayarea/internal/pipeline"
	"github.com/rickpr/data-covid19-sfbayarea/internal/table"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	ScrapedAt time.Time `json:"scraped_at"`
	*pipeline.Result
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText prints the new row under its column names
func writeText(w io.Writer, result *OutputResult) error {
	bold := color.New(color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if result.Saved {
		fmt.Fprintf(w, "Added the following row to %s:\n", bold(result.DataPath))
	} else {
		fmt.Fprintf(w, "Dry run, would add the following row to %s:\n", bold(result.DataPath))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Columns, "\t"))
	fmt.Fprintln(tw, strings.Join(result.Row.Record(), "\t"))
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, col := range result.NegativeDeltas {
		fmt.Fprintf(w, "%s %s is negative, the source may have revised earlier figures\n", yellow("Warning:"), col)
	}

	fmt.Fprintf(w, "\nTotal: %d rows\n", result.Rows)
	return nil
}

// writeCounties lists registry keys and whether they can be scraped
func writeCounties(w io.Writer, reg *county.Registry) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, key := range reg.Keys() {
		rec, err := reg.Lookup(key)
		if err != nil {
			return err
		}
		if rec.Supported() {
			fmt.Fprintf(w, "%s  %s  %s\n", key, green("supported"), rec.SourceURL)
		} else {
			fmt.Fprintf(w, "%s  %s\n", key, yellow("placeholder"))
		}
	}
	return nil
}
