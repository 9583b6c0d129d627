// Package export writes result tables to files and terminals.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"caselaw-scraper/pkg/domain"
)

// DefaultCSVPath is the file written when no output path is configured.
const DefaultCSVPath = "moonlit_results.csv"

// CSVWriter writes a result table as CSV, one header line then one line per
// record, with no index column.
type CSVWriter struct {
	Path string
}

// NewCSVWriter creates a CSV writer for path. An empty path means DefaultCSVPath.
func NewCSVWriter(path string) *CSVWriter {
	if path == "" {
		path = DefaultCSVPath
	}
	return &CSVWriter{Path: path}
}

// Name implements pipeline.TableWriter.
func (w *CSVWriter) Name() string {
	return w.Path
}

// WriteTable implements pipeline.TableWriter. The file is replaced.
func (w *CSVWriter) WriteTable(ctx context.Context, table domain.ResultTable) error {
	return writeFile(w.Path, func(out io.Writer) error {
		return WriteCSV(out, table)
	})
}

// WriteCSV writes table to out in domain.Columns order.
func WriteCSV(out io.Writer, table domain.ResultTable) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(domain.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range table {
		if err := cw.Write(rec.Values()); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
