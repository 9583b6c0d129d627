package export

import (
	"context"
	"encoding/json"
	"io"

	"caselaw-scraper/pkg/domain"
)

// NDJSONWriter writes a result table as newline-delimited JSON, one object per
// record keyed by column name.
type NDJSONWriter struct {
	Path string
}

// NewNDJSONWriter creates an NDJSON writer for path.
func NewNDJSONWriter(path string) *NDJSONWriter {
	return &NDJSONWriter{Path: path}
}

// Name implements pipeline.TableWriter.
func (w *NDJSONWriter) Name() string {
	return w.Path
}

// WriteTable implements pipeline.TableWriter. The file is replaced.
func (w *NDJSONWriter) WriteTable(ctx context.Context, table domain.ResultTable) error {
	return writeFile(w.Path, func(out io.Writer) error {
		return WriteNDJSON(out, table)
	})
}

// WriteNDJSON writes every record of table as one JSON line to out.
func WriteNDJSON(out io.Writer, table domain.ResultTable) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	for _, rec := range table {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
