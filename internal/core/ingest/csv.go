// Package ingest decodes CSV sources into typed records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
)

// Decoder converts one CSV row into a record.
type Decoder[R any] func(fields []string) (R, error)

// Source describes a CSV input.
type Source[R any] struct {
	// Decode converts each data row.
	Decode Decoder[R]

	// Fields is the expected number of fields per row; 0 accepts any.
	Fields int

	// Comma is the field separator. Default: ','
	Comma rune

	// SkipHeader drops the first line.
	SkipHeader bool
}

// ReadAll decodes every row of r. It stops at the first malformed or
// unconvertible row and returns a *ParseError carrying its line number.
func (s Source[R]) ReadAll(r io.Reader) ([]R, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	cr.FieldsPerRecord = s.Fields
	if s.Comma != 0 {
		cr.Comma = s.Comma
	}

	var out []R
	rows := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		rows++

		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Column: "row", Err: csvErr.Err}
			}
			return nil, fmt.Errorf("reading csv: %w", err)
		}

		if rows == 1 && s.SkipHeader {
			continue
		}
		line, _ := cr.FieldPos(0)

		rec, err := s.Decode(row)
		if err != nil {
			var pErr *ParseError
			if errors.As(err, &pErr) {
				pErr.Line = line
				return nil, pErr
			}
			return nil, &ParseError{Line: line, Column: "row", Err: err}
		}
		out = append(out, rec)
	}

	slog.Debug("csv decoded", "records", len(out), "rows", rows)
	return out, nil
}

// ReadFile opens path on fs and decodes it.
func (s Source[R]) ReadFile(fs afero.Fs, path string) ([]R, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv %s: %w", path, err)
	}
	defer f.Close()

	records, err := s.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
