package ingest

import (
	"errors"
	"fmt"
)

// ErrNoData means no spreadsheet was supplied and the default file does not
// exist. Callers should report "no data" instead of treating it as a failure.
var ErrNoData = errors.New("no quote data available")

// LoadError indica que a planilha não pôde ser lida estruturalmente
// (delimitador errado, arquivo corrompido). Nenhum dataset é produzido.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FieldParseError aborts the whole load: a partial dataset is never returned
// when a required column cannot be coerced. Row is 1-based and counts the
// header line, matching what a user sees in the spreadsheet.
type FieldParseError struct {
	Column string
	Value  string
	Row    int
	Err    error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse column %q value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *FieldParseError) Unwrap() error {
	return e.Err
}
