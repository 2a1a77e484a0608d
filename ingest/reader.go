package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DefaultFile is the fixed local path tried when no spreadsheet is supplied.
const DefaultFile = "cotacoes_energia.csv"

// RawTable é a tabela bruta materializada antes da normalização
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ReadCSV reads a `;`-separated quote export. The files come out of legacy
// Windows tooling, so cells are decoded from Latin-1 before parsing.
func ReadCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';' // Assumindo que o CSV usa ponto e vírgula como separador
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file has no header row")
	}

	return &RawTable{Headers: records[0], Rows: records[1:]}, nil
}

// ReadXLSX reads the first sheet of an Excel workbook as raw strings.
func ReadXLSX(r io.Reader) (*RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	return &RawTable{Headers: rows[0], Rows: rows[1:]}, nil
}

// ReadFile loads a spreadsheet from disk, dispatching on the file extension.
// Anything that is not .xlsx is treated as the `;`-separated CSV export.
func ReadFile(path string) (*RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer file.Close()

	var table *RawTable
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		table, err = ReadXLSX(file)
	} else {
		table, err = ReadCSV(file)
	}
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	log.Printf("Read %d raw rows from %s", len(table.Rows), path)
	return table, nil
}

// ReadDefault tries the fixed default path. A missing file is not a failure:
// it returns ErrNoData so callers can report "no data" instead.
func ReadDefault() (*RawTable, error) {
	if _, err := os.Stat(DefaultFile); err != nil {
		return nil, ErrNoData
	}
	return ReadFile(DefaultFile)
}
