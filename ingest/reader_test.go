package ingest

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	// "São Paulo" encoded in Latin-1 (0xE3 = ã).
	raw := "comercializadora;tipo_energia;submercado;ano_suprimento;valor_cotacao\n" +
		"S\xe3o Paulo Energia;50;SE;2026;R$ 250,00\n"

	table, err := ReadCSV(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(table.Headers) != 5 {
		t.Fatalf("Expected 5 headers, got %d", len(table.Headers))
	}
	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}
	if table.Rows[0][0] != "São Paulo Energia" {
		t.Errorf("Expected Latin-1 decode to São Paulo Energia, got %q", table.Rows[0][0])
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("Expected error for CSV without header row, got nil")
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Comercializadora", "Tipo Energia", "Submercado", "Ano Suprimento", "Valor Cotacao"},
		{"CommA", "50", "SE", 2026, "R$ 250,00"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("Failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("Failed to write sheet row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Failed to serialize workbook: %v", err)
	}

	table, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}
	if table.Rows[0][0] != "CommA" {
		t.Errorf("Expected CommA, got %q", table.Rows[0][0])
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile("does-not-exist.csv")
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("Expected LoadError, got %T", err)
	}
}

func TestReadDefaultMissing(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	defer os.Chdir(wd)

	if _, err := ReadDefault(); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}
