package ingest

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/viktsys/cotacoes/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical column names after header normalization.
const (
	colComercializadora = "comercializadora"
	colTipoEnergia      = "tipo_energia"
	colSubmercado       = "submercado"
	colModalidade       = "modalidade"
	colAnoSuprimento    = "ano_suprimento"
	colMesSuprimento    = "mes_suprimento"
	colDataCotacao      = "data_cotacao"
	colValorCotacao     = "valor_cotacao"
)

// Known header variants seen across exports ("Tipo de Energia" etc.) that the
// mechanical lowercase/deaccent/underscore pass does not already cover.
var headerAliases = map[string]string{
	"tipo_de_energia":   colTipoEnergia,
	"valor_da_cotacao":  colValorCotacao,
	"data_da_cotacao":   colDataCotacao,
	"ano_de_suprimento": colAnoSuprimento,
	"mes_de_suprimento": colMesSuprimento,
	"comercializador":   colComercializadora,
	"preco":             colValorCotacao,
	"valor":             colValorCotacao,
}

var deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lowers, trims, strips accents and joins words with
// underscores, so "Mês Suprimento" and "mes_suprimento" land on the same key.
func normalizeHeader(h string) string {
	s := strings.ToLower(strings.TrimSpace(h))
	if out, _, err := transform.String(deaccenter, s); err == nil {
		s = out
	}
	s = strings.Join(strings.Fields(s), "_")
	if canonical, ok := headerAliases[s]; ok {
		return canonical
	}
	return s
}

// ParsePreco converts a source price cell into a decimal value. Currency
// strings use "R$" with dot thousands separators and a comma decimal, in that
// parse order. Values without a comma are taken as already numeric and pass
// through untouched, which keeps the function idempotent over its own output.
func ParsePreco(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(raw, "R$", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")  // tira ponto de milhar
		s = strings.ReplaceAll(s, ",", ".") // vírgula decimal
	}
	return decimal.NewFromString(s)
}

// FormatPreco renders a price back in the source currency format,
// e.g. 1234.56 -> "R$ 1.234,56".
func FormatPreco(v decimal.Decimal) string {
	s := v.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	sign := ""
	if neg {
		sign = "-"
	}
	return "R$ " + sign + strings.Join(grouped, ".") + "," + parts[1]
}

// Day-first layouts tried in order. XLSX sheets occasionally render dates in
// ISO form depending on the cell style, so those come last.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseDataCotacao parses a day-first quote date. Unparsable values degrade
// to nil instead of failing the load; the row stays in the dataset.
func ParseDataCotacao(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseInteger accepts both "2026" and the "2026.0" rendering that appears
// when a spreadsheet stores the column as float.
func parseInteger(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %s", s)
	}
	return int(f), nil
}

// Normalizer turns a RawTable into the canonical dataset. Whether the source
// carries a modality column is detected from the headers, so old exports
// without it and new ones with it go through the same pipeline.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

var requiredColumns = []string{
	colComercializadora,
	colTipoEnergia,
	colSubmercado,
	colAnoSuprimento,
	colValorCotacao,
}

// Normalize builds the canonical dataset. Any required field that cannot be
// coerced aborts the whole load with a diagnostic naming the column and
// value; only quote dates degrade per row (see ParseDataCotacao).
func (n *Normalizer) Normalize(table *RawTable) (*models.Dataset, error) {
	index := make(map[string]int, len(table.Headers))
	for i, h := range table.Headers {
		index[normalizeHeader(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &LoadError{Source: "header", Err: fmt.Errorf("missing required column %q", col)}
		}
	}
	_, hasModalidade := index[colModalidade]

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	cotacoes := make([]models.Cotacao, 0, len(table.Rows))
	missingDates := 0

	for i, row := range table.Rows {
		rowNum := i + 2 // 1-based, counting the header line
		if isBlank(row) {
			continue
		}

		comercializadora := cell(row, colComercializadora)
		if comercializadora == "" {
			return nil, &FieldParseError{Column: colComercializadora, Value: "", Row: rowNum, Err: fmt.Errorf("empty value")}
		}
		tipoRaw := cell(row, colTipoEnergia)
		if tipoRaw == "" {
			return nil, &FieldParseError{Column: colTipoEnergia, Value: "", Row: rowNum, Err: fmt.Errorf("empty value")}
		}
		submercado := cell(row, colSubmercado)
		if submercado == "" {
			return nil, &FieldParseError{Column: colSubmercado, Value: "", Row: rowNum, Err: fmt.Errorf("empty value")}
		}

		anoRaw := cell(row, colAnoSuprimento)
		ano, err := parseInteger(anoRaw)
		if err != nil {
			return nil, &FieldParseError{Column: colAnoSuprimento, Value: anoRaw, Row: rowNum, Err: err}
		}

		mes := models.MesAnual
		if mesRaw := cell(row, colMesSuprimento); mesRaw != "" {
			mes, err = parseInteger(mesRaw)
			if err != nil {
				return nil, &FieldParseError{Column: colMesSuprimento, Value: mesRaw, Row: rowNum, Err: err}
			}
			if mes < 0 || mes > 12 {
				return nil, &FieldParseError{Column: colMesSuprimento, Value: mesRaw, Row: rowNum, Err: fmt.Errorf("month out of range [0,12]")}
			}
		}

		valorRaw := cell(row, colValorCotacao)
		valor, err := ParsePreco(valorRaw)
		if err != nil {
			return nil, &FieldParseError{Column: colValorCotacao, Value: valorRaw, Row: rowNum, Err: err}
		}

		data := ParseDataCotacao(cell(row, colDataCotacao))
		if data == nil {
			missingDates++
		}

		modalidade := models.ModalidadeAtacadista
		if hasModalidade {
			modalidade = models.CanonicalModalidade(cell(row, colModalidade))
		}

		cotacoes = append(cotacoes, models.Cotacao{
			Comercializadora: comercializadora,
			TipoEnergia:      models.CanonicalTipoEnergia(tipoRaw),
			Submercado:       submercado,
			Modalidade:       modalidade,
			AnoSuprimento:    ano,
			MesSuprimento:    mes,
			ValorCotacao:     valor,
			DataCotacao:      data,
		})
	}

	log.Printf("Normalized %d quotes (%d with unparsable dates)", len(cotacoes), missingDates)
	return &models.Dataset{Cotacoes: cotacoes}, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Load reads and normalizes a spreadsheet in one step.
func Load(path string) (*models.Dataset, error) {
	table, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewNormalizer().Normalize(table)
}

// LoadDefault loads from the fixed default path; ErrNoData when absent.
func LoadDefault() (*models.Dataset, error) {
	table, err := ReadDefault()
	if err != nil {
		return nil, err
	}
	return NewNormalizer().Normalize(table)
}
