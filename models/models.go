package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TipoEnergia é o produto de flexibilidade sazonal da cotação
type TipoEnergia string

const (
	TipoI50          TipoEnergia = "I50"
	TipoI100         TipoEnergia = "I100"
	TipoConvencional TipoEnergia = "Convencional"
)

// Códigos numéricos usados nas planilhas de origem
var tipoEnergiaCodigos = map[string]TipoEnergia{
	"50":    TipoI50,
	"50.0":  TipoI50,
	"100":   TipoI100,
	"100.0": TipoI100,
}

// CanonicalTipoEnergia maps the numeric source codes (50/100, with or without
// a trailing ".0") onto the I50/I100 product codes. Any other value passes
// through trimmed, so new product names in the source survive unchanged.
func CanonicalTipoEnergia(raw string) TipoEnergia {
	s := strings.TrimSpace(raw)
	if tipo, ok := tipoEnergiaCodigos[s]; ok {
		return tipo
	}
	return TipoEnergia(s)
}

// Modalidade é o canal de negociação da cotação
type Modalidade string

const (
	ModalidadeAtacadista Modalidade = "Atacadista"
	ModalidadeVarejo     Modalidade = "Varejo"
)

var modalidadeCaser = cases.Title(language.BrazilianPortuguese)

// CanonicalModalidade trims and title-cases a source modality. Sources that
// predate the modality column leave it empty, which defaults to Atacadista.
func CanonicalModalidade(raw string) Modalidade {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ModalidadeAtacadista
	}
	return Modalidade(modalidadeCaser.String(strings.ToLower(s)))
}

// Cotacao representa uma linha canônica da planilha de cotações
type Cotacao struct {
	Comercializadora string          `json:"comercializadora"`
	TipoEnergia      TipoEnergia     `json:"tipo_energia"`
	Submercado       string          `json:"submercado"`
	Modalidade       Modalidade      `json:"modalidade"`
	AnoSuprimento    int             `json:"ano_suprimento"`
	MesSuprimento    int             `json:"mes_suprimento"`
	ValorCotacao     decimal.Decimal `json:"valor_cotacao"`
	// DataCotacao is nil when the source date was unparsable; such rows stay
	// in the dataset and are skipped only by date-dependent views.
	DataCotacao *time.Time `json:"data_cotacao"`
}

// MesAnual is the sentinel supply month meaning the quote covers the whole
// supply year rather than a single month.
const MesAnual = 0

// Dataset é o conjunto canônico carregado de uma planilha. It is built once
// per load and never mutated; every view derives new slices from it.
type Dataset struct {
	Cotacoes []Cotacao `json:"cotacoes"`
}

// Len returns the number of canonical records.
func (d *Dataset) Len() int {
	return len(d.Cotacoes)
}
