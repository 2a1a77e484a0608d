package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/viktsys/cotacoes/models"
)

// HistoryPoint é uma observação da série histórica de um produto
type HistoryPoint struct {
	Data  *time.Time      `json:"data"`
	Valor decimal.Decimal `json:"valor"`
}

// HistoryFor returns every quote for the exact product key, sorted ascending
// by quote date. It deliberately reads the full dataset, not the filtered
// view: the drill-down must show the whole history even when active filters
// exclude part of it. Rows without a parsable date sort to the end.
func HistoryFor(ds *models.Dataset, comercializadora string, tipo models.TipoEnergia, submercado string, ano int) []HistoryPoint {
	var points []HistoryPoint
	for _, q := range ds.Cotacoes {
		if q.Comercializadora == comercializadora &&
			q.TipoEnergia == tipo &&
			q.Submercado == submercado &&
			q.AnoSuprimento == ano {
			points = append(points, HistoryPoint{Data: q.DataCotacao, Valor: q.ValorCotacao})
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Data == nil {
			return false
		}
		if points[j].Data == nil {
			return true
		}
		return points[i].Data.Before(*points[j].Data)
	})
	return points
}

// CheaperThan filters the history down to observations strictly below the
// reference price. An empty result means the reference already is the
// historical minimum.
func CheaperThan(points []HistoryPoint, referencia decimal.Decimal) []HistoryPoint {
	var cheaper []HistoryPoint
	for _, p := range points {
		if p.Valor.LessThan(referencia) {
			cheaper = append(cheaper, p)
		}
	}
	return cheaper
}
