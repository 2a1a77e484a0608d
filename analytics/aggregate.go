package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/viktsys/cotacoes/models"
)

// BestQuote é o menor preço de um grupo junto com a linha que o ofertou
type BestQuote struct {
	Valor   decimal.Decimal `json:"valor"`
	Cotacao models.Cotacao  `json:"cotacao"`
}

// BestPerYear finds the cheapest quote for each requested supply year. Years
// with no rows in the view are absent from the result. Ties are resolved by
// first occurrence in table order; that order is stable but carries no
// business meaning, it is simply how the source file was laid out.
func BestPerYear(view View, anos []int) map[int]BestQuote {
	best := make(map[int]BestQuote)
	requested := intSet(anos)
	for _, q := range view {
		if !memberInt(requested, q.AnoSuprimento) {
			continue
		}
		cur, ok := best[q.AnoSuprimento]
		if !ok || q.ValorCotacao.LessThan(cur.Valor) {
			best[q.AnoSuprimento] = BestQuote{Valor: q.ValorCotacao, Cotacao: q}
		}
	}
	return best
}

// BestOverall returns the cheapest quote of the whole view, the anchor row
// for the historical drill-down. False when the view is empty.
func BestOverall(view View) (models.Cotacao, bool) {
	if view.Empty() {
		return models.Cotacao{}, false
	}
	best := view[0]
	for _, q := range view[1:] {
		if q.ValorCotacao.LessThan(best.ValorCotacao) {
			best = q
		}
	}
	return best, true
}

// Matriz é o pivô comercializadora × ano do menor preço ofertado. Cells with
// no observations are simply absent from Valores, never zero.
type Matriz struct {
	Comercializadoras []string                           `json:"comercializadoras"`
	Anos              []int                              `json:"anos"`
	Valores           map[string]map[int]decimal.Decimal `json:"valores"`
}

// Matrix builds the competitiveness pivot over the filtered view.
func Matrix(view View) Matriz {
	valores := make(map[string]map[int]decimal.Decimal)
	anosSeen := make(map[int]struct{})

	for _, q := range view {
		anosSeen[q.AnoSuprimento] = struct{}{}
		linha, ok := valores[q.Comercializadora]
		if !ok {
			linha = make(map[int]decimal.Decimal)
			valores[q.Comercializadora] = linha
		}
		if cur, ok := linha[q.AnoSuprimento]; !ok || q.ValorCotacao.LessThan(cur) {
			linha[q.AnoSuprimento] = q.ValorCotacao
		}
	}

	comercs := make([]string, 0, len(valores))
	for c := range valores {
		comercs = append(comercs, c)
	}
	sort.Strings(comercs)

	anos := make([]int, 0, len(anosSeen))
	for a := range anosSeen {
		anos = append(anos, a)
	}
	sort.Ints(anos)

	return Matriz{Comercializadoras: comercs, Anos: anos, Valores: valores}
}

// CurveMode selects the aggregate used by the forward curve.
type CurveMode string

const (
	CurveMin   CurveMode = "min"
	CurveMedia CurveMode = "media"
)

// CurvePoint é um ponto da curva forward agrupado por (ano, tipo)
type CurvePoint struct {
	Ano   int                `json:"ano"`
	Tipo  models.TipoEnergia `json:"tipo"`
	Valor decimal.Decimal    `json:"valor"`
}

// ForwardCurve aggregates the view into (year, energy type) groups, taking
// the minimum or the mean price per group. Points come out sorted by year
// then type so the series is ready for a category axis.
func ForwardCurve(view View, mode CurveMode) []CurvePoint {
	type key struct {
		ano  int
		tipo models.TipoEnergia
	}
	groups := make(map[key][]decimal.Decimal)
	for _, q := range view {
		k := key{q.AnoSuprimento, q.TipoEnergia}
		groups[k] = append(groups[k], q.ValorCotacao)
	}

	points := make([]CurvePoint, 0, len(groups))
	for k, valores := range groups {
		var agg decimal.Decimal
		switch mode {
		case CurveMedia:
			agg = decimal.Avg(valores[0], valores[1:]...)
		default:
			agg = decimal.Min(valores[0], valores[1:]...)
		}
		points = append(points, CurvePoint{Ano: k.ano, Tipo: k.tipo, Valor: agg})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Ano != points[j].Ano {
			return points[i].Ano < points[j].Ano
		}
		return points[i].Tipo < points[j].Tipo
	})
	return points
}

// Extremo é um preço extremo do grupo e quem o ofertou
type Extremo struct {
	Valor            decimal.Decimal `json:"valor"`
	Comercializadora string          `json:"comercializadora"`
}

// Detalhe reúne as estatísticas descritivas de um grupo (ano, tipo)
type Detalhe struct {
	Quantidade int             `json:"quantidade"`
	Media      decimal.Decimal `json:"media"`
	Melhor     Extremo         `json:"melhor"`
	Maior      Extremo         `json:"maior"`
	// Volatilidade is the sample standard deviation (n-1). Nil means not
	// available: a single quote has no spread to measure.
	Volatilidade *float64 `json:"volatilidade"`
}

// Breakdown computes the per-year, per-type descriptive stats. False when the
// view has no rows for the group.
func Breakdown(view View, ano int, tipo models.TipoEnergia) (Detalhe, bool) {
	var rows []models.Cotacao
	for _, q := range view {
		if q.AnoSuprimento == ano && q.TipoEnergia == tipo {
			rows = append(rows, q)
		}
	}
	if len(rows) == 0 {
		return Detalhe{}, false
	}

	melhor := Extremo{Valor: rows[0].ValorCotacao, Comercializadora: rows[0].Comercializadora}
	maior := melhor
	valores := make([]decimal.Decimal, len(rows))
	for i, q := range rows {
		valores[i] = q.ValorCotacao
		if q.ValorCotacao.LessThan(melhor.Valor) {
			melhor = Extremo{Valor: q.ValorCotacao, Comercializadora: q.Comercializadora}
		}
		if q.ValorCotacao.GreaterThan(maior.Valor) {
			maior = Extremo{Valor: q.ValorCotacao, Comercializadora: q.Comercializadora}
		}
	}

	media := decimal.Avg(valores[0], valores[1:]...)

	detalhe := Detalhe{
		Quantidade: len(rows),
		Media:      media,
		Melhor:     melhor,
		Maior:      maior,
	}
	if len(rows) > 1 {
		vol := sampleStdDev(valores, media)
		detalhe.Volatilidade = &vol
	}
	return detalhe, true
}

// sampleStdDev uses the n-1 denominator. Computed in float64: the spread
// statistic feeds display only, unlike the prices themselves.
func sampleStdDev(valores []decimal.Decimal, media decimal.Decimal) float64 {
	m := media.InexactFloat64()
	var sum float64
	for _, v := range valores {
		d := v.InexactFloat64() - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(valores)-1))
}

// DedupeForChart collapses rows sharing the same (supply year, quote date)
// down to the cheapest one, sorted ascending by year then date. Rows without
// a parsable date are dropped: they cannot sit on a date axis.
func DedupeForChart(view View) View {
	type key struct {
		ano  int
		data time.Time
	}
	best := make(map[key]models.Cotacao)
	for _, q := range view {
		if q.DataCotacao == nil {
			continue
		}
		k := key{q.AnoSuprimento, dateOnly(*q.DataCotacao)}
		if cur, ok := best[k]; !ok || q.ValorCotacao.LessThan(cur.ValorCotacao) {
			best[k] = q
		}
	}

	out := make(View, 0, len(best))
	for _, q := range best {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AnoSuprimento != out[j].AnoSuprimento {
			return out[i].AnoSuprimento < out[j].AnoSuprimento
		}
		return out[i].DataCotacao.Before(*out[j].DataCotacao)
	})
	return out
}

// Resumo são as estatísticas de cabeçalho da visão filtrada
type Resumo struct {
	Quantidade  int        `json:"quantidade"`
	DataInicial *time.Time `json:"data_inicial"`
	DataFinal   *time.Time `json:"data_final"`
}

// Summary counts the view and finds its quote-date span. Rows with missing
// dates count toward Quantidade but not toward the span.
func Summary(view View) Resumo {
	resumo := Resumo{Quantidade: len(view)}
	for _, q := range view {
		if q.DataCotacao == nil {
			continue
		}
		if resumo.DataInicial == nil || q.DataCotacao.Before(*resumo.DataInicial) {
			d := *q.DataCotacao
			resumo.DataInicial = &d
		}
		if resumo.DataFinal == nil || q.DataCotacao.After(*resumo.DataFinal) {
			d := *q.DataCotacao
			resumo.DataFinal = &d
		}
	}
	return resumo
}
