package analytics

import (
	"time"

	"github.com/viktsys/cotacoes/models"
)

// Criteria is the explicit, immutable set of filter selections applied to a
// dataset. Nil or empty slices mean "all observed values" for that dimension.
// The date range is applied only when both bounds are present; a half-open or
// missing range falls back to no date restriction.
type Criteria struct {
	Inicio            *time.Time
	Fim               *time.Time
	Anos              []int
	Meses             []int
	Submercados       []string
	Tipos             []models.TipoEnergia
	Comercializadoras []string
	Modalidades       []models.Modalidade
}

// View é o subconjunto filtrado usado por todas as visões derivadas. An empty
// view is a soft condition: callers short-circuit instead of aggregating.
type View []models.Cotacao

// Empty reports whether the view has no records.
func (v View) Empty() bool {
	return len(v) == 0
}

// dateOnly drops the time-of-day so range checks compare calendar dates.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Filter applies the date range and the six set-membership predicates with
// logical AND. Records with an unparsable date are excluded only while a date
// range is active, since they cannot be placed inside it.
func Filter(ds *models.Dataset, c Criteria) View {
	anos := intSet(c.Anos)
	meses := intSet(c.Meses)
	subs := strSet(c.Submercados)
	tipos := strSet(tiposAsStrings(c.Tipos))
	comercs := strSet(c.Comercializadoras)
	modalidades := strSet(modalidadesAsStrings(c.Modalidades))

	rangeActive := c.Inicio != nil && c.Fim != nil
	var inicio, fim time.Time
	if rangeActive {
		inicio = dateOnly(*c.Inicio)
		fim = dateOnly(*c.Fim)
	}

	var view View
	for _, q := range ds.Cotacoes {
		if rangeActive {
			if q.DataCotacao == nil {
				continue
			}
			d := dateOnly(*q.DataCotacao)
			if d.Before(inicio) || d.After(fim) {
				continue
			}
		}
		if !memberInt(anos, q.AnoSuprimento) ||
			!memberInt(meses, q.MesSuprimento) ||
			!memberStr(subs, q.Submercado) ||
			!memberStr(tipos, string(q.TipoEnergia)) ||
			!memberStr(comercs, q.Comercializadora) ||
			!memberStr(modalidades, string(q.Modalidade)) {
			continue
		}
		view = append(view, q)
	}
	return view
}

func tiposAsStrings(tipos []models.TipoEnergia) []string {
	out := make([]string, len(tipos))
	for i, t := range tipos {
		out[i] = string(t)
	}
	return out
}

func modalidadesAsStrings(mods []models.Modalidade) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = string(m)
	}
	return out
}

// nil set = no restriction on that dimension.

func intSet(values []int) map[int]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func strSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func memberInt(set map[int]struct{}, v int) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

func memberStr(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}
