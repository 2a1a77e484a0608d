package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/viktsys/cotacoes/models"
)

func makeQuote(comerc string, tipo models.TipoEnergia, sub string, ano int, data string, valor string) models.Cotacao {
	q := models.Cotacao{
		Comercializadora: comerc,
		TipoEnergia:      tipo,
		Submercado:       sub,
		Modalidade:       models.ModalidadeAtacadista,
		AnoSuprimento:    ano,
		ValorCotacao:     decimal.RequireFromString(valor),
	}
	if data != "" {
		t, err := time.Parse("2006-01-02", data)
		if err != nil {
			panic(err)
		}
		q.DataCotacao = &t
	}
	return q
}

func testDataset() *models.Dataset {
	return &models.Dataset{Cotacoes: []models.Cotacao{
		makeQuote("CommA", models.TipoI50, "SE", 2026, "2026-01-10", "250.00"),
		makeQuote("CommB", models.TipoI50, "SE", 2026, "2026-03-01", "230.00"),
		makeQuote("CommA", models.TipoI50, "SE", 2027, "2027-01-10", "260.00"),
		makeQuote("CommC", models.TipoConvencional, "NE", 2026, "2026-02-15", "245.00"),
	}}
}

func datePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestFilterPorAno(t *testing.T) {
	view := Filter(testDataset(), Criteria{Anos: []int{2026}})
	if len(view) != 3 {
		t.Fatalf("Expected 3 quotes for 2026, got %d", len(view))
	}
	for _, q := range view {
		if q.AnoSuprimento != 2026 {
			t.Errorf("Expected only 2026 quotes, got year %d", q.AnoSuprimento)
		}
	}
}

func TestFilterAllDimensionsAND(t *testing.T) {
	view := Filter(testDataset(), Criteria{
		Anos:              []int{2026},
		Submercados:       []string{"SE"},
		Tipos:             []models.TipoEnergia{models.TipoI50},
		Comercializadoras: []string{"CommA", "CommB"},
		Modalidades:       []models.Modalidade{models.ModalidadeAtacadista},
		Meses:             []int{0},
	})
	if len(view) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(view))
	}
}

func TestFilterOrderIndependence(t *testing.T) {
	ds := testDataset()
	combined := Filter(ds, Criteria{Anos: []int{2026}, Comercializadoras: []string{"CommA"}})

	// Same predicates applied one dimension at a time, in both orders.
	anosFirst := Filter(&models.Dataset{Cotacoes: Filter(ds, Criteria{Anos: []int{2026}})},
		Criteria{Comercializadoras: []string{"CommA"}})
	comercFirst := Filter(&models.Dataset{Cotacoes: Filter(ds, Criteria{Comercializadoras: []string{"CommA"}})},
		Criteria{Anos: []int{2026}})

	if len(combined) != len(anosFirst) || len(combined) != len(comercFirst) {
		t.Fatalf("Expected same row count regardless of order, got %d/%d/%d",
			len(combined), len(anosFirst), len(comercFirst))
	}
	for i := range combined {
		if combined[i].Comercializadora != anosFirst[i].Comercializadora ||
			combined[i].Comercializadora != comercFirst[i].Comercializadora {
			t.Errorf("Filter order changed the resulting rows at index %d", i)
		}
	}
}

func TestFilterDateRangeInclusive(t *testing.T) {
	view := Filter(testDataset(), Criteria{
		Inicio: datePtr("2026-01-10"),
		Fim:    datePtr("2026-03-01"),
	})
	// Both boundary dates are included.
	if len(view) != 3 {
		t.Fatalf("Expected 3 quotes inside the range, got %d", len(view))
	}
}

func TestFilterDateIgnoresTimeOfDay(t *testing.T) {
	ds := testDataset()
	late := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	ds.Cotacoes[1].DataCotacao = &late

	view := Filter(ds, Criteria{
		Inicio: datePtr("2026-03-01"),
		Fim:    datePtr("2026-03-01"),
	})
	if len(view) != 1 {
		t.Fatalf("Expected quote late in the day to match its calendar date, got %d rows", len(view))
	}
}

func TestFilterHalfRangeFallsBack(t *testing.T) {
	// Only one bound supplied: no date restriction at all.
	view := Filter(testDataset(), Criteria{Inicio: datePtr("2027-01-01")})
	if len(view) != testDataset().Len() {
		t.Errorf("Expected half range to apply no restriction, got %d rows", len(view))
	}
}

func TestFilterNilDateExcludedWhenRangeActive(t *testing.T) {
	ds := testDataset()
	ds.Cotacoes = append(ds.Cotacoes, makeQuote("CommD", models.TipoI100, "S", 2026, "", "240.00"))

	all := Filter(ds, Criteria{})
	if len(all) != 5 {
		t.Fatalf("Expected dateless quote in unrestricted view, got %d rows", len(all))
	}

	ranged := Filter(ds, Criteria{Inicio: datePtr("2026-01-01"), Fim: datePtr("2027-12-31")})
	for _, q := range ranged {
		if q.DataCotacao == nil {
			t.Error("Expected dateless quote to be excluded from a date-ranged view")
		}
	}
}

func TestFilterEmptyResult(t *testing.T) {
	view := Filter(testDataset(), Criteria{Anos: []int{1999}})
	if !view.Empty() {
		t.Errorf("Expected empty view, got %d rows", len(view))
	}
}
