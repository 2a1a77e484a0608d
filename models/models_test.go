package models

import "testing"

func TestCanonicalTipoEnergia(t *testing.T) {
	cases := map[string]TipoEnergia{
		"50":           TipoI50,
		"50.0":         TipoI50,
		"100":          TipoI100,
		"100.0":        TipoI100,
		" 50 ":         TipoI50,
		"Convencional": TipoConvencional,
		"Incentivada":  TipoEnergia("Incentivada"),
	}

	for raw, want := range cases {
		if got := CanonicalTipoEnergia(raw); got != want {
			t.Errorf("CanonicalTipoEnergia(%q): expected %q, got %q", raw, want, got)
		}
	}
}

func TestCanonicalModalidadeDefault(t *testing.T) {
	if got := CanonicalModalidade(""); got != ModalidadeAtacadista {
		t.Errorf("Expected empty modality to default to Atacadista, got %q", got)
	}
	if got := CanonicalModalidade("   "); got != ModalidadeAtacadista {
		t.Errorf("Expected blank modality to default to Atacadista, got %q", got)
	}
}

func TestCanonicalModalidadeTitleCase(t *testing.T) {
	cases := map[string]Modalidade{
		"varejo":        ModalidadeVarejo,
		" ATACADISTA ":  ModalidadeAtacadista,
		"mercado livre": Modalidade("Mercado Livre"),
	}

	for raw, want := range cases {
		if got := CanonicalModalidade(raw); got != want {
			t.Errorf("CanonicalModalidade(%q): expected %q, got %q", raw, want, got)
		}
	}
}
