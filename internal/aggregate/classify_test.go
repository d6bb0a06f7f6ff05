package aggregate

import (
	"testing"

	"github.com/kapu/comp-table-go/internal/domain"
)

func TestClassifyCompetitor(t *testing.T) {
	tests := []struct {
		name       string
		wantKind   domain.CompetitorKind
		wantParent string
	}{
		{"Tesla", domain.CompetitorKindCompany, ""},
		{"Model 3 (Tesla)", domain.CompetitorKindProduct, "Tesla"},
		{"Galaxy S24 (Samsung)", domain.CompetitorKindProduct, "Samsung"},
		{"Uber", domain.CompetitorKindCompany, ""},
	}

	for _, tt := range tests {
		kind, parent := ClassifyCompetitor(tt.name)
		if kind != tt.wantKind {
			t.Fatalf("%q: expected kind %s, got %s", tt.name, tt.wantKind, kind)
		}
		if parent != tt.wantParent {
			t.Fatalf("%q: expected parent %q, got %q", tt.name, tt.wantParent, parent)
		}
	}
}

func TestInferValueType(t *testing.T) {
	tests := []struct {
		name string
		want domain.ValueType
	}{
		{"Price", domain.ValueTypeQuantitative},
		{"Battery Life", domain.ValueTypeQuantitative},
		{"Driving Range", domain.ValueTypeQuantitative},
		{"Waterproof", domain.ValueTypeBinary},
		{"Wireless Charging", domain.ValueTypeBinary},
		{"Color", domain.ValueTypeCategorical},
		{"Body Style", domain.ValueTypeCategorical},
		{"Ease of Use", domain.ValueTypeQualitative},
		{"Brand Reputation", domain.ValueTypeQualitative},
	}

	for _, tt := range tests {
		if got := InferValueType(tt.name); got != tt.want {
			t.Fatalf("%q: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestInferValueTypeIsCaseInsensitive(t *testing.T) {
	if got := InferValueType("BATTERY LIFE"); got != domain.ValueTypeQuantitative {
		t.Fatalf("expected quantitative for uppercase name, got %s", got)
	}
}

func TestInferUnit(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Price", "USD"},
		{"Total Cost", "USD"},
		{"Weight", "g"},
		{"Battery Life", "hours"},
		{"Screen Size", "inches"},
		{"Top Speed", "mph"},
		{"Driving Range", "miles"},
		{"Ease of Use", ""},
	}

	for _, tt := range tests {
		if got := InferUnit(tt.name); got != tt.want {
			t.Fatalf("%q: expected unit %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestInferScale(t *testing.T) {
	if got := InferScale(domain.ValueTypeQualitative); got != "1-5" {
		t.Fatalf("expected 1-5 scale for qualitative, got %q", got)
	}
	for _, valueType := range []domain.ValueType{
		domain.ValueTypeQuantitative,
		domain.ValueTypeBinary,
		domain.ValueTypeCategorical,
	} {
		if got := InferScale(valueType); got != "" {
			t.Fatalf("expected no scale for %s, got %q", valueType, got)
		}
	}
}
