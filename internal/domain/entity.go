package domain

// CompetitorKind classifies a ranked competitor entity structurally.
// Brand is declared for parity with the data model but no current
// heuristic produces it.
type CompetitorKind string

const (
	CompetitorKindCompany CompetitorKind = "company"
	CompetitorKindProduct CompetitorKind = "product"
	CompetitorKindBrand   CompetitorKind = "brand"
)

func (k CompetitorKind) String() string {
	return string(k)
}

func (k CompetitorKind) IsValid() bool {
	switch k {
	case CompetitorKindCompany, CompetitorKindProduct, CompetitorKindBrand:
		return true
	default:
		return false
	}
}

// ValueType describes how a criterion's cell values behave.
type ValueType string

const (
	ValueTypeQuantitative ValueType = "quantitative"
	ValueTypeBinary       ValueType = "binary"
	ValueTypeQualitative  ValueType = "qualitative"
	ValueTypeCategorical  ValueType = "categorical"
)

func (v ValueType) String() string {
	return string(v)
}

func (v ValueType) IsValid() bool {
	switch v {
	case ValueTypeQuantitative, ValueTypeBinary, ValueTypeQualitative, ValueTypeCategorical:
		return true
	default:
		return false
	}
}

// Competitor is a canonical competitor entity after aggregation.
// Frequency counts raw mentions across all models and variants, so it
// is always >= 1 for an emitted entity.
type Competitor struct {
	Name      string         `json:"name"`
	Kind      CompetitorKind `json:"kind"`
	Parent    string         `json:"parent,omitempty"`
	Frequency int            `json:"frequency"`
	Rank      int            `json:"rank"`
}

// Criterion is a canonical comparison criterion after aggregation.
// ValueType, Unit and Scale are inferred by keyword heuristics, never
// supplied by a model.
type Criterion struct {
	Name      string    `json:"name"`
	ValueType ValueType `json:"value_type"`
	Unit      string    `json:"unit,omitempty"`
	Scale     string    `json:"scale,omitempty"`
	Frequency int       `json:"frequency"`
	Rank      int       `json:"rank"`
}
