package catalog

// SearchTypeID selects the grammar/normalizer pair within a jurisdiction.
type SearchTypeID string

func (s SearchTypeID) String() string { return string(s) }

// ProductCode identifies a purchasable search product.
type ProductCode string

func (p ProductCode) String() string { return string(p) }

// Fulfilment says whether an order line is delivered by the provider
// automatically or keyed in by an operator.
type Fulfilment string

const (
	FulfilmentAuto   Fulfilment = "auto"
	FulfilmentManual Fulfilment = "manual"
)

// NotificationMode says how a provider notification attached to a provisional
// order is surfaced.
type NotificationMode string

const (
	// NotificationInline shows the notification as a recoverable search error.
	NotificationInline NotificationMode = "inline"
	// NotificationBlocking raises a blocking error the user has to dismiss.
	// Used by the double verification products.
	NotificationBlocking NotificationMode = "blocking"
)

// FieldSpec describes one input of a product's search form.
type FieldSpec struct {
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// SearchProduct is one entry of a jurisdiction's product list.
type SearchProduct struct {
	Code         ProductCode      `json:"productCode"`
	SearchTypeID SearchTypeID     `json:"searchTypeId"`
	Label        string           `json:"label"`
	Jurisdiction Jurisdiction     `json:"jurisdiction"`
	Infotip      string           `json:"infotip,omitempty"`
	Fields       []FieldSpec      `json:"fields"`
	Fulfilment   Fulfilment       `json:"fulfilment"`
	Unavailable  bool             `json:"unavailable,omitempty"`
	Notification NotificationMode `json:"notification"`
	// Chained products return candidates that need a title-reference lookup
	// before they can be ordered.
	Chained bool `json:"chained,omitempty"`
}

// Field returns the FieldSpec with the given label.
func (p SearchProduct) Field(label string) (FieldSpec, bool) {
	for _, f := range p.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func (p SearchProduct) clone() SearchProduct {
	fields := make([]FieldSpec, len(p.Fields))
	copy(fields, p.Fields)
	p.Fields = fields
	return p
}
