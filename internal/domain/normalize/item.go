package normalize

import "github.com/turtacn/titleorder/internal/domain/catalog"

// InputTitleReference is the Inputs key carrying the reference a second-stage
// verification or an order is keyed by.
const InputTitleReference = "titleReference"

// Item is the canonical result item every provider response is normalized
// into.
type Item struct {
	ID                       string               `json:"id"`
	Description              string               `json:"description"`
	SearchTypeID             catalog.SearchTypeID `json:"searchTypeId"`
	UnitPrice                float64              `json:"unitPrice"`
	Fulfilment               catalog.Fulfilment   `json:"fulfilment"`
	ProductCode              catalog.ProductCode  `json:"productCode"`
	Selectable               bool                 `json:"selectable"`
	Unavailable              bool                 `json:"unavailable"`
	PageIndex                int                  `json:"pageIndex"`
	Inputs                   map[string]string    `json:"inputs"`
	Render                   map[string]string    `json:"render"`
	VerificationSearchTypeID catalog.SearchTypeID `json:"verificationSearchTypeId,omitempty"`
	OriginalSearchCriteria   map[string]string    `json:"originalSearchCriteria,omitempty"`
}

// NeedsVerification reports whether a second-stage lookup is outstanding.
func (i Item) NeedsVerification() bool { return i.VerificationSearchTypeID != "" }

// TitleReference returns Inputs["titleReference"].
func (i Item) TitleReference() string { return i.Inputs[InputTitleReference] }

// Pricing carries the order metadata priced onto each item.
type Pricing struct {
	UnitPrice float64
	Currency  string
}

// Options are the optional normalization parameters.
type Options struct {
	PageIndex      int
	SearchCriteria map[string]string
	// ResolvedProductCode overrides the product to purchase for directly
	// orderable items.
	ResolvedProductCode catalog.ProductCode
}

// Pagination is the per-search-type paging state reported by the provider.
type Pagination struct {
	PageIndex  int `json:"pageIndex"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// HasMore reports whether another page can be fetched.
func (p Pagination) HasMore() bool { return p.PageIndex+1 < p.TotalPages }
