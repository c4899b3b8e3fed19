package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/internal/domain/validation"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
)

// CatalogHandler serves the product registry and field validation so that a
// client can render and pre-check search forms without a session.
type CatalogHandler struct {
	catalog   catalog.Catalog
	validator *validation.Engine
	logger    logging.Logger
}

// NewCatalogHandler creates a CatalogHandler.  Nil collaborators fall back
// to the built-in catalog and rule set.
func NewCatalogHandler(c catalog.Catalog, v *validation.Engine, logger logging.Logger) *CatalogHandler {
	if c == nil {
		c = catalog.Default()
	}
	if v == nil {
		v = validation.Default()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CatalogHandler{catalog: c, validator: v, logger: logger.Named("http.catalog")}
}

// JurisdictionResponse is one entry of the jurisdiction list.
type JurisdictionResponse struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases,omitempty"`
	Products int      `json:"products"`
}

// CriteriaValidationRequest checks a whole search form.
type CriteriaValidationRequest struct {
	ProductCode string            `json:"productCode" validate:"required"`
	Criteria    map[string]string `json:"criteria" validate:"required"`
}

// MatterValidationRequest checks a matter reference.
type MatterValidationRequest struct {
	Reference string `json:"reference"`
}

// ValidationResponse reports per-field messages; Valid is true when Fields
// is empty.
type ValidationResponse struct {
	Valid  bool              `json:"valid"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ListJurisdictions handles GET /jurisdictions.
func (h *CatalogHandler) ListJurisdictions(w http.ResponseWriter, r *http.Request) {
	infos := catalog.Jurisdictions()
	out := make([]JurisdictionResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, JurisdictionResponse{
			Code:     info.Code.String(),
			Name:     info.Name,
			Aliases:  catalog.Aliases(info.Code),
			Products: len(h.catalog.ProductsFor(info.Code)),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ListProducts handles GET /jurisdictions/{code}/products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	j, err := catalog.Normalize(chi.URLParam(r, "code"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	products := h.catalog.ProductsFor(j)
	if products == nil {
		products = []catalog.SearchProduct{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{productCode}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(catalog.ProductCode(chi.URLParam(r, "productCode")))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ValidateCriteria handles POST /validate/criteria.  A rejected form is
// answered with 200 and the per-field messages; only a malformed request is
// an error.
func (h *CatalogHandler) ValidateCriteria(w http.ResponseWriter, r *http.Request) {
	var req CriteriaValidationRequest
	if err := decodeRequest(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	p, err := h.catalog.Product(catalog.ProductCode(req.ProductCode))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	fields := h.validator.ValidateCriteria(p, req.Criteria)
	writeJSON(w, http.StatusOK, ValidationResponse{Valid: len(fields) == 0, Fields: fields})
}

// ValidateMatter handles POST /validate/matter.
func (h *CatalogHandler) ValidateMatter(w http.ResponseWriter, r *http.Request) {
	var req MatterValidationRequest
	if err := decodeRequest(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	resp := ValidationResponse{Valid: true}
	if msg := validation.ValidateMatter(req.Reference); msg != "" {
		resp = ValidationResponse{Fields: map[string]string{"matterReference": msg}}
	}
	writeJSON(w, http.StatusOK, resp)
}
