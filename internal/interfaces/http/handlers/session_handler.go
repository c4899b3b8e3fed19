package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/internal/domain/normalize"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/client"
)

// SessionStore is the subset of *order.Registry the handler needs.
type SessionStore interface {
	Create() *order.Orchestrator
	Get(id string) (*order.Orchestrator, error)
	Delete(id string) bool
}

// SessionHandler exposes an order session over HTTP.  Every mutating
// endpoint answers with the session snapshot so that clients never have to
// reconcile partial state themselves.
type SessionHandler struct {
	sessions SessionStore
	logger   logging.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions SessionStore, logger logging.Logger) *SessionHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SessionHandler{sessions: sessions, logger: logger.Named("http.session")}
}

// ─── request / response bodies ──────────────────────────────────────────────

// MatterRequest sets the matter reference of a session.
type MatterRequest struct {
	Reference string `json:"reference"`
}

// RegionRequest switches the session's jurisdiction.
type RegionRequest struct {
	Jurisdiction string `json:"jurisdiction" validate:"required"`
	Confirmed    bool   `json:"confirmed"`
}

// ProductRequest selects a product of the current jurisdiction by index.
type ProductRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

// SearchRequest runs the selected product's search.
type SearchRequest struct {
	Criteria map[string]string `json:"criteria" validate:"required"`
}

// PaginateRequest loads one more page of an earlier result.
type PaginateRequest struct {
	SearchTypeID string `json:"searchTypeId" validate:"required"`
	PageIndex    int    `json:"pageIndex" validate:"min=0"`
}

// ChooseRequest adds a result item to the order.
type ChooseRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

// ManualRequest adds a manually fulfilled line.
type ManualRequest struct {
	ItemID      string            `json:"itemId"`
	ProductCode string            `json:"productCode" validate:"required"`
	Description string            `json:"description" validate:"required"`
	Fields      map[string]string `json:"fields"`
}

// ItemsResponse carries the items a fetch produced plus the session after it.
type ItemsResponse struct {
	Items   []normalize.Item `json:"items"`
	Session order.Snapshot   `json:"session"`
}

// ProductResponse carries the selected product plus the session after it.
type ProductResponse struct {
	Product catalog.SearchProduct `json:"product"`
	Session order.Snapshot        `json:"session"`
}

// ManualResponse carries the id of the new manual line.
type ManualResponse struct {
	LineID  string         `json:"lineId"`
	Session order.Snapshot `json:"session"`
}

// PlacementResponse carries the placement outcome and per-status counts.
type PlacementResponse struct {
	Placement *order.Placement `json:"placement"`
	Accepted  int              `json:"accepted"`
	Rejected  int              `json:"rejected"`
	Failed    int              `json:"failed"`
}

// ─── endpoints ──────────────────────────────────────────────────────────────

// Create handles POST /sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	o := h.sessions.Create()
	h.logger.Debug("session created", logging.Session(o.ID()))
	writeJSON(w, http.StatusCreated, o.Snapshot())
}

// Get handles GET /sessions/{sessionID}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, o.Snapshot())
}

// Delete handles DELETE /sessions/{sessionID}.  The session is abandoned so
// that in-flight provider calls are cancelled before it is dropped.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	o.Abandon()
	h.sessions.Delete(o.ID())
	w.WriteHeader(http.StatusNoContent)
}

// Abandon handles POST /sessions/{sessionID}/abandon.
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	o.Abandon()
	writeJSON(w, http.StatusOK, o.Snapshot())
}

// SetMatter handles PUT /sessions/{sessionID}/matter.
func (h *SessionHandler) SetMatter(w http.ResponseWriter, r *http.Request) {
	var req MatterRequest
	o, ok := h.sessionWithBody(w, r, &req)
	if !ok {
		return
	}
	if err := o.SetMatter(req.Reference); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o.Snapshot())
}

// ChangeRegion handles PUT /sessions/{sessionID}/region.
func (h *SessionHandler) ChangeRegion(w http.ResponseWriter, r *http.Request) {
	var req RegionRequest
	o, ok := h.sessionWithBody(w, r, &req)
	if !ok {
		return
	}
	j, err := catalog.Normalize(req.Jurisdiction)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if err := o.ChangeRegion(j, req.Confirmed); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o.Snapshot())
}

// SelectProduct handles PUT /sessions/{sessionID}/product.
func (h *SessionHandler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	o, ok := h.sessionWithBody(w, r, &req)
	if !ok {
		return
	}
	p, err := o.SelectProduct(*req.Index)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductResponse{Product: p, Session: o.Snapshot()})
}

// Search handles POST /sessions/{sessionID}/search.
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	o, ok := h.sessionWithBody(w, r, &req)
	if !ok {
		return
	}
	items, err := o.Search(r.Context(), req.Criteria)
	h.writeItems(w, o, items, err)
}

// Paginate handles POST /sessions/{sessionID}/paginate.
func (h *SessionHandler) Paginate(w http.ResponseWriter, r *http.Request) {
	var req PaginateRequest
	o, ok := h.sessionWithBody(w, r, &req)
	if !ok {
		return
	}
	items, err := o.Paginate(r.Context(), catalog.SearchTypeID(req.SearchTypeID), req.PageIndex)
	h.writeItems(w, o, items, err)
}

// Verify handles POST /sessions/{sessionID}/items/{itemID}/verify.
func (h *SessionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	item, err := o.Verify(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	h.writeItems(w, o, []normalize.Item{item}, nil)
}

// InitializeOrder handles POST /sessions/{sessionID}/items/{itemID}/initialize.
func (h *SessionHandler) InitializeOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	items, err := o.InitializeOrder(r.Context(), chi.URLParam(r, "itemID"))
	h.writeItems(w, o, items, err)
}

// Choose handles POST /sessions/{sessionID}/chosen.
func (h *SessionHandler) Choose(w http.ResponseWriter, r *http.Request) {
	var req ChooseRequest
	o, ok := h.sessionWithBody(w, r, &req)
	if !ok {
		return
	}
	if err := o.Choose(req.ItemID); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o.Snapshot())
}

// Unchoose handles DELETE /sessions/{sessionID}/chosen/{lineID}.  The id may
// name a chosen item or a manual line.
func (h *SessionHandler) Unchoose(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := o.Unchoose(chi.URLParam(r, "lineID")); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o.Snapshot())
}

// ChooseManual handles POST /sessions/{sessionID}/manual.
func (h *SessionHandler) ChooseManual(w http.ResponseWriter, r *http.Request) {
	var req ManualRequest
	o, ok := h.sessionWithBody(w, r, &req)
	if !ok {
		return
	}
	id, err := o.ChooseManual(order.ManualLine{
		ItemID:      req.ItemID,
		ProductCode: catalog.ProductCode(req.ProductCode),
		Description: req.Description,
		Fields:      req.Fields,
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, ManualResponse{LineID: id, Session: o.Snapshot()})
}

// PlaceOrder handles POST /sessions/{sessionID}/place.
func (h *SessionHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	p, err := o.PlaceOrder(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlacementResponse(p))
}

// ─── helpers ────────────────────────────────────────────────────────────────

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*order.Orchestrator, bool) {
	o, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return nil, false
	}
	return o, true
}

func (h *SessionHandler) sessionWithBody(w http.ResponseWriter, r *http.Request, dst interface{}) (*order.Orchestrator, bool) {
	o, ok := h.session(w, r)
	if !ok {
		return nil, false
	}
	if err := decodeRequest(r, dst); err != nil {
		writeAppError(w, h.logger, err)
		return nil, false
	}
	return o, true
}

func (h *SessionHandler) writeItems(w http.ResponseWriter, o *order.Orchestrator, items []normalize.Item, err error) {
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []normalize.Item{}
	}
	writeJSON(w, http.StatusOK, ItemsResponse{Items: items, Session: o.Snapshot()})
}

func newPlacementResponse(p *order.Placement) PlacementResponse {
	counts := p.Counts()
	return PlacementResponse{
		Placement: p,
		Accepted:  counts[client.LineAccepted],
		Rejected:  counts[client.LineRejected],
		Failed:    counts[client.LineError],
	}
}
