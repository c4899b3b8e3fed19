package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/errors"
)

// maxListLimit bounds the limit query parameter of placement listings.
const maxListLimit = 100

// PlacementReader reads recorded placements.  The postgres ledger
// implements it.
type PlacementReader interface {
	GetPlacement(ctx context.Context, id string) (*order.Placement, error)
	ListByMatter(ctx context.Context, matter string, limit int) ([]*order.Placement, error)
}

// PlacementHandler serves the placement history.
type PlacementHandler struct {
	reader PlacementReader
	logger logging.Logger
}

// NewPlacementHandler creates a PlacementHandler.
func NewPlacementHandler(reader PlacementReader, logger logging.Logger) *PlacementHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PlacementHandler{reader: reader, logger: logger.Named("http.placement")}
}

// Get handles GET /placements/{placementID}.
func (h *PlacementHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.reader.GetPlacement(r.Context(), chi.URLParam(r, "placementID"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlacementResponse(p))
}

// List handles GET /placements?matter=<ref>&limit=<n>.
func (h *PlacementHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matter := q.Get("matter")
	if matter == "" {
		writeAppError(w, h.logger, errors.InvalidParam("matter query parameter is required"))
		return
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxListLimit {
			writeAppError(w, h.logger, errors.InvalidParam("limit must be between 1 and 100").WithDetail(v))
			return
		}
		limit = n
	}
	placements, err := h.reader.ListByMatter(r.Context(), matter, limit)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if placements == nil {
		placements = []*order.Placement{}
	}
	writeJSON(w, http.StatusOK, placements)
}
