package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/pkg/client"
	"github.com/turtacn/titleorder/pkg/errors"
)

type mockPlacementReader struct {
	mock.Mock
}

func (m *mockPlacementReader) GetPlacement(ctx context.Context, id string) (*order.Placement, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*order.Placement)
	return p, args.Error(1)
}

func (m *mockPlacementReader) ListByMatter(ctx context.Context, matter string, limit int) ([]*order.Placement, error) {
	args := m.Called(ctx, matter, limit)
	ps, _ := args.Get(0).([]*order.Placement)
	return ps, args.Error(1)
}

func placementRouter(reader PlacementReader) http.Handler {
	h := NewPlacementHandler(reader, nil)
	r := chi.NewRouter()
	r.Get("/placements", h.List)
	r.Get("/placements/{placementID}", h.Get)
	return r
}

func samplePlacement() *order.Placement {
	return &order.Placement{
		ID:              "pl-1",
		SessionID:       "s-1",
		MatterReference: "MAT-001",
		Jurisdiction:    catalog.JurisdictionNSW,
		PlacedAt:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Lines: []order.PlacedLine{
			{Request: client.OrderLine{LineID: "l1"}, Result: client.LineResult{LineID: "l1", Status: client.LineAccepted, OrderID: "ORD-1"}},
			{Request: client.OrderLine{LineID: "l2"}, Result: client.LineResult{LineID: "l2", Status: client.LineRejected}},
		},
	}
}

func TestPlacementHandler_Get(t *testing.T) {
	reader := &mockPlacementReader{}
	reader.On("GetPlacement", mock.Anything, "pl-1").Return(samplePlacement(), nil)
	reader.On("GetPlacement", mock.Anything, "missing").Return(nil, errors.NotFound("placement not found"))

	w := do(placementRouter(reader), http.MethodGet, "/placements/pl-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp PlacementResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pl-1", resp.Placement.ID)
	assert.Equal(t, 1, resp.Accepted)
	assert.Equal(t, 1, resp.Rejected)
	assert.Zero(t, resp.Failed)

	w = do(placementRouter(reader), http.MethodGet, "/placements/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	reader.AssertExpectations(t)
}

func TestPlacementHandler_List(t *testing.T) {
	reader := &mockPlacementReader{}
	reader.On("ListByMatter", mock.Anything, "MAT-001", 0).Return([]*order.Placement{samplePlacement()}, nil)
	reader.On("ListByMatter", mock.Anything, "MAT-002", 5).Return(nil, nil)

	w := do(placementRouter(reader), http.MethodGet, "/placements?matter=MAT-001", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []*order.Placement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "MAT-001", list[0].MatterReference)

	w = do(placementRouter(reader), http.MethodGet, "/placements?matter=MAT-002&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	reader.AssertExpectations(t)
}

func TestPlacementHandler_ListRejectsBadQuery(t *testing.T) {
	reader := &mockPlacementReader{}
	for _, path := range []string{"/placements", "/placements?matter=M&limit=0", "/placements?matter=M&limit=abc", "/placements?matter=M&limit=101"} {
		w := do(placementRouter(reader), http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
	reader.AssertNotCalled(t, "ListByMatter", mock.Anything, mock.Anything, mock.Anything)
}
