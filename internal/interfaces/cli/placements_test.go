package cli

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/client"
	"github.com/turtacn/titleorder/pkg/errors"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetPlacement(ctx context.Context, id string) (*order.Placement, error) {
	args := m.Called(id)
	p, _ := args.Get(0).(*order.Placement)
	return p, args.Error(1)
}

func (m *mockStore) ListByMatter(ctx context.Context, matter string, limit int) ([]*order.Placement, error) {
	args := m.Called(matter, limit)
	ps, _ := args.Get(0).([]*order.Placement)
	return ps, args.Error(1)
}

type trackingCloser struct{ closed int }

func (c *trackingCloser) Close() error {
	c.closed++
	return nil
}

func ledgerBackends(store PlacementStore, closer *trackingCloser) Backends {
	return Backends{
		Ledger: func(context.Context, *config.Config, logging.Logger) (PlacementStore, io.Closer, error) {
			return store, closer, nil
		},
	}
}

func placement() *order.Placement {
	return &order.Placement{
		ID:              "pl-1",
		MatterReference: "MAT-001",
		Jurisdiction:    catalog.JurisdictionNSW,
		PlacedAt:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Lines: []order.PlacedLine{
			{
				Request: client.OrderLine{LineID: "l1", ProductCode: "NSW-TITLE", UnitPrice: 12.5},
				Result:  client.LineResult{LineID: "l1", Status: client.LineAccepted, OrderID: "ORD-1"},
			},
			{
				Request: client.OrderLine{LineID: "l2", ProductCode: "NSW-TITLE", UnitPrice: 12.5},
				Result:  client.LineResult{LineID: "l2", Status: client.LineRejected, Message: "title cancelled"},
			},
		},
	}
}

func TestPlacementsShow(t *testing.T) {
	store := &mockStore{}
	store.On("GetPlacement", "pl-1").Return(placement(), nil)
	closer := &trackingCloser{}

	out, err := run(t, ledgerBackends(store, closer), "placements", "show", "pl-1")
	require.NoError(t, err)
	assert.Contains(t, out, "placement pl-1  matter MAT-001  NSW  2024-05-01T10:00:00Z")
	assert.Contains(t, out, "accepted 1  rejected 1  failed 0")
	assert.Contains(t, out, "ORD-1")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "title cancelled")
	assert.Equal(t, 1, closer.closed)
	store.AssertExpectations(t)
}

func TestPlacementsShow_NotFound(t *testing.T) {
	store := &mockStore{}
	store.On("GetPlacement", "missing").Return(nil, errors.NotFound("placement not found"))

	_, err := run(t, ledgerBackends(store, &trackingCloser{}), "placements", "show", "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestPlacementsList(t *testing.T) {
	store := &mockStore{}
	store.On("ListByMatter", "MAT-001", 5).Return([]*order.Placement{placement()}, nil)
	store.On("ListByMatter", "MAT-002", 20).Return(nil, nil)

	out, err := run(t, ledgerBackends(store, &trackingCloser{}), "-o", "json", "placements", "list", "--matter", "MAT-001", "--limit", "5")
	require.NoError(t, err)
	var list []*order.Placement
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "pl-1", list[0].ID)

	out, err = run(t, ledgerBackends(store, &trackingCloser{}), "-o", "json", "placements", "list", "--matter", "MAT-002")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
	store.AssertExpectations(t)
}

func TestPlacementsList_RejectsBadLimit(t *testing.T) {
	store := &mockStore{}
	for _, limit := range []string{"0", "101"} {
		_, err := run(t, ledgerBackends(store, &trackingCloser{}), "placements", "list", "--matter", "M", "--limit", limit)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam), limit)
	}
	store.AssertNotCalled(t, "ListByMatter", mock.Anything, mock.Anything)
}

func TestPlacements_OpenFailure(t *testing.T) {
	b := Backends{
		Ledger: func(context.Context, *config.Config, logging.Logger) (PlacementStore, io.Closer, error) {
			return nil, nil, errors.New(errors.CodeServiceUnavailable, "database down")
		},
	}
	_, err := run(t, b, "placements", "show", "pl-1")
	assert.True(t, errors.IsCode(err, errors.CodeServiceUnavailable))
}

func TestOpenLedger_DisabledDatabase(t *testing.T) {
	cfg := &config.Config{}
	_, _, err := openLedger(context.Background(), cfg, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}
