package order

import (
	"context"
	"time"

	"github.com/turtacn/titleorder/pkg/client"
)

// Transport is the provider gateway.  *client.Client implements it, as do the
// caching decorators in front of it.
type Transport interface {
	Search(ctx context.Context, q client.Query) ([]byte, error)
	Paginate(ctx context.Context, q client.Query, pageIndex int) ([]byte, error)
	InitializeOrder(ctx context.Context, line client.OrderLine) ([]byte, error)
	PlaceOrder(ctx context.Context, lines []client.OrderLine) ([]client.LineResult, error)
}

// PriceBook resolves the unit price of a product.
type PriceBook interface {
	PriceFor(productCode string) float64
}

// PriceBookFunc adapts a function to PriceBook.
type PriceBookFunc func(productCode string) float64

func (f PriceBookFunc) PriceFor(productCode string) float64 { return f(productCode) }

// Ledger persists placement outcomes.
type Ledger interface {
	RecordPlacement(ctx context.Context, p *Placement) error
}

// EventPublisher announces accepted order lines to downstream collaborators
// (document upload, email, printing).
type EventPublisher interface {
	PublishLinePlaced(ctx context.Context, e LinePlacedEvent) error
}

// PayloadArchive keeps raw provider payloads that failed to normalize.
type PayloadArchive interface {
	ArchivePayload(ctx context.Context, key string, payload []byte) error
}

// Metrics receives orchestrator measurements.
type Metrics interface {
	ObserveSearch(jurisdiction, searchType, outcome string, d time.Duration)
	ObserveItems(jurisdiction, searchType string, n int)
	ObservePlacementLine(jurisdiction string, status client.LineStatus)
	IncSuperseded(searchType string)
	ObserveTransition(from, to State)
}

// LinePlacedEvent is published once per accepted order line.
type LinePlacedEvent struct {
	PlacementID     string    `json:"placementId"`
	SessionID       string    `json:"sessionId"`
	LineID          string    `json:"lineId"`
	OrderID         string    `json:"orderId"`
	Jurisdiction    string    `json:"jurisdiction"`
	ProductCode     string    `json:"productCode"`
	Fulfilment      string    `json:"fulfilment"`
	MatterReference string    `json:"matterReference"`
	TitleReferences []string  `json:"titleReferences,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// ─── no-op collaborators ────────────────────────────────────────────────────

type nopLedger struct{}

func (nopLedger) RecordPlacement(context.Context, *Placement) error { return nil }

type nopPublisher struct{}

func (nopPublisher) PublishLinePlaced(context.Context, LinePlacedEvent) error { return nil }

type nopArchive struct{}

func (nopArchive) ArchivePayload(context.Context, string, []byte) error { return nil }

type nopMetrics struct{}

func (nopMetrics) ObserveSearch(string, string, string, time.Duration) {}
func (nopMetrics) ObserveItems(string, string, int)                    {}
func (nopMetrics) ObservePlacementLine(string, client.LineStatus)      {}
func (nopMetrics) IncSuperseded(string)                                {}
func (nopMetrics) ObserveTransition(State, State)                      {}
