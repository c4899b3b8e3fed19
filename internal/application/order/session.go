package order

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/internal/domain/normalize"
	"github.com/turtacn/titleorder/pkg/client"
	"github.com/turtacn/titleorder/pkg/errors"
)

// MsgNothingChosen is returned by PlaceOrder when no line was chosen.
const MsgNothingChosen = "must add at least 1 product"

// ErrSuperseded is returned when a newer call for the same search type, an
// abandon or a region change made the result of a call obsolete.  The result
// was discarded without touching the session.
var ErrSuperseded = errors.New(errors.CodeSuperseded, errors.DefaultMessageForCode(errors.CodeSuperseded))

// ManualLine is a manually fulfilled order line with its own description and
// user-entered fields.
type ManualLine struct {
	LineID      string              `json:"lineId"`
	ItemID      string              `json:"itemId,omitempty"`
	ProductCode catalog.ProductCode `json:"productCode"`
	Description string              `json:"description"`
	Fields      map[string]string   `json:"fields,omitempty"`
}

// PlacedLine pairs a submitted line with the provider's verdict.
type PlacedLine struct {
	Request client.OrderLine  `json:"request"`
	Result  client.LineResult `json:"result"`
}

// Placement is the outcome of one PlaceOrder call.
type Placement struct {
	ID              string               `json:"id"`
	SessionID       string               `json:"sessionId"`
	MatterReference string               `json:"matterReference"`
	Jurisdiction    catalog.Jurisdiction `json:"jurisdiction"`
	Lines           []PlacedLine         `json:"lines"`
	PlacedAt        time.Time            `json:"placedAt"`
}

// Accepted returns the lines the provider accepted.
func (p *Placement) Accepted() []PlacedLine {
	var out []PlacedLine
	for _, l := range p.Lines {
		if l.Result.Status == client.LineAccepted {
			out = append(out, l)
		}
	}
	return out
}

// Counts tallies lines per status.
func (p *Placement) Counts() map[client.LineStatus]int {
	out := make(map[client.LineStatus]int, 3)
	for _, l := range p.Lines {
		out[l.Result.Status]++
	}
	return out
}

// CriteriaError carries the per-field messages of a rejected search form.
type CriteriaError struct {
	*errors.AppError
	Fields map[string]string
}

func newCriteriaError(fields map[string]string) *CriteriaError {
	labels := make([]string, 0, len(fields))
	for label := range fields {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, label+": "+fields[label])
	}
	return &CriteriaError{
		AppError: errors.Validation("search criteria are not valid").WithDetail(strings.Join(parts, "; ")),
		Fields:   fields,
	}
}

// Unwrap exposes the AppError so that code helpers see CodeValidation.
func (e *CriteriaError) Unwrap() error { return e.AppError }

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	SessionID       string                                        `json:"sessionId"`
	State           State                                         `json:"state"`
	MatterReference string                                        `json:"matterReference"`
	Jurisdiction    catalog.Jurisdiction                          `json:"jurisdiction,omitempty"`
	ProductIndex    int                                           `json:"productIndex"`
	Founded         map[catalog.SearchTypeID][]normalize.Item     `json:"founded"`
	Verified        map[catalog.SearchTypeID][]normalize.Item     `json:"verified"`
	Pagination      map[catalog.SearchTypeID]normalize.Pagination `json:"pagination"`
	Chosen          []string                                      `json:"chosen"`
	Manual          []ManualLine                                  `json:"manual"`
	SearchErrors    map[catalog.SearchTypeID]string               `json:"searchErrors,omitempty"`
	OrderStarted    bool                                          `json:"orderStarted"`
	LastPlacement   *Placement                                    `json:"lastPlacement,omitempty"`
	UpdatedAt       time.Time                                     `json:"updatedAt"`
}

// ─── session ────────────────────────────────────────────────────────────────

type call struct {
	token  uint64
	cancel context.CancelFunc
}

type ticket struct {
	generation uint64
	token      uint64
}

// session is the aggregate root.  It is only touched with Orchestrator.mu held.
type session struct {
	id                string
	state             State
	matter            string
	jurisdiction      catalog.Jurisdiction
	productIndex      int
	founded           map[catalog.SearchTypeID][]normalize.Item
	verified          map[catalog.SearchTypeID][]normalize.Item
	pagination        map[catalog.SearchTypeID]normalize.Pagination
	queries           map[catalog.SearchTypeID]client.Query
	chosen            []string
	manual            []ManualLine
	searchErrors      map[catalog.SearchTypeID]string
	orderStarted      bool
	orderJurisdiction catalog.Jurisdiction
	lastPlacement     *Placement
	updatedAt         time.Time

	generation uint64
	nextToken  uint64
	inflight   map[string]*call
}

func newSession(id string, now time.Time) session {
	s := session{id: id, state: StateIdle, updatedAt: now, inflight: make(map[string]*call)}
	s.clearWork()
	return s
}

// clearWork drops everything searched, chosen or placed in the current
// jurisdiction.
func (s *session) clearWork() {
	s.productIndex = -1
	s.founded = make(map[catalog.SearchTypeID][]normalize.Item)
	s.verified = make(map[catalog.SearchTypeID][]normalize.Item)
	s.pagination = make(map[catalog.SearchTypeID]normalize.Pagination)
	s.queries = make(map[catalog.SearchTypeID]client.Query)
	s.searchErrors = make(map[catalog.SearchTypeID]string)
	s.chosen = nil
	s.manual = nil
	s.orderStarted = false
	s.orderJurisdiction = ""
}

// cancelAll cancels every outstanding call and invalidates their tickets.
func (s *session) cancelAll() {
	for slot, c := range s.inflight {
		c.cancel()
		delete(s.inflight, slot)
	}
	s.generation++
}

func (s *session) begin(ctx context.Context, slot string) (context.Context, ticket) {
	if prev, ok := s.inflight[slot]; ok {
		prev.cancel()
	}
	s.nextToken++
	cctx, cancel := context.WithCancel(ctx)
	s.inflight[slot] = &call{token: s.nextToken, cancel: cancel}
	return cctx, ticket{generation: s.generation, token: s.nextToken}
}

func (s *session) current(slot string, t ticket) bool {
	c, ok := s.inflight[slot]
	return ok && s.generation == t.generation && c.token == t.token
}

func (s *session) end(slot string) {
	if c, ok := s.inflight[slot]; ok {
		c.cancel()
		delete(s.inflight, slot)
	}
}

// find looks an item up in the founded lists, then in the verified lists.
func (s *session) find(id string) (normalize.Item, bool) {
	for _, lists := range []map[catalog.SearchTypeID][]normalize.Item{s.founded, s.verified} {
		for _, items := range lists {
			for _, it := range items {
				if it.ID == id {
					return it, true
				}
			}
		}
	}
	return normalize.Item{}, false
}

// replaceFounded installs items as the founded list of id.  Verified items
// of the previous list and any verification still in flight for it are
// dropped, as are chosen items that no longer exist.
func (s *session) replaceFounded(id catalog.SearchTypeID, items []normalize.Item) {
	if items == nil {
		delete(s.founded, id)
	} else {
		s.founded[id] = items
	}
	delete(s.verified, id)
	s.end(verifySlot(id))
	s.pruneChosen()
}

// pruneChosen forgets chosen items and item-backed manual lines whose item
// is gone from every list.
func (s *session) pruneChosen() {
	kept := s.chosen[:0]
	for _, c := range s.chosen {
		if _, ok := s.find(c); ok {
			kept = append(kept, c)
		}
	}
	s.chosen = kept
	manual := s.manual[:0]
	for _, m := range s.manual {
		if m.ItemID != "" {
			if _, ok := s.find(m.ItemID); !ok {
				continue
			}
		}
		manual = append(manual, m)
	}
	s.manual = manual
}

func verifySlot(id catalog.SearchTypeID) string { return "verify:" + string(id) }

func (s *session) isChosen(id string) bool {
	for _, c := range s.chosen {
		if c == id {
			return true
		}
	}
	for _, m := range s.manual {
		if m.ItemID == id {
			return true
		}
	}
	return false
}

func (s *session) snapshot() Snapshot {
	snap := Snapshot{
		SessionID:       s.id,
		State:           s.state,
		MatterReference: s.matter,
		Jurisdiction:    s.jurisdiction,
		ProductIndex:    s.productIndex,
		Founded:         copyLists(s.founded),
		Verified:        copyLists(s.verified),
		Pagination:      make(map[catalog.SearchTypeID]normalize.Pagination, len(s.pagination)),
		Chosen:          append([]string(nil), s.chosen...),
		Manual:          make([]ManualLine, 0, len(s.manual)),
		SearchErrors:    make(map[catalog.SearchTypeID]string, len(s.searchErrors)),
		OrderStarted:    s.orderStarted,
		LastPlacement:   s.lastPlacement,
		UpdatedAt:       s.updatedAt,
	}
	for k, v := range s.pagination {
		snap.Pagination[k] = v
	}
	for k, v := range s.searchErrors {
		snap.SearchErrors[k] = v
	}
	for _, m := range s.manual {
		m.Fields = copyStrings(m.Fields)
		snap.Manual = append(snap.Manual, m)
	}
	return snap
}

func copyLists(in map[catalog.SearchTypeID][]normalize.Item) map[catalog.SearchTypeID][]normalize.Item {
	out := make(map[catalog.SearchTypeID][]normalize.Item, len(in))
	for k, items := range in {
		out[k] = append([]normalize.Item(nil), items...)
	}
	return out
}

func copyStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
