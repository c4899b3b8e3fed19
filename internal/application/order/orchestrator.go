// Package order drives an order session from matter reference to placed
// order: searching, paging and verifying provider results, choosing items
// and placing the order with per-line outcomes.
package order

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/internal/domain/normalize"
	"github.com/turtacn/titleorder/internal/domain/validation"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/client"
	"github.com/turtacn/titleorder/pkg/errors"
)

// Transport operation names, used for error classification and metrics.
const (
	opSearch     = "search"
	opPaginate   = "paginate"
	opVerify     = "verify"
	opInitialize = "initialize"
	opPlace      = "place"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCatalog replaces the built-in catalog.
func WithCatalog(c catalog.Catalog) Option { return func(o *Orchestrator) { o.catalog = c } }

// WithValidator replaces the default validation engine.
func WithValidator(v *validation.Engine) Option { return func(o *Orchestrator) { o.validator = v } }

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *normalize.Normalizer) Option { return func(o *Orchestrator) { o.normalizer = n } }

// WithPriceBook sets the unit price source.
func WithPriceBook(p PriceBook) Option { return func(o *Orchestrator) { o.prices = p } }

// WithLedger persists placements.
func WithLedger(l Ledger) Option { return func(o *Orchestrator) { o.ledger = l } }

// WithEventPublisher announces accepted lines.
func WithEventPublisher(p EventPublisher) Option { return func(o *Orchestrator) { o.events = p } }

// WithPayloadArchive keeps malformed payloads.
func WithPayloadArchive(a PayloadArchive) Option { return func(o *Orchestrator) { o.archive = a } }

// WithMetrics records measurements.
func WithMetrics(m Metrics) Option { return func(o *Orchestrator) { o.metrics = m } }

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option { return func(o *Orchestrator) { o.logger = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(o *Orchestrator) { o.now = now } }

// Orchestrator owns one order session.  Its methods are safe for concurrent
// use; calls for different search types may overlap, calls for the same
// search type supersede each other.
type Orchestrator struct {
	mu sync.Mutex
	s  session

	transport  Transport
	catalog    catalog.Catalog
	validator  *validation.Engine
	normalizer *normalize.Normalizer
	prices     PriceBook
	ledger     Ledger
	events     EventPublisher
	archive    PayloadArchive
	metrics    Metrics
	logger     logging.Logger
	now        func() time.Time
}

// New creates an Orchestrator with a fresh session.
func New(transport Transport, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		transport:  transport,
		catalog:    catalog.Default(),
		validator:  validation.Default(),
		normalizer: normalize.Default(),
		prices:     PriceBookFunc(func(string) float64 { return 0 }),
		ledger:     nopLedger{},
		events:     nopPublisher{},
		archive:    nopArchive{},
		metrics:    nopMetrics{},
		logger:     logging.NewNopLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	id := uuid.New().String()
	o.s = newSession(id, o.now())
	o.logger = o.logger.Named("order").With(logging.Session(id))
	return o
}

// ID returns the session id.
func (o *Orchestrator) ID() string { return o.s.id }

// Snapshot returns a copy of the session.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.s.snapshot()
}

// transition applies e.  Callers hold o.mu.
func (o *Orchestrator) transition(e Event) error {
	next, err := Transition(o.s.state, e)
	if err != nil {
		return err
	}
	if next != o.s.state {
		o.logger.Debug("session transition",
			logging.String("from", o.s.state.String()),
			logging.String("to", next.String()),
			logging.String("event", e.String()))
		o.metrics.ObserveTransition(o.s.state, next)
	}
	o.s.state = next
	o.s.updatedAt = o.now()
	return nil
}

// ─── session setup ──────────────────────────────────────────────────────────

// SetMatter validates and records the matter reference.
func (o *Orchestrator) SetMatter(ref string) error {
	if msg := validation.ValidateMatter(ref); msg != "" {
		return errors.Validation(msg).WithDetail("matter reference")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.transition(EventMatterValidated); err != nil {
		return err
	}
	o.s.matter = strings.TrimSpace(ref)
	return nil
}

// ChangeRegion switches the active jurisdiction.  Work done in the previous
// jurisdiction is discarded and in-flight results are dropped on arrival; the
// matter reference is kept.  When an order is in progress for another
// jurisdiction the switch needs confirmed=true.
func (o *Orchestrator) ChangeRegion(j catalog.Jurisdiction, confirmed bool) error {
	if _, ok := catalog.Info(j); !ok {
		return errors.InvalidParam("unknown jurisdiction").WithDetail(string(j))
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.s.state.Terminal() || o.s.state == StatePlacing {
		return errors.New(errors.CodeInvalidTransition, errors.DefaultMessageForCode(errors.CodeInvalidTransition)).
			WithDetail("region change in state " + o.s.state.String())
	}
	if j == o.s.jurisdiction {
		return nil
	}
	if o.s.orderStarted && o.s.orderJurisdiction != j && !confirmed {
		return errors.New(errors.CodeRegionChangeNeedsConfirm, errors.DefaultMessageForCode(errors.CodeRegionChangeNeedsConfirm)).
			WithDetail(string(o.s.orderJurisdiction))
	}

	o.s.cancelAll()
	o.s.clearWork()
	if err := o.transition(EventReset); err != nil {
		return err
	}
	o.s.jurisdiction = j
	if o.s.matter != "" {
		if err := o.transition(EventMatterValidated); err != nil {
			return err
		}
	}
	o.logger.Info("jurisdiction changed", logging.Jurisdiction(string(j)))
	return nil
}

// SelectProduct selects the search product at idx of the active jurisdiction.
func (o *Orchestrator) SelectProduct(idx int) (catalog.SearchProduct, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.s.jurisdiction == "" {
		return catalog.SearchProduct{}, errors.InvalidParam("no jurisdiction selected")
	}
	products := o.catalog.ProductsFor(o.s.jurisdiction)
	if idx < 0 || idx >= len(products) {
		return catalog.SearchProduct{}, errors.InvalidParam("product index out of range").
			WithDetail(fmt.Sprintf("%d of %d", idx, len(products)))
	}
	o.s.productIndex = idx
	return products[idx], nil
}

// Abandon discards the session's work, matter reference and jurisdiction.
// In-flight results are dropped on arrival.
func (o *Orchestrator) Abandon() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.s.state.Terminal() {
		return
	}
	o.s.cancelAll()
	o.s.clearWork()
	o.s.matter = ""
	o.s.jurisdiction = ""
	_ = o.transition(EventReset)
	o.logger.Info("session abandoned")
}

// ─── provider calls ─────────────────────────────────────────────────────────

// fetch describes one provider call whose payload is normalized into the
// session.
type fetch struct {
	op           string
	slot         string
	event        Event
	jurisdiction catalog.Jurisdiction
	searchType   catalog.SearchTypeID
	// errorKey is the search type inline errors are recorded under.
	errorKey    catalog.SearchTypeID
	price       float64
	description string
	pageIndex   int
	criteria    map[string]string
	resolved    catalog.ProductCode
	call        func(ctx context.Context) ([]byte, error)
	// apply stores the normalized items.  It runs with o.mu held and only
	// when the call is still current.
	apply func(items []normalize.Item, payload []byte) error
	// onFailure runs with o.mu held when a current call fails.
	onFailure func(err error)
}

// run executes f: transition, transport call, normalization, then a
// currency check before the session is touched.
func (o *Orchestrator) run(ctx context.Context, f fetch) ([]normalize.Item, error) {
	o.mu.Lock()
	if err := o.transition(f.event); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	cctx, t := o.s.begin(ctx, f.slot)
	o.mu.Unlock()

	start := o.now()
	payload, err := f.call(cctx)
	var items []normalize.Item
	if err != nil {
		err = classifyTransport(f.op, err)
	} else {
		items, err = o.normalizer.Normalize(f.jurisdiction, f.searchType, payload,
			normalize.Pricing{UnitPrice: f.price}, f.description,
			normalize.Options{PageIndex: f.pageIndex, SearchCriteria: f.criteria, ResolvedProductCode: f.resolved})
		if errors.IsMalformed(err) {
			o.archivePayload(ctx, f, payload)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.s.current(f.slot, t) {
		o.metrics.IncSuperseded(string(f.searchType))
		o.logger.Debug("discarding superseded result", logging.String("op", f.op), logging.SearchType(string(f.searchType)))
		return nil, ErrSuperseded
	}
	o.s.end(f.slot)

	if err == nil {
		delete(o.s.searchErrors, f.errorKey)
		err = f.apply(items, payload)
	}
	if err != nil {
		o.fail(ctx, f, err, start)
		return nil, err
	}
	_ = o.transition(EventResultsReceived)
	o.metrics.ObserveSearch(string(f.jurisdiction), string(f.searchType), "ok", o.now().Sub(start))
	o.metrics.ObserveItems(string(f.jurisdiction), string(f.searchType), len(items))
	return items, nil
}

// fail records err against the session.  Callers hold o.mu.
func (o *Orchestrator) fail(ctx context.Context, f fetch, err error, start time.Time) {
	log := logging.FromContext(ctx, o.logger)
	fields := []logging.Field{
		logging.String("op", f.op),
		logging.Jurisdiction(string(f.jurisdiction)),
		logging.SearchType(string(f.searchType)),
		logging.Err(err),
	}
	switch {
	case errors.IsMalformed(err):
		log.Error("malformed provider response", fields...)
	case errors.IsProviderUnavailable(err):
		log.Warn("provider unavailable", fields...)
	default:
		log.Info("provider call failed", fields...)
	}

	if inline(err) {
		o.s.searchErrors[f.errorKey] = errors.UserMessage(err)
	}
	if f.onFailure != nil {
		f.onFailure(err)
	}
	event := EventFailed
	if !errors.IsRecoverable(err) {
		event = EventFatal
	}
	_ = o.transition(event)
	o.metrics.ObserveSearch(string(f.jurisdiction), string(f.searchType), outcome(err), o.now().Sub(start))
}

// outcome labels err for metrics.
func outcome(err error) string {
	switch errors.GetCode(err) {
	case errors.CodeNotFoundResult:
		return "not_found"
	case errors.CodeMalformedResponse:
		return "malformed"
	case errors.CodeProviderUnavailable:
		return "unavailable"
	case errors.CodeVerificationInconclusive:
		return "inconclusive"
	case errors.CodePlacementFailed:
		return "placement_failed"
	case errors.CodeNotificationBlocking:
		return "notification"
	}
	return "error"
}

// inline reports whether err is shown next to the search form rather than as
// a blocking notification.
func inline(err error) bool {
	switch errors.GetCode(err) {
	case errors.CodeNotFoundResult, errors.CodeMalformedResponse, errors.CodeValidation,
		errors.CodeVerificationInconclusive:
		return true
	}
	return false
}

func (o *Orchestrator) archivePayload(ctx context.Context, f fetch, payload []byte) {
	key := fmt.Sprintf("%s/%s/%s/%s.json", f.jurisdiction, f.searchType, o.s.id, uuid.New().String())
	if err := o.archive.ArchivePayload(context.WithoutCancel(ctx), key, payload); err != nil {
		o.logger.Warn("failed to archive malformed payload", logging.String("key", key), logging.Err(err))
	}
}

// classifyTransport maps a transport failure onto the error taxonomy.
func classifyTransport(op string, err error) error {
	var te *client.TransportError
	isTransport := stderrors.As(err, &te)
	switch {
	case isTransport && te.Unavailable, stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(err, errors.CodeProviderUnavailable,
			errors.DefaultMessageForCode(errors.CodeProviderUnavailable)).WithDetail(op)
	case isTransport && te.IsNotFound() && op != opPlace:
		return errors.Wrap(err, errors.CodeNotFoundResult,
			errors.DefaultMessageForCode(errors.CodeNotFoundResult)).WithDetail(op)
	case op == opPlace || op == opInitialize:
		return errors.Wrap(err, errors.CodePlacementFailed,
			errors.DefaultMessageForCode(errors.CodePlacementFailed)).WithDetail(op)
	default:
		return errors.Wrap(err, errors.CodeMalformedResponse, "unexpected provider failure").WithDetail(op)
	}
}

// selected returns the selected product.  Callers hold o.mu.
func (o *Orchestrator) selected() (catalog.SearchProduct, error) {
	if o.s.jurisdiction == "" {
		return catalog.SearchProduct{}, errors.InvalidParam("no jurisdiction selected")
	}
	products := o.catalog.ProductsFor(o.s.jurisdiction)
	if o.s.productIndex < 0 || o.s.productIndex >= len(products) {
		return catalog.SearchProduct{}, errors.InvalidParam("no search product selected")
	}
	return products[o.s.productIndex], nil
}

// matterGate re-checks the matter reference before any provider call.
func matterGate(matter string) error {
	if msg := validation.ValidateMatter(matter); msg != "" {
		return errors.Validation(msg).WithDetail("matter reference")
	}
	return nil
}

// Search runs the selected product with criteria and replaces the founded
// items of its search type.
func (o *Orchestrator) Search(ctx context.Context, criteria map[string]string) ([]normalize.Item, error) {
	o.mu.Lock()
	product, err := o.selected()
	matter := o.s.matter
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := matterGate(matter); err != nil {
		return nil, err
	}
	if failures := o.validator.ValidateCriteria(product, criteria); len(failures) > 0 {
		return nil, newCriteriaError(failures)
	}

	q := client.Query{
		Jurisdiction:    string(product.Jurisdiction),
		ProductCode:     string(product.Code),
		SearchType:      string(product.SearchTypeID),
		Criteria:        copyStrings(criteria),
		MatterReference: matter,
	}
	id := product.SearchTypeID
	return o.run(ctx, fetch{
		op:           opSearch,
		slot:         string(id),
		event:        EventSearchStarted,
		jurisdiction: product.Jurisdiction,
		searchType:   id,
		errorKey:     id,
		price:        o.prices.PriceFor(string(product.Code)),
		description:  product.Label,
		criteria:     q.Criteria,
		call:         func(ctx context.Context) ([]byte, error) { return o.transport.Search(ctx, q) },
		apply: func(items []normalize.Item, payload []byte) error {
			o.s.replaceFounded(id, items)
			o.s.queries[id] = q
			pg := normalize.ExtractPagination(payload, 0, len(items))
			pg.PageIndex = 0
			o.s.pagination[id] = pg
			return nil
		},
		onFailure: func(error) {
			o.s.replaceFounded(id, nil)
			delete(o.s.pagination, id)
			delete(o.s.queries, id)
		},
	})
}

// Paginate fetches pageIndex of the last search of id and appends it to the
// founded items.  Pages are fetched in order; a repeated request for the
// page in flight supersedes the earlier one.
func (o *Orchestrator) Paginate(ctx context.Context, id catalog.SearchTypeID, pageIndex int) ([]normalize.Item, error) {
	o.mu.Lock()
	q, ok := o.s.queries[id]
	pg := o.s.pagination[id]
	matter := o.s.matter
	o.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.CodeInvalidTransition, "no search to paginate").WithDetail(string(id))
	}
	if pageIndex != pg.PageIndex+1 {
		return nil, errors.InvalidParam("pages must be fetched in order").
			WithDetail(fmt.Sprintf("requested %d after %d", pageIndex, pg.PageIndex))
	}
	if pageIndex >= pg.TotalPages {
		return nil, errors.InvalidParam("page index out of range").
			WithDetail(fmt.Sprintf("%d of %d", pageIndex, pg.TotalPages))
	}
	if err := matterGate(matter); err != nil {
		return nil, err
	}
	product, err := o.catalog.ProductBySearchType(id)
	if err != nil {
		return nil, err
	}

	return o.run(ctx, fetch{
		op:           opPaginate,
		slot:         string(id),
		event:        EventPageRequested,
		jurisdiction: product.Jurisdiction,
		searchType:   id,
		errorKey:     id,
		price:        o.prices.PriceFor(string(product.Code)),
		description:  product.Label,
		pageIndex:    pageIndex,
		call: func(ctx context.Context) ([]byte, error) {
			return o.transport.Paginate(ctx, q, pageIndex)
		},
		apply: func(items []normalize.Item, payload []byte) error {
			existing := o.s.founded[id]
			merged := make([]normalize.Item, 0, len(existing)+len(items))
			merged = append(merged, existing...)
			merged = append(merged, items...)
			o.s.founded[id] = merged
			next := normalize.ExtractPagination(payload, pageIndex, len(items))
			next.PageIndex = pageIndex
			o.s.pagination[id] = next
			return nil
		},
	})
}

// Verify resolves a chained item to its title by searching the
// jurisdiction's title-reference product with the item's title reference.
// Exactly one result must come back; it is stored as a selectable verified
// item under the search type of the original item.
func (o *Orchestrator) Verify(ctx context.Context, itemID string) (normalize.Item, error) {
	o.mu.Lock()
	item, ok := o.s.find(itemID)
	matter := o.s.matter
	o.mu.Unlock()
	if !ok {
		return normalize.Item{}, errors.NotFound("item not found").WithDetail(itemID)
	}
	if !item.NeedsVerification() {
		return normalize.Item{}, errors.New(errors.CodeInvalidTransition, "item does not require verification").WithDetail(itemID)
	}
	ref := item.TitleReference()
	if ref == "" {
		return normalize.Item{}, errors.New(errors.CodeVerificationInconclusive, "item carries no title reference").WithDetail(itemID)
	}
	if err := matterGate(matter); err != nil {
		return normalize.Item{}, err
	}
	chain, err := o.catalog.ProductBySearchType(item.VerificationSearchTypeID)
	if err != nil {
		return normalize.Item{}, err
	}
	if len(chain.Fields) == 0 {
		return normalize.Item{}, errors.Internal("title-reference product has no fields").WithDetail(string(chain.Code))
	}

	q := client.Query{
		Jurisdiction:    string(chain.Jurisdiction),
		ProductCode:     string(chain.Code),
		SearchType:      string(chain.SearchTypeID),
		Criteria:        map[string]string{chain.Fields[0].Label: ref},
		MatterReference: matter,
	}
	var verified normalize.Item
	_, err = o.run(ctx, fetch{
		op:           opVerify,
		slot:         verifySlot(item.SearchTypeID),
		event:        EventSearchStarted,
		jurisdiction: chain.Jurisdiction,
		searchType:   chain.SearchTypeID,
		errorKey:     item.SearchTypeID,
		price:        o.prices.PriceFor(string(item.ProductCode)),
		description:  ref,
		resolved:     item.ProductCode,
		call:         func(ctx context.Context) ([]byte, error) { return o.transport.Search(ctx, q) },
		apply: func(items []normalize.Item, _ []byte) error {
			if len(items) != 1 {
				return errors.New(errors.CodeVerificationInconclusive,
					errors.DefaultMessageForCode(errors.CodeVerificationInconclusive)).
					WithDetail(fmt.Sprintf("%d titles for %s", len(items), ref))
			}
			verified = items[0]
			list := o.s.verified[item.SearchTypeID]
			for i, existing := range list {
				if existing.ID == verified.ID {
					list[i] = verified
					return nil
				}
			}
			o.s.verified[item.SearchTypeID] = append(list, verified)
			return nil
		},
	})
	if err != nil {
		return normalize.Item{}, err
	}
	return verified, nil
}
