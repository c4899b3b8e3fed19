package order

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/internal/domain/normalize"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/client"
	"github.com/turtacn/titleorder/pkg/errors"
)

// orderable returns the item with itemID if it can be ordered.  Callers hold
// o.mu.
func (o *Orchestrator) orderable(itemID string) (normalize.Item, catalog.SearchProduct, error) {
	item, ok := o.s.find(itemID)
	if !ok {
		return normalize.Item{}, catalog.SearchProduct{}, errors.NotFound("item not found").WithDetail(itemID)
	}
	if item.NeedsVerification() {
		return item, catalog.SearchProduct{}, errors.New(errors.CodeInvalidTransition, "item requires verification").WithDetail(itemID)
	}
	if !item.Selectable || item.Unavailable {
		return item, catalog.SearchProduct{}, errors.New(errors.CodeInvalidTransition, "item cannot be ordered").WithDetail(itemID)
	}
	product, err := o.catalog.ProductBySearchType(item.SearchTypeID)
	if err != nil {
		return item, catalog.SearchProduct{}, err
	}
	return item, product, nil
}

func titleReferences(item normalize.Item) []string {
	if ref := item.TitleReference(); ref != "" {
		return []string{ref}
	}
	return []string{strings.TrimSpace(item.Description)}
}

// InitializeOrder places a provisional order for one item.  The provider
// answers with the authoritative result payload, which replaces the founded
// items of the item's search type.  A provider notification is recorded as
// an inline search error, or returned as a CodeNotificationBlocking error for
// products whose notification policy is blocking; the items are stored in
// both cases.
func (o *Orchestrator) InitializeOrder(ctx context.Context, itemID string) ([]normalize.Item, error) {
	o.mu.Lock()
	item, product, err := o.orderable(itemID)
	matter := o.s.matter
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := matterGate(matter); err != nil {
		return nil, err
	}

	id := item.SearchTypeID
	line := client.OrderLine{
		LineID:          uuid.New().String(),
		Jurisdiction:    string(product.Jurisdiction),
		ProductCode:     string(item.ProductCode),
		SearchType:      string(id),
		MatterReference: matter,
		Fulfilment:      string(item.Fulfilment),
		Description:     item.Description,
		TitleReferences: titleReferences(item),
		Fields:          copyStrings(item.Inputs),
		UnitPrice:       item.UnitPrice,
		Quantity:        1,
	}
	var blocking error
	items, err := o.run(ctx, fetch{
		op:           opInitialize,
		slot:         string(id),
		event:        EventSearchStarted,
		jurisdiction: product.Jurisdiction,
		searchType:   id,
		errorKey:     id,
		price:        item.UnitPrice,
		description:  item.Description,
		resolved:     item.ProductCode,
		call:         func(ctx context.Context) ([]byte, error) { return o.transport.InitializeOrder(ctx, line) },
		apply: func(items []normalize.Item, payload []byte) error {
			o.s.founded[id] = items
			o.s.pruneChosen()
			o.s.pagination[id] = normalize.ExtractPagination(payload, 0, len(items))
			o.s.orderStarted = true
			o.s.orderJurisdiction = product.Jurisdiction
			msg, ok := normalize.ExtractNotification(payload)
			switch {
			case !ok:
			case product.Notification == catalog.NotificationBlocking:
				blocking = errors.New(errors.CodeNotificationBlocking, msg).WithDetail(string(product.Code))
			default:
				o.s.searchErrors[id] = msg
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if blocking != nil {
		o.logger.Info("blocking provider notification", logging.SearchType(string(id)), logging.Err(blocking))
		return nil, blocking
	}
	return items, nil
}

// Choose marks an orderable item for placement.  Manually fulfilled items
// become manual lines carrying the item's description and inputs.  Choosing
// an item twice is a no-op.
func (o *Orchestrator) Choose(itemID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	item, product, err := o.orderable(itemID)
	if err != nil {
		return err
	}
	if o.s.isChosen(itemID) {
		return nil
	}
	if err := o.transition(EventItemChosen); err != nil {
		return err
	}
	if item.Fulfilment == catalog.FulfilmentManual {
		o.s.manual = append(o.s.manual, ManualLine{
			LineID:      uuid.New().String(),
			ItemID:      item.ID,
			ProductCode: item.ProductCode,
			Description: strings.TrimSpace(item.Description),
			Fields:      copyStrings(item.Inputs),
		})
	} else {
		o.s.chosen = append(o.s.chosen, item.ID)
	}
	o.s.orderStarted = true
	o.s.orderJurisdiction = product.Jurisdiction
	return nil
}

// Unchoose removes a chosen item, or a manual line by item or line id.
func (o *Orchestrator) Unchoose(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, c := range o.s.chosen {
		if c == id {
			o.s.chosen = append(o.s.chosen[:i:i], o.s.chosen[i+1:]...)
			return nil
		}
	}
	for i, m := range o.s.manual {
		if m.ItemID == id || m.LineID == id {
			o.s.manual = append(o.s.manual[:i:i], o.s.manual[i+1:]...)
			return nil
		}
	}
	return errors.NotFound("item is not chosen").WithDetail(id)
}

// ChooseManual adds a manual line for a manually fulfilled product of the
// active jurisdiction and returns its line id.  The fields are validated
// against the product's form.
func (o *Orchestrator) ChooseManual(line ManualLine) (string, error) {
	line.Description = strings.TrimSpace(line.Description)
	if line.Description == "" {
		return "", errors.Validation("Description is required").WithDetail("manual line")
	}
	product, err := o.catalog.Product(line.ProductCode)
	if err != nil {
		return "", err
	}
	if product.Fulfilment != catalog.FulfilmentManual {
		return "", errors.InvalidParam("product is not manually fulfilled").WithDetail(string(product.Code))
	}
	if failures := o.validator.ValidateCriteria(product, line.Fields); len(failures) > 0 {
		return "", newCriteriaError(failures)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if product.Jurisdiction != o.s.jurisdiction {
		return "", errors.InvalidParam("product belongs to another jurisdiction").WithDetail(string(product.Jurisdiction))
	}
	if err := o.transition(EventItemChosen); err != nil {
		return "", err
	}
	line.LineID = uuid.New().String()
	line.Fields = copyStrings(line.Fields)
	o.s.manual = append(o.s.manual, line)
	o.s.orderStarted = true
	o.s.orderJurisdiction = product.Jurisdiction
	return line.LineID, nil
}

// buildLines turns the chosen items into order lines: one line per
// jurisdiction for the auto-fulfilled items, ordered as the jurisdiction's
// title-reference product, and one line per manual line.  Callers hold o.mu.
func (o *Orchestrator) buildLines(matter string) ([]client.OrderLine, error) {
	var jurisdictions []catalog.Jurisdiction
	groups := make(map[catalog.Jurisdiction][]normalize.Item)
	for _, id := range o.s.chosen {
		item, ok := o.s.find(id)
		if !ok {
			continue
		}
		product, err := o.catalog.ProductBySearchType(item.SearchTypeID)
		if err != nil {
			return nil, err
		}
		j := product.Jurisdiction
		if _, seen := groups[j]; !seen {
			jurisdictions = append(jurisdictions, j)
		}
		groups[j] = append(groups[j], item)
	}

	lines := make([]client.OrderLine, 0, len(jurisdictions)+len(o.s.manual))
	for _, j := range jurisdictions {
		final, err := o.catalog.ResolveChainProduct(j)
		if err != nil {
			return nil, err
		}
		items := groups[j]
		line := client.OrderLine{
			LineID:          uuid.New().String(),
			Jurisdiction:    string(j),
			ProductCode:     string(final.Code),
			SearchType:      string(final.SearchTypeID),
			MatterReference: matter,
			Fulfilment:      string(catalog.FulfilmentAuto),
			Description:     final.Label,
			UnitPrice:       o.prices.PriceFor(string(final.Code)),
			Quantity:        len(items),
		}
		for _, it := range items {
			line.TitleReferences = append(line.TitleReferences, titleReferences(it)...)
		}
		lines = append(lines, line)
	}

	for _, m := range o.s.manual {
		product, err := o.catalog.Product(m.ProductCode)
		if err != nil {
			return nil, err
		}
		lines = append(lines, client.OrderLine{
			LineID:          m.LineID,
			Jurisdiction:    string(product.Jurisdiction),
			ProductCode:     string(m.ProductCode),
			SearchType:      string(product.SearchTypeID),
			MatterReference: matter,
			Fulfilment:      string(catalog.FulfilmentManual),
			Description:     m.Description,
			Fields:          copyStrings(m.Fields),
			UnitPrice:       o.prices.PriceFor(string(m.ProductCode)),
			Quantity:        1,
		})
	}
	return lines, nil
}

// PlaceOrder submits every chosen line in one transport call.  With nothing
// chosen it fails locally with MsgNothingChosen.  Results are per line: a
// rejected line does not fail its siblings, accepted lines are never rolled
// back and nothing is retried.  When the whole call fails the chosen lines
// are kept for an explicit retry.
func (o *Orchestrator) PlaceOrder(ctx context.Context) (*Placement, error) {
	o.mu.Lock()
	if len(o.s.chosen) == 0 && len(o.s.manual) == 0 {
		o.mu.Unlock()
		return nil, errors.Validation(MsgNothingChosen)
	}
	matter := o.s.matter
	if err := matterGate(matter); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	lines, err := o.buildLines(matter)
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}
	if len(lines) == 0 {
		o.mu.Unlock()
		return nil, errors.Validation(MsgNothingChosen)
	}
	if err := o.transition(EventPlacementStarted); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	o.s.cancelAll()
	generation := o.s.generation
	jurisdiction := o.s.jurisdiction
	o.mu.Unlock()

	start := o.now()
	results, err := o.transport.PlaceOrder(ctx, lines)
	if err != nil {
		err = classifyTransport(opPlace, err)
		o.mu.Lock()
		if o.s.generation == generation {
			_ = o.transition(EventFailed)
		}
		o.mu.Unlock()
		logging.FromContext(ctx, o.logger).Warn("order placement failed", logging.Int("lines", len(lines)), logging.Err(err))
		return nil, err
	}

	placement := &Placement{
		ID:              uuid.New().String(),
		SessionID:       o.s.id,
		MatterReference: matter,
		Jurisdiction:    jurisdiction,
		Lines:           pairResults(lines, results),
		PlacedAt:        o.now(),
	}

	o.mu.Lock()
	if o.s.generation == generation {
		_ = o.transition(EventPlacementCompleted)
		o.s.clearWork()
		o.s.lastPlacement = placement
	}
	o.mu.Unlock()

	o.record(ctx, placement)
	logging.LogOperationDuration(o.logger, "place order", start,
		logging.String("placement_id", placement.ID), logging.Int("lines", len(placement.Lines)))
	return placement, nil
}

// pairResults matches results to lines by line id.  A line without a result,
// or with an unknown status, is reported as an error line.
func pairResults(lines []client.OrderLine, results []client.LineResult) []PlacedLine {
	byID := make(map[string]client.LineResult, len(results))
	for _, r := range results {
		byID[r.LineID] = r
	}
	out := make([]PlacedLine, 0, len(lines))
	for _, l := range lines {
		r, ok := byID[l.LineID]
		switch {
		case !ok:
			r = client.LineResult{LineID: l.LineID, Status: client.LineError, Message: "no result returned for line"}
		case r.Status != client.LineAccepted && r.Status != client.LineRejected && r.Status != client.LineError:
			r.Status = client.LineError
		}
		if r.Status != client.LineAccepted {
			r.OrderID = ""
		}
		out = append(out, PlacedLine{Request: l, Result: r})
	}
	return out
}

// record hands a placement to the ledger, the event stream and the metrics.
// Their failures are logged; the placement has already happened.
func (o *Orchestrator) record(ctx context.Context, p *Placement) {
	ctx = context.WithoutCancel(ctx)
	if err := o.ledger.RecordPlacement(ctx, p); err != nil {
		o.logger.Error("failed to record placement", logging.String("placement_id", p.ID), logging.Err(err))
	}
	for _, l := range p.Lines {
		o.metrics.ObservePlacementLine(l.Request.Jurisdiction, l.Result.Status)
		if l.Result.Status != client.LineAccepted {
			continue
		}
		e := LinePlacedEvent{
			PlacementID:     p.ID,
			SessionID:       p.SessionID,
			LineID:          l.Request.LineID,
			OrderID:         l.Result.OrderID,
			Jurisdiction:    l.Request.Jurisdiction,
			ProductCode:     l.Request.ProductCode,
			Fulfilment:      l.Request.Fulfilment,
			MatterReference: p.MatterReference,
			TitleReferences: l.Request.TitleReferences,
			OccurredAt:      p.PlacedAt,
		}
		if err := o.events.PublishLinePlaced(ctx, e); err != nil {
			o.logger.Error("failed to publish placed line", logging.String("line_id", e.LineID), logging.Err(err))
		}
	}
}
