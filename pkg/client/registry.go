package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/turtacn/titleorder/pkg/errors"
)

// Query is one search against a jurisdiction provider.
type Query struct {
	Jurisdiction    string            `json:"jurisdiction"`
	ProductCode     string            `json:"productCode"`
	SearchType      string            `json:"searchType"`
	Criteria        map[string]string `json:"criteria"`
	MatterReference string            `json:"matterReference"`
	PageIndex       int               `json:"pageIndex"`
}

// OrderLine is one line of an order.  Auto-fulfilled lines carry the title
// references to purchase; manual lines carry a free-text description and the
// fields the user entered.
type OrderLine struct {
	LineID          string            `json:"lineId"`
	Jurisdiction    string            `json:"jurisdiction"`
	ProductCode     string            `json:"productCode"`
	SearchType      string            `json:"searchType,omitempty"`
	MatterReference string            `json:"matterReference"`
	Fulfilment      string            `json:"fulfilment"`
	Description     string            `json:"description,omitempty"`
	TitleReferences []string          `json:"titleReferences,omitempty"`
	Fields          map[string]string `json:"fields,omitempty"`
	UnitPrice       float64           `json:"unitPrice"`
	Quantity        int               `json:"quantity"`
}

// LineStatus is the provider's verdict on one order line.
type LineStatus string

const (
	LineAccepted LineStatus = "accepted"
	LineRejected LineStatus = "rejected"
	LineError    LineStatus = "error"
)

// LineResult is the outcome of one submitted OrderLine.
type LineResult struct {
	LineID  string     `json:"lineId"`
	Status  LineStatus `json:"status"`
	OrderID string     `json:"orderId,omitempty"`
	Message string     `json:"message,omitempty"`
}

func jurisdictionPath(j, suffix string) string {
	return "/v1/registries/" + url.PathEscape(j) + suffix
}

// Search runs q and returns the provider payload unparsed.
func (c *Client) Search(ctx context.Context, q Query) ([]byte, error) {
	q.PageIndex = 0
	return c.do(ctx, "search", http.MethodPost, jurisdictionPath(q.Jurisdiction, "/searches"), q)
}

// Paginate fetches pageIndex of the result set of q.
func (c *Client) Paginate(ctx context.Context, q Query, pageIndex int) ([]byte, error) {
	q.PageIndex = pageIndex
	return c.do(ctx, "paginate", http.MethodPost, jurisdictionPath(q.Jurisdiction, "/searches"), q)
}

// InitializeOrder places a provisional order for a single line and returns
// the authoritative result payload.
func (c *Client) InitializeOrder(ctx context.Context, line OrderLine) ([]byte, error) {
	return c.do(ctx, "initialize order", http.MethodPost, jurisdictionPath(line.Jurisdiction, "/orders/initialize"), line)
}

// PlaceOrder submits every line in one request.  The gateway answers with one
// result per line; a line missing from the answer is the caller's concern.
func (c *Client) PlaceOrder(ctx context.Context, lines []OrderLine) ([]LineResult, error) {
	body, err := c.do(ctx, "place order", http.MethodPost, "/v1/orders", map[string]interface{}{"lines": lines})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Results []LineResult `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode placement results")
	}
	return resp.Results, nil
}
