package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/turtacn/titleorder/pkg/client"
)

// FakeTransport is a scripted provider gateway.  Each call is recorded and
// then delegated to the matching func; an unscripted call fails.
type FakeTransport struct {
	mu sync.Mutex

	SearchFunc     func(ctx context.Context, q client.Query) ([]byte, error)
	PaginateFunc   func(ctx context.Context, q client.Query, pageIndex int) ([]byte, error)
	InitializeFunc func(ctx context.Context, line client.OrderLine) ([]byte, error)
	PlaceFunc      func(ctx context.Context, lines []client.OrderLine) ([]client.LineResult, error)

	searches    []client.Query
	pages       []int
	initialized []client.OrderLine
	placed      [][]client.OrderLine
}

func (f *FakeTransport) Search(ctx context.Context, q client.Query) ([]byte, error) {
	f.mu.Lock()
	f.searches = append(f.searches, q)
	fn := f.SearchFunc
	f.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("fake transport: search not scripted")
	}
	return fn(ctx, q)
}

func (f *FakeTransport) Paginate(ctx context.Context, q client.Query, pageIndex int) ([]byte, error) {
	f.mu.Lock()
	f.pages = append(f.pages, pageIndex)
	fn := f.PaginateFunc
	f.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("fake transport: paginate not scripted")
	}
	return fn(ctx, q, pageIndex)
}

func (f *FakeTransport) InitializeOrder(ctx context.Context, line client.OrderLine) ([]byte, error) {
	f.mu.Lock()
	f.initialized = append(f.initialized, line)
	fn := f.InitializeFunc
	f.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("fake transport: initialize not scripted")
	}
	return fn(ctx, line)
}

func (f *FakeTransport) PlaceOrder(ctx context.Context, lines []client.OrderLine) ([]client.LineResult, error) {
	f.mu.Lock()
	f.placed = append(f.placed, append([]client.OrderLine(nil), lines...))
	fn := f.PlaceFunc
	f.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("fake transport: place not scripted")
	}
	return fn(ctx, lines)
}

// Searches returns the recorded search queries.
func (f *FakeTransport) Searches() []client.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]client.Query(nil), f.searches...)
}

// Pages returns the recorded page indexes.
func (f *FakeTransport) Pages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pages...)
}

// Initialized returns the recorded provisional order lines.
func (f *FakeTransport) Initialized() []client.OrderLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]client.OrderLine(nil), f.initialized...)
}

// Placed returns the recorded placement calls.
func (f *FakeTransport) Placed() [][]client.OrderLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]client.OrderLine(nil), f.placed...)
}

// AcceptAll answers every line as accepted with order id "ORD-<n>".
func AcceptAll(_ context.Context, lines []client.OrderLine) ([]client.LineResult, error) {
	out := make([]client.LineResult, 0, len(lines))
	for i, l := range lines {
		out = append(out, client.LineResult{LineID: l.LineID, Status: client.LineAccepted, OrderID: fmt.Sprintf("ORD-%d", i+1)})
	}
	return out, nil
}

// Payload builds a provider payload with entries under the dotted path and
// an optional pagination block.
func Payload(path string, entries []map[string]interface{}, pagination map[string]int) []byte {
	parts := strings.Split(path, ".")
	var node interface{} = entries
	for i := len(parts) - 1; i >= 0; i-- {
		node = map[string]interface{}{parts[i]: node}
	}
	root := node.(map[string]interface{})
	if pagination != nil {
		root["pagination"] = pagination
	}
	b, err := json.Marshal(root)
	if err != nil {
		panic(err)
	}
	return b
}
