// Package catalog is the static registry of jurisdictions and their search
// products.  It is built once at startup and never mutated; every accessor
// returns copies.
package catalog

import (
	"sync"

	"github.com/turtacn/titleorder/pkg/errors"
)

// Catalog provides read-only access to the product registry.
type Catalog interface {
	// ProductsFor returns the ordered product list of j.  ALL and unknown
	// jurisdictions yield an empty list.
	ProductsFor(j Jurisdiction) []SearchProduct
	Product(code ProductCode) (SearchProduct, error)
	ProductBySearchType(id SearchTypeID) (SearchProduct, error)
	// ResolveChainProduct returns the canonical title-reference product that
	// verification chains of j resolve to.
	ResolveChainProduct(j Jurisdiction) (SearchProduct, error)
	All() []SearchProduct
}

// InMemoryCatalog is the built-in Catalog implementation.
type InMemoryCatalog struct {
	order        []Jurisdiction
	byJur        map[Jurisdiction][]SearchProduct
	byCode       map[ProductCode]SearchProduct
	bySearchType map[SearchTypeID]SearchProduct
	chain        map[Jurisdiction]ProductCode
}

var (
	defaultOnce    sync.Once
	defaultCatalog *InMemoryCatalog
)

// Default returns the process-wide built-in catalog.
func Default() *InMemoryCatalog {
	defaultOnce.Do(func() {
		defaultCatalog = build(productTable, chainTargets)
	})
	return defaultCatalog
}

func build(table map[Jurisdiction][]SearchProduct, chain map[Jurisdiction]ProductCode) *InMemoryCatalog {
	c := &InMemoryCatalog{
		byJur:        make(map[Jurisdiction][]SearchProduct, len(table)),
		byCode:       make(map[ProductCode]SearchProduct),
		bySearchType: make(map[SearchTypeID]SearchProduct),
		chain:        make(map[Jurisdiction]ProductCode, len(chain)),
	}
	for _, j := range jurisdictionOrder {
		products, ok := table[j]
		if !ok {
			continue
		}
		c.order = append(c.order, j)
		list := make([]SearchProduct, 0, len(products))
		for _, p := range products {
			p = p.clone()
			p.Jurisdiction = j
			if p.Fulfilment == "" {
				p.Fulfilment = FulfilmentAuto
			}
			if p.Notification == "" {
				p.Notification = NotificationInline
			}
			list = append(list, p)
			c.byCode[p.Code] = p
			c.bySearchType[p.SearchTypeID] = p
		}
		c.byJur[j] = list
	}
	for j, code := range chain {
		c.chain[j] = code
	}
	return c
}

// ProductsFor implements Catalog.
func (c *InMemoryCatalog) ProductsFor(j Jurisdiction) []SearchProduct {
	src := c.byJur[j]
	out := make([]SearchProduct, len(src))
	for i, p := range src {
		out[i] = p.clone()
	}
	return out
}

// Product implements Catalog.
func (c *InMemoryCatalog) Product(code ProductCode) (SearchProduct, error) {
	p, ok := c.byCode[code]
	if !ok {
		return SearchProduct{}, errors.New(errors.CodeUnknownProduct, "unknown product").WithDetail(string(code))
	}
	return p.clone(), nil
}

// ProductBySearchType implements Catalog.
func (c *InMemoryCatalog) ProductBySearchType(id SearchTypeID) (SearchProduct, error) {
	p, ok := c.bySearchType[id]
	if !ok {
		return SearchProduct{}, errors.New(errors.CodeUnknownProduct, "unknown search type").WithDetail(string(id))
	}
	return p.clone(), nil
}

// ResolveChainProduct implements Catalog.
func (c *InMemoryCatalog) ResolveChainProduct(j Jurisdiction) (SearchProduct, error) {
	code, ok := c.chain[j]
	if !ok {
		return SearchProduct{}, errors.NotFound("jurisdiction has no title-reference product").WithDetail(string(j))
	}
	return c.Product(code)
}

// All returns every product in jurisdiction order.
func (c *InMemoryCatalog) All() []SearchProduct {
	var out []SearchProduct
	for _, j := range c.order {
		out = append(out, c.ProductsFor(j)...)
	}
	return out
}

var _ Catalog = (*InMemoryCatalog)(nil)
