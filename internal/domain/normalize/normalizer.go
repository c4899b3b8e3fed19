// Package normalize turns heterogeneous provider payloads into canonical
// result items.  One Mapper exists per (jurisdiction, search type) pair; the
// registry is checked against the catalog when a Normalizer is built.
package normalize

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/pkg/errors"
)

// Entry is what a Mapper extracts from one raw result entry.
type Entry struct {
	// Key is the natural key of the entry, usually the resolved reference.
	Key            string
	Description    string
	TitleReference string
	Inputs         map[string]string
	Render         map[string]string
}

// Mapper reads one provider result array.
type Mapper struct {
	// Path is the gjson path of the result array, e.g. "data.titles".
	Path string
	// Chained mappers produce items that need a title-reference lookup
	// before they can be ordered.
	Chained bool
	Build   func(entry gjson.Result) Entry
}

// Key addresses a Mapper.
type Key struct {
	Jurisdiction catalog.Jurisdiction
	SearchType   catalog.SearchTypeID
}

func (k Key) String() string { return string(k.Jurisdiction) + "/" + string(k.SearchType) }

// idNamespace scopes the name-based UUIDs of result items.
var idNamespace = uuid.MustParse("4c2f3a8e-6b1d-5e7f-9a0b-1c2d3e4f5a6b")

// Normalizer maps provider payloads using a registry of Mappers.
type Normalizer struct {
	catalog  catalog.Catalog
	registry map[Key]Mapper
}

// New builds a Normalizer over the built-in mappers and verifies that they
// cover c exactly.
func New(c catalog.Catalog) (*Normalizer, error) {
	n := &Normalizer{catalog: c, registry: builtinRegistry()}
	if err := n.CheckCompleteness(); err != nil {
		return nil, err
	}
	return n, nil
}

var (
	defaultOnce       sync.Once
	defaultNormalizer *Normalizer
)

// Default returns the Normalizer over the built-in catalog.  It panics if the
// registry and the catalog disagree.
func Default() *Normalizer {
	defaultOnce.Do(func() {
		n, err := New(catalog.Default())
		if err != nil {
			panic(err)
		}
		defaultNormalizer = n
	})
	return defaultNormalizer
}

// Mapper returns the registered Mapper for (j, id).
func (n *Normalizer) Mapper(j catalog.Jurisdiction, id catalog.SearchTypeID) (Mapper, bool) {
	m, ok := n.registry[Key{Jurisdiction: j, SearchType: id}]
	return m, ok
}

// CheckCompleteness reports every catalog product without a Mapper, every
// Mapper without a product, and every disagreement on chaining.
func (n *Normalizer) CheckCompleteness() error {
	var problems []string
	seen := make(map[Key]bool, len(n.registry))
	for _, p := range n.catalog.All() {
		k := Key{Jurisdiction: p.Jurisdiction, SearchType: p.SearchTypeID}
		seen[k] = true
		m, ok := n.registry[k]
		switch {
		case !ok:
			problems = append(problems, "missing mapper for "+k.String())
		case m.Build == nil || m.Path == "":
			problems = append(problems, "incomplete mapper for "+k.String())
		case m.Chained != p.Chained:
			problems = append(problems, "chaining mismatch for "+k.String())
		}
	}
	for k := range n.registry {
		if !seen[k] {
			problems = append(problems, "mapper without product "+k.String())
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return errors.Internal("normalizer registry does not match catalog").WithDetail(strings.Join(problems, "; "))
}

// Normalize maps payload into items.  It fails with CodeMalformedResponse when
// the payload is not JSON, carries an error flag or a 404 status, and with
// CodeNotFoundResult when the result array is absent or empty.
func (n *Normalizer) Normalize(
	j catalog.Jurisdiction,
	id catalog.SearchTypeID,
	payload []byte,
	pricing Pricing,
	description string,
	opts Options,
) ([]Item, error) {
	m, ok := n.Mapper(j, id)
	if !ok {
		return nil, errors.New(errors.CodeUnknownProduct, "no mapper registered").WithDetail(Key{j, id}.String())
	}
	product, err := n.catalog.ProductBySearchType(id)
	if err != nil {
		return nil, err
	}

	root, err := envelope(payload)
	if err != nil {
		return nil, err
	}
	results := root.Get(m.Path)
	if !results.IsArray() || len(results.Array()) == 0 {
		return nil, errors.New(errors.CodeNotFoundResult, "provider returned no results").WithDetail(m.Path)
	}

	var chain catalog.SearchProduct
	if m.Chained {
		if chain, err = n.catalog.ResolveChainProduct(j); err != nil {
			return nil, err
		}
	}

	entries := results.Array()
	items := make([]Item, 0, len(entries))
	for pos, raw := range entries {
		e := m.Build(raw)
		item := Item{
			ID:           itemID(j, id, e.Key, opts.PageIndex, pos),
			Description:  e.Description,
			SearchTypeID: id,
			UnitPrice:    pricing.UnitPrice,
			Fulfilment:   product.Fulfilment,
			ProductCode:  product.Code,
			Selectable:   !product.Unavailable,
			Unavailable:  product.Unavailable,
			PageIndex:    opts.PageIndex,
			Inputs:       copyMap(e.Inputs),
			Render:       copyMap(e.Render),
		}
		if item.Description == "" {
			item.Description = description
		}
		if e.TitleReference != "" {
			item.Inputs[InputTitleReference] = e.TitleReference
		}
		if opts.ResolvedProductCode != "" {
			item.ProductCode = opts.ResolvedProductCode
		}
		if m.Chained {
			item.VerificationSearchTypeID = chain.SearchTypeID
			item.ProductCode = chain.Code
			item.Selectable = false
		}
		if pos == 0 && len(opts.SearchCriteria) > 0 {
			item.OriginalSearchCriteria = copyMap(opts.SearchCriteria)
		}
		items = append(items, item)
	}
	return items, nil
}

// envelope parses payload and applies the provider-wide error signals.
func envelope(payload []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(payload) {
		return gjson.Result{}, errors.New(errors.CodeMalformedResponse, "provider payload is not valid JSON")
	}
	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return gjson.Result{}, errors.New(errors.CodeMalformedResponse, "provider payload is not an object")
	}
	if root.Get("error").Bool() {
		return gjson.Result{}, errors.New(errors.CodeMalformedResponse, "provider flagged an error").
			WithDetail(root.Get("message").String())
	}
	for _, path := range []string{"statusCode", "status"} {
		if s := root.Get(path); s.Exists() && s.Int() == 404 {
			return gjson.Result{}, errors.New(errors.CodeMalformedResponse, "provider reported not found status").
				WithDetail(root.Get("message").String())
		}
	}
	return root, nil
}

func itemID(j catalog.Jurisdiction, id catalog.SearchTypeID, key string, page, pos int) string {
	name := fmt.Sprintf("%s|%s|%s|%d|%d", j, id, key, page, pos)
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Normalize runs the default Normalizer.
func Normalize(
	j catalog.Jurisdiction,
	id catalog.SearchTypeID,
	payload []byte,
	pricing Pricing,
	description string,
	opts Options,
) ([]Item, error) {
	return Default().Normalize(j, id, payload, pricing, description, opts)
}
