package normalize

import (
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
)

// statusCurrent is the provider sentinel for an active title.
const statusCurrent = "CURRENT"

// StatusOK is the display-neutral token statusCurrent is mapped to.
const StatusOK = "OK"

// mapStatus maps the current sentinel to StatusOK and passes anything else
// through unchanged, including the empty string.
func mapStatus(s string) string {
	if s == statusCurrent {
		return StatusOK
	}
	return s
}

// assemble concatenates the non-empty parts, each followed by one space.
// The trailing space is kept.
func assemble(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte(' ')
	}
	return b.String()
}

// addressLayout names the address keys of one provider.
type addressLayout struct {
	Unit, Number, Street, StreetType, Suburb, State, Postcode, Country string
}

var (
	standardAddress = addressLayout{
		Unit: "unitNumber", Number: "streetNumber", Street: "streetName", StreetType: "streetType",
		Suburb: "suburb", State: "state", Postcode: "postcode", Country: "country",
	}
	qldAddress = addressLayout{
		Unit: "unit", Number: "streetNo", Street: "street", StreetType: "streetType",
		Suburb: "locality", State: "state", Postcode: "postcode", Country: "country",
	}
	waAddress = addressLayout{
		Unit: "unitNumber", Number: "houseNumber", Street: "roadName", StreetType: "roadType",
		Suburb: "suburb", State: "state", Postcode: "postcode", Country: "country",
	}
)

func (l addressLayout) format(r gjson.Result) string {
	// unit/number when both are present, otherwise whichever exists.
	unit, number := r.Get(l.Unit).String(), r.Get(l.Number).String()
	if unit != "" && number != "" {
		number = unit + "/" + number
		unit = ""
	}
	return assemble(
		unit,
		number,
		r.Get(l.Street).String(),
		r.Get(l.StreetType).String(),
		r.Get(l.Suburb).String(),
		r.Get(l.State).String(),
		r.Get(l.Postcode).String(),
		r.Get(l.Country).String(),
	)
}

// volumeFolio joins separate volume and folio values as "volume/folio".
func volumeFolio(r gjson.Result) string {
	v, f := r.Get("volume").String(), r.Get("folio").String()
	if v == "" && f == "" {
		return ""
	}
	return v + "/" + f
}

// Dedupe removes items structurally equal to an earlier item, keeping order.
// Callers merging several query executions use it; Normalize never does.
func Dedupe(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		dup := false
		for _, kept := range out {
			if reflect.DeepEqual(it, kept) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	return out
}

// ExtractPagination reads the provider's pagination block.  Without one the
// response is treated as a single complete page of itemCount items.
func ExtractPagination(payload []byte, pageIndex, itemCount int) Pagination {
	p := gjson.GetBytes(payload, "pagination")
	if !p.IsObject() {
		return Pagination{PageIndex: pageIndex, PageSize: itemCount, TotalCount: itemCount, TotalPages: 1}
	}
	out := Pagination{
		PageIndex:  pageIndex,
		PageSize:   int(p.Get("pageSize").Int()),
		TotalCount: int(p.Get("totalCount").Int()),
		TotalPages: int(p.Get("totalPages").Int()),
	}
	if idx := p.Get("pageIndex"); idx.Exists() {
		out.PageIndex = int(idx.Int())
	}
	if out.PageSize <= 0 {
		out.PageSize = itemCount
	}
	if out.TotalCount < itemCount {
		out.TotalCount = itemCount
	}
	if out.TotalPages <= 0 {
		out.TotalPages = 1
		if out.PageSize > 0 && out.TotalCount > out.PageSize {
			out.TotalPages = (out.TotalCount + out.PageSize - 1) / out.PageSize
		}
	}
	return out
}

// ExtractNotification returns the provider notification attached to a
// provisional order, if any.
func ExtractNotification(payload []byte) (string, bool) {
	msg := strings.TrimSpace(gjson.GetBytes(payload, "notification.message").String())
	return msg, msg != ""
}
