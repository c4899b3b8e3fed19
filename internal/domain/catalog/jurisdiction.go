package catalog

import (
	"sort"
	"strings"

	"github.com/turtacn/titleorder/pkg/errors"
)

// Jurisdiction identifies one land-registry authority.
type Jurisdiction string

const (
	JurisdictionNSW Jurisdiction = "NSW"
	JurisdictionVIC Jurisdiction = "VIC"
	JurisdictionQLD Jurisdiction = "QLD"
	JurisdictionSA  Jurisdiction = "SA"
	JurisdictionWA  Jurisdiction = "WA"
	JurisdictionTAS Jurisdiction = "TAS"
	JurisdictionNT  Jurisdiction = "NT"
	JurisdictionACT Jurisdiction = "ACT"
	// JurisdictionCTH is the Commonwealth company register used for ACN and
	// organisation lookups.
	JurisdictionCTH Jurisdiction = "CTH"

	// JurisdictionAll is the cross-jurisdiction pseudo-entry.  It has no products.
	JurisdictionAll Jurisdiction = "ALL"
)

func (j Jurisdiction) String() string { return string(j) }

// JurisdictionInfo holds display metadata about a jurisdiction.
type JurisdictionInfo struct {
	Code Jurisdiction
	Name string
}

var jurisdictionOrder = []Jurisdiction{
	JurisdictionNSW, JurisdictionVIC, JurisdictionQLD, JurisdictionSA, JurisdictionWA,
	JurisdictionTAS, JurisdictionNT, JurisdictionACT, JurisdictionCTH, JurisdictionAll,
}

var jurisdictionNames = map[Jurisdiction]string{
	JurisdictionNSW: "New South Wales",
	JurisdictionVIC: "Victoria",
	JurisdictionQLD: "Queensland",
	JurisdictionSA:  "South Australia",
	JurisdictionWA:  "Western Australia",
	JurisdictionTAS: "Tasmania",
	JurisdictionNT:  "Northern Territory",
	JurisdictionACT: "Australian Capital Territory",
	JurisdictionCTH: "Commonwealth",
	JurisdictionAll: "All jurisdictions",
}

var jurisdictionAliases = map[string]Jurisdiction{
	"NEW SOUTH WALES":              JurisdictionNSW,
	"VICTORIA":                     JurisdictionVIC,
	"QUEENSLAND":                   JurisdictionQLD,
	"SOUTH AUSTRALIA":              JurisdictionSA,
	"WESTERN AUSTRALIA":            JurisdictionWA,
	"TASMANIA":                     JurisdictionTAS,
	"NORTHERN TERRITORY":           JurisdictionNT,
	"AUSTRALIAN CAPITAL TERRITORY": JurisdictionACT,
	"COMMONWEALTH":                 JurisdictionCTH,
	"ASIC":                         JurisdictionCTH,
	"AUS":                          JurisdictionAll,
}

// Normalize converts a code or alias (case-insensitive) to a Jurisdiction.
func Normalize(code string) (Jurisdiction, error) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := jurisdictionNames[Jurisdiction(upper)]; ok {
		return Jurisdiction(upper), nil
	}
	if j, ok := jurisdictionAliases[upper]; ok {
		return j, nil
	}
	return "", errors.InvalidParam("invalid jurisdiction code").WithDetail(code)
}

// Info returns display metadata for j.
func Info(j Jurisdiction) (JurisdictionInfo, bool) {
	name, ok := jurisdictionNames[j]
	if !ok {
		return JurisdictionInfo{}, false
	}
	return JurisdictionInfo{Code: j, Name: name}, true
}

// Jurisdictions lists every jurisdiction in display order, ALL last.
func Jurisdictions() []JurisdictionInfo {
	out := make([]JurisdictionInfo, 0, len(jurisdictionOrder))
	for _, j := range jurisdictionOrder {
		out = append(out, JurisdictionInfo{Code: j, Name: jurisdictionNames[j]})
	}
	return out
}

// Aliases returns the accepted aliases of j, sorted.
func Aliases(j Jurisdiction) []string {
	var out []string
	for alias, target := range jurisdictionAliases {
		if target == j {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
