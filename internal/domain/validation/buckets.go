package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Messages returned by the free-text and numeric buckets.
const (
	MsgNameCharacters      = "Only letters, spaces, apostrophes, hyphens and % are allowed"
	MsgWildcardPrefix      = "At least 3 characters are required before a wildcard"
	MsgCompanyCharacters   = "Company name contains invalid characters"
	MsgPostcode            = "Postcode must be a 4 digit number"
	MsgACN                 = "ACN must be a 9 digit numerical value"
	MsgCouncilNumber       = "Council number must be numeric"
	MsgDealingNumber       = "Dealing number must be numeric"
	MsgStreetNumber        = "Street number is not valid"
	MsgUnitNumber          = "Unit number is not valid"
	MsgStreetNameCharacter = "Street name contains invalid characters"
	MsgSuburbCharacters    = "Suburb contains invalid characters"
	MsgCouncilName         = "Council name contains invalid characters"
)

// wildcard is the provider's match-anything marker in name searches.
const wildcard = '%'

// minBeforeWildcard is how many non-wildcard characters must precede the
// first wildcard.
const minBeforeWildcard = 3

func isApostrophe(r rune) bool { return r == '\'' || r == '’' }

func checkWildcard(v string) string {
	idx := strings.IndexRune(v, wildcard)
	if idx < 0 {
		return ""
	}
	n := 0
	for _, r := range v[:idx] {
		if r != ' ' {
			n++
		}
	}
	if n < minBeforeWildcard {
		return MsgWildcardPrefix
	}
	return ""
}

func allRunes(v string, ok func(rune) bool) bool {
	for _, r := range v {
		if !ok(r) {
			return false
		}
	}
	return true
}

// PersonName checks surnames and given names: letters, spaces, apostrophes,
// hyphens and the % wildcard.
func PersonName(v string) string {
	v = strings.TrimSpace(v)
	if !allRunes(v, func(r rune) bool {
		return unicode.IsLetter(r) || r == ' ' || r == '-' || isApostrophe(r) || r == wildcard
	}) {
		return MsgNameCharacters
	}
	return checkWildcard(v)
}

// CompanyName is PersonName widened with digits and & . , ( ) /.
func CompanyName(v string) string {
	v = strings.TrimSpace(v)
	if !allRunes(v, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || isApostrophe(r) ||
			strings.ContainsRune(" -&.,()/", r) || r == wildcard
	}) {
		return MsgCompanyCharacters
	}
	return checkWildcard(v)
}

func strip(v, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, v)
}

func numeric(v string) bool {
	return v != "" && allRunes(v, func(r rune) bool { return r >= '0' && r <= '9' })
}

// Postcode requires exactly four digits.
func Postcode(v string) string {
	v = strip(v, " ")
	if len(v) != 4 || !numeric(v) {
		return MsgPostcode
	}
	return ""
}

// ACN requires exactly nine digits once spaces are removed.
func ACN(v string) string {
	v = strip(v, " ")
	if len(v) != 9 || !numeric(v) {
		return MsgACN
	}
	return ""
}

// CouncilNumber requires digits once spaces and hyphens are removed.
func CouncilNumber(v string) string {
	if !numeric(strip(v, " -")) {
		return MsgCouncilNumber
	}
	return ""
}

// DealingNumber requires digits once spaces and hyphens are removed.
func DealingNumber(v string) string {
	if !numeric(strip(v, " -")) {
		return MsgDealingNumber
	}
	return ""
}

var (
	streetNumberPattern = regexp.MustCompile(`^[0-9]{1,5}[A-Z]?(-[0-9]{1,5}[A-Z]?)?$`)
	unitNumberPattern   = regexp.MustCompile(`^[A-Z0-9]{1,6}$`)
)

// StreetNumber accepts 12, 12A and ranges such as 12-14.
func StreetNumber(v string) string {
	if !streetNumberPattern.MatchString(strings.ToUpper(strings.TrimSpace(v))) {
		return MsgStreetNumber
	}
	return ""
}

// UnitNumber accepts short alphanumeric unit designators.
func UnitNumber(v string) string {
	if !unitNumberPattern.MatchString(strings.ToUpper(strings.TrimSpace(v))) {
		return MsgUnitNumber
	}
	return ""
}

// StreetName allows letters, digits, spaces, apostrophes, hyphens and dots.
func StreetName(v string) string {
	if !allRunes(strings.TrimSpace(v), func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || isApostrophe(r) || strings.ContainsRune(" -.", r)
	}) {
		return MsgStreetNameCharacter
	}
	return ""
}

// Suburb allows letters, spaces, apostrophes and hyphens.
func Suburb(v string) string {
	if !allRunes(strings.TrimSpace(v), func(r rune) bool {
		return unicode.IsLetter(r) || isApostrophe(r) || r == ' ' || r == '-'
	}) {
		return MsgSuburbCharacters
	}
	return ""
}

// CouncilName allows letters, spaces and hyphens.
func CouncilName(v string) string {
	if !allRunes(strings.TrimSpace(v), func(r rune) bool {
		return unicode.IsLetter(r) || r == ' ' || r == '-'
	}) {
		return MsgCouncilName
	}
	return ""
}
