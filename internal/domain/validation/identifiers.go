package validation

import "strings"

// Messages returned by the identifier grammars.
const (
	MsgTitleReferenceInvalid = "Title reference is not valid"
	MsgLotPlanInvalid        = "Lot/Plan is not valid"
	MsgParcelInvalid         = "Parcel is not valid"
	MsgBlockInvalid          = "Block reference is not valid"
	MsgPlanNumberInvalid     = "Plan number is not valid"
	MsgRegisterBookInvalid   = "Register book must be one of CT, CL, CR or CF"
	MsgLotInvalid            = "Lot must be digits, optionally preceded by letters"
	MsgPlanTypeInvalid       = "Plan type must contain letters only"
	MsgPlanNumberDigits      = "Plan number must be digits and cannot start with 0"
)

// ─── NSW folio identifier ───────────────────────────────────────────────────

func alnum(s string, max int) bool {
	if s == "" || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) && !isLetter(s[i]) {
			return false
		}
	}
	return true
}

// NSWFolioIdentifier accepts lot/plan (1/123456), lot/section/plan with an
// optional section (1/2/12345, 1//12345) and auto-consol volume-folio
// (12345-67).
var NSWFolioIdentifier = Grammar{
	Name:    "nsw-folio-identifier",
	Invalid: MsgTitleReferenceInvalid,
	Rules: []GrammarRule{
		{
			Name:    "lot-section-plan",
			Matches: func(v string) bool { return slashes(v) == 2 },
			Check: func(v string) string {
				p := strings.Split(v, "/")
				if !alnum(p[0], 5) || (p[1] != "" && !digits(p[1], 4)) || !nonZeroDigits(p[2], 7) {
					return MsgTitleReferenceInvalid
				}
				return ""
			},
		},
		{
			Name:    "lot-plan",
			Matches: func(v string) bool { return slashes(v) == 1 },
			Check: func(v string) string {
				p := strings.Split(v, "/")
				if !alnum(p[0], 5) || !nonZeroDigits(p[1], 7) {
					return MsgTitleReferenceInvalid
				}
				return ""
			},
		},
		{
			Name:    "auto-consol",
			Matches: func(v string) bool { return slashes(v) == 0 && strings.Count(v, "-") == 1 },
			Check: func(v string) string {
				p := strings.Split(v, "-")
				if !nonZeroDigits(p[0], 5) || !digits(p[1], 4) {
					return MsgTitleReferenceInvalid
				}
				return ""
			},
		},
	},
}

// ─── Torrens volume/folio ───────────────────────────────────────────────────

func volumeFolioRule(maxVolume, maxFolio int) GrammarRule {
	return GrammarRule{
		Name:    "volume-folio",
		Matches: func(v string) bool { return slashes(v) == 1 && startsWithDigit(v) },
		Check: func(v string) string {
			p := strings.Split(v, "/")
			if !nonZeroDigits(p[0], maxVolume) || !nonZeroDigits(p[1], maxFolio) {
				return MsgTitleReferenceInvalid
			}
			return ""
		},
	}
}

// VolumeFolio is the Torrens title reference used by VIC, WA, TAS, NT and ACT.
var VolumeFolio = Grammar{
	Name:    "volume-folio",
	Invalid: MsgTitleReferenceInvalid,
	Rules:   []GrammarRule{volumeFolioRule(6, 4)},
}

var saRegisterBooks = map[string]bool{"CT": true, "CL": true, "CR": true, "CF": true}

var saVolumeFolio = volumeFolioRule(5, 3)

// SAVolumeFolio is the South Australian title reference: volume/folio with an
// optional register-book prefix (CT 5359/705, CL5359/705).
var SAVolumeFolio = Grammar{
	Name:    "sa-volume-folio",
	Invalid: MsgTitleReferenceInvalid,
	Rules: []GrammarRule{
		{
			Name:    "register-book",
			Matches: func(v string) bool { return len(v) > 2 && startsWithLetter(v) && isLetter(v[1]) },
			Check: func(v string) string {
				if !saRegisterBooks[v[:2]] {
					return MsgRegisterBookInvalid
				}
				rest := strings.TrimSpace(v[2:])
				if !saVolumeFolio.Matches(rest) {
					return MsgTitleReferenceInvalid
				}
				return saVolumeFolio.Check(rest)
			},
		},
		saVolumeFolio,
	},
}

// QLDTitleReference is the 8 or 9 digit Queensland title reference.
var QLDTitleReference = Grammar{
	Name:    "qld-title-reference",
	Invalid: MsgTitleReferenceInvalid,
	Rules: []GrammarRule{
		{
			Name:    "title-reference",
			Matches: func(v string) bool { return slashes(v) == 0 && startsWithDigit(v) },
			Check: func(v string) string {
				if len(v) < 8 || !digits(v, 9) {
					return MsgTitleReferenceInvalid
				}
				return ""
			},
		},
	},
}

// ─── lot on plan ────────────────────────────────────────────────────────────

func checkLotPlanParts(lot, planType, number string) string {
	switch {
	case !lotToken(lot, 5):
		return MsgLotInvalid
	case !letters(planType, 4):
		return MsgPlanTypeInvalid
	case !nonZeroDigits(number, 8):
		return MsgPlanNumberDigits
	}
	return ""
}

// LotPlan accepts the three surface forms used by QLD, VIC and WA: three-part
// 1/RP/12345, slash pair 1/RP12345 and bare 1RP12345.
var LotPlan = Grammar{
	Name:    "lot-plan",
	Invalid: MsgLotPlanInvalid,
	Rules: []GrammarRule{
		{
			Name:    "three-part",
			Matches: func(v string) bool { return slashes(v) == 2 },
			Check: func(v string) string {
				p := strings.Split(v, "/")
				return checkLotPlanParts(p[0], p[1], p[2])
			},
		},
		{
			Name:    "slash-pair",
			Matches: func(v string) bool { return slashes(v) == 1 },
			Check: func(v string) string {
				p := strings.SplitN(v, "/", 2)
				planType, number := span(p[1], isLetter)
				if planType == "" || number == "" {
					return MsgLotPlanInvalid
				}
				return checkLotPlanParts(p[0], planType, number)
			},
		},
		{
			Name:    "bare",
			Matches: func(v string) bool { return slashes(v) == 0 && startsWithDigit(v) },
			Check: func(v string) string {
				lot, rest := span(v, isDigit)
				planType, number := span(rest, isLetter)
				if planType == "" || number == "" {
					return MsgLotPlanInvalid
				}
				return checkLotPlanParts(lot, planType, number)
			},
		},
	},
}

// ─── parcels, blocks and plans ──────────────────────────────────────────────

func prefixedNumber(s string, maxLetters, maxDigits int) bool {
	prefix, number := span(s, isLetter)
	return letters(prefix, maxLetters) && nonZeroDigits(number, maxDigits)
}

func checkSAParcel(plan, parcel string) string {
	if !prefixedNumber(plan, 2, 6) || !prefixedNumber(parcel, 2, 5) {
		return MsgParcelInvalid
	}
	return ""
}

// SAParcel accepts a plan and parcel pair (D12345 A1, D12345/A1).
var SAParcel = Grammar{
	Name:    "sa-parcel",
	Invalid: MsgParcelInvalid,
	Rules: []GrammarRule{
		{
			Name:    "space-separated",
			Matches: func(v string) bool { return slashes(v) == 0 && len(strings.Fields(v)) == 2 },
			Check: func(v string) string {
				p := strings.Fields(v)
				return checkSAParcel(p[0], p[1])
			},
		},
		{
			Name:    "slash-separated",
			Matches: func(v string) bool { return slashes(v) == 1 },
			Check: func(v string) string {
				p := strings.Split(v, "/")
				return checkSAParcel(strings.TrimSpace(p[0]), strings.TrimSpace(p[1]))
			},
		},
	},
}

// NTParcel accepts a parcel number with an optional letter suffix (1234, 01234/A).
var NTParcel = Grammar{
	Name:    "nt-parcel",
	Invalid: MsgParcelInvalid,
	Rules: []GrammarRule{
		{
			Name:    "parcel",
			Matches: func(v string) bool { return slashes(v) == 0 && startsWithDigit(v) },
			Check: func(v string) string {
				if !digits(v, 6) {
					return MsgParcelInvalid
				}
				return ""
			},
		},
		{
			Name:    "parcel-suffix",
			Matches: func(v string) bool { return slashes(v) == 1 },
			Check: func(v string) string {
				p := strings.Split(v, "/")
				if !digits(p[0], 6) || !letters(p[1], 2) {
					return MsgParcelInvalid
				}
				return ""
			},
		},
	},
}

func divisionName(s string) bool {
	if strings.TrimSpace(s) == "" || len(s) > 30 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) && s[i] != ' ' {
			return false
		}
	}
	return true
}

// ACTBlock accepts DIVISION/SECTION/BLOCK (BRADDON/12/3) or SECTION/BLOCK.
var ACTBlock = Grammar{
	Name:    "act-block",
	Invalid: MsgBlockInvalid,
	Rules: []GrammarRule{
		{
			Name:    "division-section-block",
			Matches: func(v string) bool { return slashes(v) == 2 },
			Check: func(v string) string {
				p := strings.Split(v, "/")
				if !divisionName(p[0]) || !nonZeroDigits(p[1], 3) || !nonZeroDigits(p[2], 3) {
					return MsgBlockInvalid
				}
				return ""
			},
		},
		{
			Name:    "section-block",
			Matches: func(v string) bool { return slashes(v) == 1 },
			Check: func(v string) string {
				p := strings.Split(v, "/")
				if !nonZeroDigits(p[0], 3) || !nonZeroDigits(p[1], 3) {
					return MsgBlockInvalid
				}
				return ""
			},
		},
	},
}

var nswPlanTypes = map[string]bool{"DP": true, "SP": true, "CP": true, "PP": true}

// NSWPlanNumber accepts a typed plan (DP123456, SP1234) or a bare deposited
// plan number.
var NSWPlanNumber = Grammar{
	Name:    "nsw-plan-number",
	Invalid: MsgPlanNumberInvalid,
	Rules: []GrammarRule{
		{
			Name:    "prefixed",
			Matches: startsWithLetter,
			Check: func(v string) string {
				prefix, number := span(v, isLetter)
				if !nswPlanTypes[prefix] {
					return MsgPlanTypeInvalid
				}
				if !nonZeroDigits(strings.TrimSpace(number), 7) {
					return MsgPlanNumberDigits
				}
				return ""
			},
		},
		{
			Name:    "bare",
			Matches: startsWithDigit,
			Check: func(v string) string {
				if !nonZeroDigits(v, 7) {
					return MsgPlanNumberDigits
				}
				return ""
			},
		},
	},
}
