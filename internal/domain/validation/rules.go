package validation

import "github.com/turtacn/titleorder/internal/domain/catalog"

func grammarRule(min, max int, g Grammar) FieldRule {
	return FieldRule{MinLength: min, MaxLength: max, Check: g.Check}
}

// titleGrammars holds the title-reference grammar of each jurisdiction.
var titleGrammars = map[catalog.Jurisdiction]FieldRule{
	catalog.JurisdictionVIC: grammarRule(3, 12, VolumeFolio),
	catalog.JurisdictionWA:  grammarRule(3, 12, VolumeFolio),
	catalog.JurisdictionTAS: grammarRule(3, 12, VolumeFolio),
	catalog.JurisdictionNT:  grammarRule(3, 12, VolumeFolio),
	catalog.JurisdictionACT: grammarRule(3, 12, VolumeFolio),
	catalog.JurisdictionSA:  grammarRule(3, 14, SAVolumeFolio),
	catalog.JurisdictionQLD: grammarRule(8, 9, QLDTitleReference),
}

var parcelGrammars = map[catalog.Jurisdiction]FieldRule{
	catalog.JurisdictionSA: grammarRule(4, 20, SAParcel),
	catalog.JurisdictionNT: grammarRule(1, 10, NTParcel),
}

// fieldRules holds the jurisdiction-independent rules by field label.
var fieldRules = map[string]FieldRule{
	catalog.FieldFolioIdentifier:  grammarRule(3, 20, NSWFolioIdentifier),
	catalog.FieldLotPlan:          grammarRule(3, 20, LotPlan),
	catalog.FieldBlock:            grammarRule(3, 40, ACTBlock),
	catalog.FieldPlanNumber:       grammarRule(1, 10, NSWPlanNumber),
	catalog.FieldDealingNumber:    {MinLength: 1, MaxLength: 12, Check: DealingNumber},
	catalog.FieldCouncilNumber:    {MinLength: 1, MaxLength: 12, Check: CouncilNumber},
	catalog.FieldCouncilName:      {MinLength: 2, MaxLength: 40, Check: CouncilName},
	catalog.FieldUnitNumber:       {MinLength: 1, MaxLength: 6, Check: UnitNumber},
	catalog.FieldStreetNumber:     {MinLength: 1, MaxLength: 11, Check: StreetNumber},
	catalog.FieldStreetName:       {MinLength: 2, MaxLength: 60, Check: StreetName},
	catalog.FieldSuburb:           {MinLength: 2, MaxLength: 40, Check: Suburb},
	catalog.FieldPostcode:         {MinLength: 4, MaxLength: 4, Check: Postcode},
	catalog.FieldSurname:          {MinLength: 2, MaxLength: 50, Check: PersonName},
	catalog.FieldGivenNames:       {MinLength: 1, MaxLength: 60, Check: PersonName},
	catalog.FieldCompanyName:      {MinLength: 2, MaxLength: 120, Check: CompanyName},
	catalog.FieldOrganisationName: {MinLength: 3, MaxLength: 120, Check: CompanyName},
	catalog.FieldACN:              {MinLength: 9, MaxLength: 11, Check: ACN},
}

func ruleFor(p catalog.SearchProduct, field string) (FieldRule, bool) {
	switch field {
	case catalog.FieldTitleReference:
		r, ok := titleGrammars[p.Jurisdiction]
		return r, ok
	case catalog.FieldParcel:
		r, ok := parcelGrammars[p.Jurisdiction]
		return r, ok
	}
	r, ok := fieldRules[field]
	return r, ok
}
