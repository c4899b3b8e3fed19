package catalog

// Form field labels.  Criteria maps and validation rules are keyed by these.
const (
	FieldTitleReference   = "Title Reference"
	FieldFolioIdentifier  = "Folio Identifier"
	FieldLotPlan          = "Lot/Plan"
	FieldParcel           = "Parcel"
	FieldBlock            = "Block"
	FieldPlanNumber       = "Plan Number"
	FieldDealingNumber    = "Dealing Number"
	FieldCouncilNumber    = "Council Number"
	FieldCouncilName      = "Council Name"
	FieldUnitNumber       = "Unit Number"
	FieldStreetNumber     = "Street Number"
	FieldStreetName       = "Street Name"
	FieldSuburb           = "Suburb"
	FieldPostcode         = "Postcode"
	FieldSurname          = "Surname"
	FieldGivenNames       = "Given Names"
	FieldCompanyName      = "Company Name"
	FieldACN              = "ACN"
	FieldOrganisationName = "Organisation Name"
)

// Search-type identifiers.
const (
	NSWTitleReference    SearchTypeID = "NSW_TITLE_REFERENCE"
	NSWAddress           SearchTypeID = "NSW_ADDRESS"
	NSWOwnerIndividual   SearchTypeID = "NSW_OWNER_INDIVIDUAL"
	NSWOwnerOrganisation SearchTypeID = "NSW_OWNER_ORGANISATION"
	NSWPlan              SearchTypeID = "NSW_PLAN"
	NSWDealing           SearchTypeID = "NSW_DEALING"
	VICVolumeFolio       SearchTypeID = "VIC_VOLUME_FOLIO"
	VICLotPlan           SearchTypeID = "VIC_LOT_PLAN"
	VICAddress           SearchTypeID = "VIC_ADDRESS"
	VICOwnerIndividual   SearchTypeID = "VIC_OWNER_INDIVIDUAL"
	VICCouncil           SearchTypeID = "VIC_COUNCIL"
	QLDTitleReference    SearchTypeID = "QLD_TITLE_REFERENCE"
	QLDLotPlan           SearchTypeID = "QLD_LOT_PLAN"
	QLDAddress           SearchTypeID = "QLD_ADDRESS"
	QLDOwnerIndividual   SearchTypeID = "QLD_OWNER_INDIVIDUAL"
	QLDOwnerOrganisation SearchTypeID = "QLD_OWNER_ORGANISATION"
	SAVolumeFolio        SearchTypeID = "SA_VOLUME_FOLIO"
	SAParcel             SearchTypeID = "SA_PARCEL"
	SAAddress            SearchTypeID = "SA_ADDRESS"
	SAOwnerIndividual    SearchTypeID = "SA_OWNER_INDIVIDUAL"
	SAOwnerOrganisation  SearchTypeID = "SA_OWNER_ORGANISATION"
	WAVolumeFolio        SearchTypeID = "WA_VOLUME_FOLIO"
	WALotPlan            SearchTypeID = "WA_LOT_PLAN"
	WAAddress            SearchTypeID = "WA_ADDRESS"
	WAOwnerOrganisation  SearchTypeID = "WA_OWNER_ORGANISATION"
	TASVolumeFolio       SearchTypeID = "TAS_VOLUME_FOLIO"
	TASAddress           SearchTypeID = "TAS_ADDRESS"
	TASOwnerIndividual   SearchTypeID = "TAS_OWNER_INDIVIDUAL"
	NTVolumeFolio        SearchTypeID = "NT_VOLUME_FOLIO"
	NTParcel             SearchTypeID = "NT_PARCEL"
	NTAddress            SearchTypeID = "NT_ADDRESS"
	ACTVolumeFolio       SearchTypeID = "ACT_VOLUME_FOLIO"
	ACTBlock             SearchTypeID = "ACT_BLOCK"
	ACTAddress           SearchTypeID = "ACT_ADDRESS"
	CTHACN               SearchTypeID = "CTH_ACN"
	CTHOrganisationName  SearchTypeID = "CTH_ORGANISATION_NAME"
)

// Product codes.
const (
	ProductNSWTitle    ProductCode = "NSW-TITLE"
	ProductNSWAddress  ProductCode = "NSW-ADDRESS"
	ProductNSWOwnerInd ProductCode = "NSW-OWNER-IND"
	ProductNSWOwnerOrg ProductCode = "NSW-OWNER-ORG"
	ProductNSWPlan     ProductCode = "NSW-PLAN"
	ProductNSWDealing  ProductCode = "NSW-DEALING"
	ProductVICTitle    ProductCode = "VIC-TITLE"
	ProductVICLotPlan  ProductCode = "VIC-LOT-PLAN"
	ProductVICAddress  ProductCode = "VIC-ADDRESS"
	ProductVICOwnerInd ProductCode = "VIC-OWNER-IND"
	ProductVICCouncil  ProductCode = "VIC-COUNCIL"
	ProductQLDTitle    ProductCode = "QLD-TITLE"
	ProductQLDLotPlan  ProductCode = "QLD-LOT-PLAN"
	ProductQLDAddress  ProductCode = "QLD-ADDRESS"
	ProductQLDOwnerInd ProductCode = "QLD-OWNER-IND"
	ProductQLDOwnerOrg ProductCode = "QLD-OWNER-ORG"
	ProductSATitle     ProductCode = "SA-TITLE"
	ProductSAParcel    ProductCode = "SA-PARCEL"
	ProductSAAddress   ProductCode = "SA-ADDRESS"
	ProductSAOwnerInd  ProductCode = "SA-OWNER-IND"
	ProductSAOwnerOrg  ProductCode = "SA-OWNER-ORG"
	ProductWATitle     ProductCode = "WA-TITLE"
	ProductWALotPlan   ProductCode = "WA-LOT-PLAN"
	ProductWAAddress   ProductCode = "WA-ADDRESS"
	ProductWAOwnerOrg  ProductCode = "WA-OWNER-ORG"
	ProductTASTitle    ProductCode = "TAS-TITLE"
	ProductTASAddress  ProductCode = "TAS-ADDRESS"
	ProductTASOwnerInd ProductCode = "TAS-OWNER-IND"
	ProductNTTitle     ProductCode = "NT-TITLE"
	ProductNTParcel    ProductCode = "NT-PARCEL"
	ProductNTAddress   ProductCode = "NT-ADDRESS"
	ProductACTTitle    ProductCode = "ACT-TITLE"
	ProductACTBlock    ProductCode = "ACT-BLOCK"
	ProductACTAddress  ProductCode = "ACT-ADDRESS"
	ProductCTHACN      ProductCode = "CTH-ACN"
	ProductCTHOrgName  ProductCode = "CTH-ORG-NAME"
)

// ─── form layouts ───────────────────────────────────────────────────────────

func req(label string) FieldSpec { return FieldSpec{Label: label, Required: true} }
func opt(label string) FieldSpec { return FieldSpec{Label: label} }

var (
	titleForm   = []FieldSpec{req(FieldTitleReference)}
	addressForm = []FieldSpec{
		opt(FieldUnitNumber), opt(FieldStreetNumber), req(FieldStreetName), req(FieldSuburb), opt(FieldPostcode),
	}
	individualForm   = []FieldSpec{req(FieldSurname), opt(FieldGivenNames)}
	organisationForm = []FieldSpec{req(FieldCompanyName)}
)

// ─── product table ──────────────────────────────────────────────────────────

// productTable is the ordered product list of every jurisdiction.  Zero
// Fulfilment and Notification values default to auto and inline.
var productTable = map[Jurisdiction][]SearchProduct{
	JurisdictionNSW: {
		{Code: ProductNSWTitle, SearchTypeID: NSWTitleReference, Label: "Title Reference",
			Infotip: "Folio identifier such as 1/123456, 1/2/12345 or auto-consol 12345-67",
			Fields:  []FieldSpec{req(FieldFolioIdentifier)}},
		{Code: ProductNSWAddress, SearchTypeID: NSWAddress, Label: "Address", Fields: addressForm, Chained: true},
		{Code: ProductNSWOwnerInd, SearchTypeID: NSWOwnerIndividual, Label: "Owner (Individual)", Fields: individualForm, Chained: true},
		{Code: ProductNSWOwnerOrg, SearchTypeID: NSWOwnerOrganisation, Label: "Owner (Organisation)", Fields: organisationForm, Chained: true},
		{Code: ProductNSWPlan, SearchTypeID: NSWPlan, Label: "Plan", Infotip: "For example DP123456 or SP1234",
			Fields: []FieldSpec{req(FieldPlanNumber)}},
		{Code: ProductNSWDealing, SearchTypeID: NSWDealing, Label: "Dealing", Fields: []FieldSpec{req(FieldDealingNumber)},
			Unavailable: true},
	},
	JurisdictionVIC: {
		{Code: ProductVICTitle, SearchTypeID: VICVolumeFolio, Label: "Volume/Folio", Infotip: "For example 10245/123",
			Fields: titleForm},
		{Code: ProductVICLotPlan, SearchTypeID: VICLotPlan, Label: "Lot/Plan", Infotip: "For example 1/PS12345",
			Fields: []FieldSpec{req(FieldLotPlan)}},
		{Code: ProductVICAddress, SearchTypeID: VICAddress, Label: "Address", Fields: addressForm, Chained: true},
		{Code: ProductVICOwnerInd, SearchTypeID: VICOwnerIndividual, Label: "Owner (Individual)", Fields: individualForm, Chained: true},
		{Code: ProductVICCouncil, SearchTypeID: VICCouncil, Label: "Council Property Number",
			Fields: []FieldSpec{req(FieldCouncilNumber), req(FieldCouncilName)}, Unavailable: true},
	},
	JurisdictionQLD: {
		{Code: ProductQLDTitle, SearchTypeID: QLDTitleReference, Label: "Title Reference", Infotip: "8 or 9 digits, for example 50123456",
			Fields: titleForm, Notification: NotificationBlocking},
		{Code: ProductQLDLotPlan, SearchTypeID: QLDLotPlan, Label: "Lot/Plan", Infotip: "For example 1RP12345 or 1/RP/12345",
			Fields: []FieldSpec{req(FieldLotPlan)}},
		{Code: ProductQLDAddress, SearchTypeID: QLDAddress, Label: "Address", Fields: addressForm, Chained: true},
		{Code: ProductQLDOwnerInd, SearchTypeID: QLDOwnerIndividual, Label: "Owner (Individual)", Fields: individualForm, Chained: true},
		{Code: ProductQLDOwnerOrg, SearchTypeID: QLDOwnerOrganisation, Label: "Owner (Organisation)", Fields: organisationForm, Chained: true},
	},
	JurisdictionSA: {
		{Code: ProductSATitle, SearchTypeID: SAVolumeFolio, Label: "Volume/Folio", Infotip: "For example 5359/705 or CT 5359/705",
			Fields: titleForm},
		{Code: ProductSAParcel, SearchTypeID: SAParcel, Label: "Plan/Parcel", Infotip: "For example D12345 A1",
			Fields: []FieldSpec{req(FieldParcel)}},
		{Code: ProductSAAddress, SearchTypeID: SAAddress, Label: "Address", Fields: addressForm, Chained: true},
		{Code: ProductSAOwnerInd, SearchTypeID: SAOwnerIndividual, Label: "Owner (Individual)", Fields: individualForm, Chained: true},
		{Code: ProductSAOwnerOrg, SearchTypeID: SAOwnerOrganisation, Label: "Owner (Organisation)", Fields: organisationForm, Chained: true},
	},
	JurisdictionWA: {
		{Code: ProductWATitle, SearchTypeID: WAVolumeFolio, Label: "Volume/Folio", Infotip: "For example 1234/567",
			Fields: titleForm, Notification: NotificationBlocking},
		{Code: ProductWALotPlan, SearchTypeID: WALotPlan, Label: "Lot/Plan", Infotip: "For example 12/DP3456",
			Fields: []FieldSpec{req(FieldLotPlan)}},
		{Code: ProductWAAddress, SearchTypeID: WAAddress, Label: "Address", Fields: addressForm, Chained: true},
		{Code: ProductWAOwnerOrg, SearchTypeID: WAOwnerOrganisation, Label: "Owner (Organisation)", Fields: organisationForm, Chained: true},
	},
	JurisdictionTAS: {
		{Code: ProductTASTitle, SearchTypeID: TASVolumeFolio, Label: "Volume/Folio", Infotip: "For example 123456/1",
			Fields: titleForm},
		{Code: ProductTASAddress, SearchTypeID: TASAddress, Label: "Address", Fields: addressForm, Chained: true},
		{Code: ProductTASOwnerInd, SearchTypeID: TASOwnerIndividual, Label: "Owner (Individual)", Fields: individualForm,
			Fulfilment: FulfilmentManual},
	},
	JurisdictionNT: {
		{Code: ProductNTTitle, SearchTypeID: NTVolumeFolio, Label: "Volume/Folio", Fields: titleForm},
		{Code: ProductNTParcel, SearchTypeID: NTParcel, Label: "Parcel", Infotip: "For example 1234 or 01234/A",
			Fields: []FieldSpec{req(FieldParcel)}, Fulfilment: FulfilmentManual},
		{Code: ProductNTAddress, SearchTypeID: NTAddress, Label: "Address", Fields: addressForm, Chained: true},
	},
	JurisdictionACT: {
		{Code: ProductACTTitle, SearchTypeID: ACTVolumeFolio, Label: "Volume/Folio", Fields: titleForm},
		{Code: ProductACTBlock, SearchTypeID: ACTBlock, Label: "Division/Section/Block", Infotip: "For example BRADDON/12/3",
			Fields: []FieldSpec{req(FieldBlock)}},
		{Code: ProductACTAddress, SearchTypeID: ACTAddress, Label: "Address", Fields: addressForm, Chained: true},
	},
	JurisdictionCTH: {
		{Code: ProductCTHACN, SearchTypeID: CTHACN, Label: "ACN", Infotip: "9 digit Australian Company Number",
			Fields: []FieldSpec{req(FieldACN)}},
		{Code: ProductCTHOrgName, SearchTypeID: CTHOrganisationName, Label: "Organisation Name",
			Fields: []FieldSpec{req(FieldOrganisationName)}, Chained: true},
	},
	JurisdictionAll: {},
}

// chainTargets names the canonical title-reference product per jurisdiction.
var chainTargets = map[Jurisdiction]ProductCode{
	JurisdictionNSW: ProductNSWTitle,
	JurisdictionVIC: ProductVICTitle,
	JurisdictionQLD: ProductQLDTitle,
	JurisdictionSA:  ProductSATitle,
	JurisdictionWA:  ProductWATitle,
	JurisdictionTAS: ProductTASTitle,
	JurisdictionNT:  ProductNTTitle,
	JurisdictionACT: ProductACTTitle,
	JurisdictionCTH: ProductCTHACN,
}
