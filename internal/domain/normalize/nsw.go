package normalize

import (
	"github.com/tidwall/gjson"

	"github.com/turtacn/titleorder/internal/domain/catalog"
)

func nswMappers() map[catalog.SearchTypeID]Mapper {
	return map[catalog.SearchTypeID]Mapper{
		catalog.NSWTitleReference: {
			Path: "data.titles",
			Build: func(r gjson.Result) Entry {
				folio := r.Get("folioIdentifier").String()
				return Entry{
					Key:            folio,
					Description:    folio,
					TitleReference: folio,
					Render: map[string]string{
						"folioIdentifier": folio,
						"status":          mapStatus(r.Get("status").String()),
						"tenure":          r.Get("tenure").String(),
						"lastDealing":     r.Get("lastDealing").String(),
						"address":         standardAddress.format(r.Get("address")),
					},
				}
			},
		},
		catalog.NSWAddress: {
			Path:    "data.addresses",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				folio := r.Get("folioIdentifier").String()
				addr := standardAddress.format(r)
				return Entry{
					Key:            folio + "|" + addr,
					Description:    addr,
					TitleReference: folio,
					Render: map[string]string{
						"address":         addr,
						"folioIdentifier": folio,
					},
				}
			},
		},
		catalog.NSWOwnerIndividual: {
			Path:    "data.ownerships",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				folio := r.Get("folioIdentifier").String()
				owner := assemble(r.Get("givenNames").String(), r.Get("surname").String())
				return Entry{
					Key:            folio + "|" + owner,
					Description:    owner,
					TitleReference: folio,
					Render: map[string]string{
						"owner":           owner,
						"folioIdentifier": folio,
						"address":         standardAddress.format(r.Get("address")),
					},
				}
			},
		},
		catalog.NSWOwnerOrganisation: {
			Path:    "data.ownerships",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				folio := r.Get("folioIdentifier").String()
				org := r.Get("organisationName").String()
				return Entry{
					Key:            folio + "|" + org,
					Description:    org,
					TitleReference: folio,
					Render: map[string]string{
						"organisation":    org,
						"folioIdentifier": folio,
						"address":         standardAddress.format(r.Get("address")),
					},
				}
			},
		},
		catalog.NSWPlan: {
			Path: "data.plans",
			Build: func(r gjson.Result) Entry {
				plan := r.Get("planType").String() + r.Get("planNumber").String()
				return Entry{
					Key:         plan,
					Description: plan,
					Inputs:      map[string]string{"planNumber": plan},
					Render: map[string]string{
						"plan":      plan,
						"lodged":    r.Get("lodgementDate").String(),
						"status":    mapStatus(r.Get("status").String()),
						"planLabel": assemble(r.Get("planType").String(), r.Get("planNumber").String()),
					},
				}
			},
		},
		catalog.NSWDealing: {
			Path: "data.dealings",
			Build: func(r gjson.Result) Entry {
				number := r.Get("dealingNumber").String()
				return Entry{
					Key:         number,
					Description: number,
					Inputs:      map[string]string{"dealingNumber": number},
					Render: map[string]string{
						"dealingNumber": number,
						"dealingType":   r.Get("dealingType").String(),
						"lodged":        r.Get("lodgedDate").String(),
						"status":        mapStatus(r.Get("status").String()),
					},
				}
			},
		},
	}
}
