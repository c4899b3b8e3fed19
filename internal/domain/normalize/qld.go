package normalize

import (
	"github.com/tidwall/gjson"

	"github.com/turtacn/titleorder/internal/domain/catalog"
)

func qldMappers() map[catalog.SearchTypeID]Mapper {
	return map[catalog.SearchTypeID]Mapper{
		catalog.QLDTitleReference: {
			Path: "data.titles",
			Build: func(r gjson.Result) Entry {
				ref := r.Get("titleReference").String()
				return Entry{
					Key:            ref,
					Description:    ref,
					TitleReference: ref,
					Render: map[string]string{
						"titleReference": ref,
						"status":         mapStatus(r.Get("status").String()),
						"lotPlan":        r.Get("lotPlan").String(),
						"tenure":         r.Get("tenure").String(),
						"address":        qldAddress.format(r.Get("address")),
					},
				}
			},
		},
		catalog.QLDLotPlan: {
			Path: "data.browsedProperties",
			Build: func(r gjson.Result) Entry {
				lotPlan := r.Get("lot").String() + r.Get("plan").String()
				ref := r.Get("titleReference").String()
				return Entry{
					Key:            lotPlan + "|" + ref,
					Description:    lotPlan,
					TitleReference: ref,
					Inputs:         map[string]string{"lotPlan": lotPlan},
					Render: map[string]string{
						"lotPlan":        lotPlan,
						"titleReference": ref,
						"status":         mapStatus(r.Get("status").String()),
					},
				}
			},
		},
		catalog.QLDAddress: {
			Path:    "data.addresses",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				ref := r.Get("titleReference").String()
				addr := qldAddress.format(r)
				return Entry{
					Key:            ref + "|" + addr,
					Description:    addr,
					TitleReference: ref,
					Render: map[string]string{
						"address":        addr,
						"titleReference": ref,
						"lotPlan":        r.Get("lotPlan").String(),
					},
				}
			},
		},
		catalog.QLDOwnerIndividual: {
			Path:    "data.ownerships",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				ref := r.Get("titleReference").String()
				owner := assemble(r.Get("firstNames").String(), r.Get("lastName").String())
				return Entry{
					Key:            ref + "|" + owner,
					Description:    owner,
					TitleReference: ref,
					Render: map[string]string{
						"owner":          owner,
						"titleReference": ref,
					},
				}
			},
		},
		catalog.QLDOwnerOrganisation: {
			Path:    "data.ownerships",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				ref := r.Get("titleReference").String()
				company := r.Get("companyName").String()
				return Entry{
					Key:            ref + "|" + company,
					Description:    company,
					TitleReference: ref,
					Render: map[string]string{
						"company":        company,
						"acn":            r.Get("acn").String(),
						"titleReference": ref,
					},
				}
			},
		},
	}
}
