package normalize

import (
	"github.com/tidwall/gjson"

	"github.com/turtacn/titleorder/internal/domain/catalog"
)

func waMappers() map[catalog.SearchTypeID]Mapper {
	return map[catalog.SearchTypeID]Mapper{
		catalog.WAVolumeFolio: {
			Path: "data.titles",
			Build: func(r gjson.Result) Entry {
				ref := volumeFolio(r)
				return Entry{
					Key:            ref,
					Description:    ref,
					TitleReference: ref,
					Render: map[string]string{
						"volumeFolio": ref,
						"status":      mapStatus(r.Get("status").String()),
						"lot":         r.Get("lot").String(),
						"plan":        r.Get("plan").String(),
					},
				}
			},
		},
		catalog.WALotPlan: {
			Path: "data.browsedProperties",
			Build: func(r gjson.Result) Entry {
				lotPlan := r.Get("lot").String() + "/" + r.Get("planType").String() + r.Get("planNumber").String()
				ref := volumeFolio(r)
				return Entry{
					Key:            lotPlan + "|" + ref,
					Description:    lotPlan,
					TitleReference: ref,
					Inputs:         map[string]string{"lotPlan": lotPlan},
					Render: map[string]string{
						"lotPlan":     lotPlan,
						"volumeFolio": ref,
						"address":     waAddress.format(r.Get("address")),
					},
				}
			},
		},
		catalog.WAAddress: {
			Path:    "data.addresses",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				ref := volumeFolio(r)
				addr := waAddress.format(r)
				return Entry{
					Key:            ref + "|" + addr,
					Description:    addr,
					TitleReference: ref,
					Render: map[string]string{
						"address":     addr,
						"volumeFolio": ref,
					},
				}
			},
		},
		catalog.WAOwnerOrganisation: {
			Path:    "data.ownerships",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				ref := volumeFolio(r)
				org := r.Get("organisationName").String()
				return Entry{
					Key:            ref + "|" + org,
					Description:    org,
					TitleReference: ref,
					Render: map[string]string{
						"organisation": org,
						"volumeFolio":  ref,
					},
				}
			},
		},
	}
}
