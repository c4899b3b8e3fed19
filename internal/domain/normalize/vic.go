package normalize

import (
	"github.com/tidwall/gjson"

	"github.com/turtacn/titleorder/internal/domain/catalog"
)

func vicMappers() map[catalog.SearchTypeID]Mapper {
	return map[catalog.SearchTypeID]Mapper{
		catalog.VICVolumeFolio: {
			Path: "data.titles",
			Build: func(r gjson.Result) Entry {
				ref := volumeFolio(r)
				return Entry{
					Key:            ref,
					Description:    ref,
					TitleReference: ref,
					Render: map[string]string{
						"volume":  r.Get("volume").String(),
						"folio":   r.Get("folio").String(),
						"status":  mapStatus(r.Get("status").String()),
						"parcel":  r.Get("parcelDescription").String(),
						"address": standardAddress.format(r.Get("address")),
					},
				}
			},
		},
		catalog.VICLotPlan: {
			Path: "data.browsedProperties",
			Build: func(r gjson.Result) Entry {
				lotPlan := r.Get("lot").String() + "/" + r.Get("planNumber").String()
				ref := volumeFolio(r)
				return Entry{
					Key:            lotPlan + "|" + ref,
					Description:    lotPlan,
					TitleReference: ref,
					Inputs:         map[string]string{"lotPlan": lotPlan},
					Render: map[string]string{
						"lotPlan":     lotPlan,
						"volumeFolio": ref,
						"address":     standardAddress.format(r.Get("address")),
					},
				}
			},
		},
		catalog.VICAddress: {
			Path:    "data.addresses",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				ref := volumeFolio(r)
				addr := standardAddress.format(r)
				return Entry{
					Key:            ref + "|" + addr,
					Description:    addr,
					TitleReference: ref,
					Render: map[string]string{
						"address":     addr,
						"volumeFolio": ref,
						"parcel":      r.Get("parcelDescription").String(),
					},
				}
			},
		},
		catalog.VICOwnerIndividual: {
			Path:    "data.ownerships",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				ref := volumeFolio(r)
				owner := assemble(r.Get("givenName").String(), r.Get("familyName").String())
				return Entry{
					Key:            ref + "|" + owner,
					Description:    owner,
					TitleReference: ref,
					Render: map[string]string{
						"owner":       owner,
						"volumeFolio": ref,
					},
				}
			},
		},
		catalog.VICCouncil: {
			Path: "data.properties",
			Build: func(r gjson.Result) Entry {
				number := r.Get("councilPropertyNumber").String()
				ref := volumeFolio(r)
				return Entry{
					Key:            number + "|" + ref,
					Description:    number,
					TitleReference: ref,
					Inputs:         map[string]string{"councilPropertyNumber": number},
					Render: map[string]string{
						"councilPropertyNumber": number,
						"council":               r.Get("councilName").String(),
						"volumeFolio":           ref,
					},
				}
			},
		},
	}
}
