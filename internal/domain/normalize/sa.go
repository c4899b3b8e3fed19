package normalize

import (
	"github.com/tidwall/gjson"

	"github.com/turtacn/titleorder/internal/domain/catalog"
)

// saTitle renders a South Australian reference as "CT 5359/705", omitting the
// register book when the provider leaves it out.
func saTitle(r gjson.Result) string {
	ref := volumeFolio(r)
	if book := r.Get("registerBook").String(); book != "" && ref != "" {
		return book + " " + ref
	}
	return ref
}

func saMappers() map[catalog.SearchTypeID]Mapper {
	return map[catalog.SearchTypeID]Mapper{
		catalog.SAVolumeFolio: {
			Path: "data.titles",
			Build: func(r gjson.Result) Entry {
				ref := saTitle(r)
				return Entry{
					Key:            ref,
					Description:    ref,
					TitleReference: ref,
					Render: map[string]string{
						"title":      ref,
						"status":     mapStatus(r.Get("status").String()),
						"estateType": r.Get("estateType").String(),
					},
				}
			},
		},
		catalog.SAParcel: {
			Path: "data.parcels",
			Build: func(r gjson.Result) Entry {
				parcel := assemble(
					r.Get("planType").String()+r.Get("planNumber").String(),
					r.Get("parcelType").String()+r.Get("parcelNumber").String(),
				)
				ref := saTitle(r.Get("title"))
				return Entry{
					Key:            parcel + "|" + ref,
					Description:    parcel,
					TitleReference: ref,
					Render: map[string]string{
						"parcel": parcel,
						"title":  ref,
						"status": mapStatus(r.Get("status").String()),
					},
				}
			},
		},
		catalog.SAAddress: {
			Path:    "data.addresses",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				ref := saTitle(r.Get("title"))
				addr := standardAddress.format(r)
				return Entry{
					Key:            ref + "|" + addr,
					Description:    addr,
					TitleReference: ref,
					Render: map[string]string{
						"address": addr,
						"title":   ref,
					},
				}
			},
		},
		catalog.SAOwnerIndividual: {
			Path:    "data.ownerships",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				ref := saTitle(r.Get("title"))
				owner := assemble(r.Get("givenNames").String(), r.Get("surname").String())
				return Entry{
					Key:            ref + "|" + owner,
					Description:    owner,
					TitleReference: ref,
					Render: map[string]string{
						"owner": owner,
						"title": ref,
					},
				}
			},
		},
		catalog.SAOwnerOrganisation: {
			Path:    "data.ownerships",
			Chained: true,
			Build: func(r gjson.Result) Entry {
				ref := saTitle(r.Get("title"))
				org := r.Get("organisationName").String()
				return Entry{
					Key:            ref + "|" + org,
					Description:    org,
					TitleReference: ref,
					Render: map[string]string{
						"organisation": org,
						"title":        ref,
					},
				}
			},
		},
	}
}
