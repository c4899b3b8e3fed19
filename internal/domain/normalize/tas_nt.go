package normalize

import (
	"github.com/tidwall/gjson"

	"github.com/turtacn/titleorder/internal/domain/catalog"
)

func tasMappers() map[catalog.SearchTypeID]Mapper {
	return map[catalog.SearchTypeID]Mapper{
		catalog.TASVolumeFolio: {
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
						"propertyId":  r.Get("propertyId").String(),
					},
				}
			},
		},
		catalog.TASAddress: {
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
						"propertyId":  r.Get("propertyId").String(),
					},
				}
			},
		},
		catalog.TASOwnerIndividual: {
			Path: "data.ownerships",
			Build: func(r gjson.Result) Entry {
				ref := volumeFolio(r)
				owner := assemble(r.Get("givenNames").String(), r.Get("surname").String())
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
	}
}

func ntMappers() map[catalog.SearchTypeID]Mapper {
	return map[catalog.SearchTypeID]Mapper{
		catalog.NTVolumeFolio: {
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
						"parcel":      r.Get("parcel").String(),
					},
				}
			},
		},
		catalog.NTParcel: {
			Path: "data.parcels",
			Build: func(r gjson.Result) Entry {
				parcel := r.Get("parcelNumber").String()
				if suffix := r.Get("suffix").String(); suffix != "" {
					parcel += "/" + suffix
				}
				ref := volumeFolio(r)
				return Entry{
					Key:            parcel + "|" + ref,
					Description:    parcel,
					TitleReference: ref,
					Inputs:         map[string]string{"parcel": parcel},
					Render: map[string]string{
						"parcel":      parcel,
						"hundred":     r.Get("hundred").String(),
						"volumeFolio": ref,
					},
				}
			},
		},
		catalog.NTAddress: {
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
					},
				}
			},
		},
	}
}
