package normalize

import (
	"github.com/tidwall/gjson"

	"github.com/turtacn/titleorder/internal/domain/catalog"
)

func actBlock(r gjson.Result) string {
	return r.Get("division").String() + "/" + r.Get("section").String() + "/" + r.Get("block").String()
}

func actMappers() map[catalog.SearchTypeID]Mapper {
	return map[catalog.SearchTypeID]Mapper{
		catalog.ACTVolumeFolio: {
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
						"block":       actBlock(r),
					},
				}
			},
		},
		catalog.ACTBlock: {
			Path: "data.blocks",
			Build: func(r gjson.Result) Entry {
				block := actBlock(r)
				ref := volumeFolio(r)
				return Entry{
					Key:            block + "|" + ref,
					Description:    block,
					TitleReference: ref,
					Inputs:         map[string]string{"block": block},
					Render: map[string]string{
						"division":    r.Get("division").String(),
						"section":     r.Get("section").String(),
						"block":       r.Get("block").String(),
						"volumeFolio": ref,
					},
				}
			},
		},
		catalog.ACTAddress: {
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
						"block":       actBlock(r),
					},
				}
			},
		},
	}
}

func cthMappers() map[catalog.SearchTypeID]Mapper {
	organisation := func(r gjson.Result) Entry {
		acn := r.Get("acn").String()
		name := r.Get("name").String()
		return Entry{
			Key:            acn + "|" + name,
			Description:    name,
			TitleReference: acn,
			Render: map[string]string{
				"acn":    acn,
				"name":   name,
				"type":   r.Get("type").String(),
				"status": mapStatus(r.Get("status").String()),
			},
		}
	}
	return map[catalog.SearchTypeID]Mapper{
		catalog.CTHACN:              {Path: "data.organisations", Build: organisation},
		catalog.CTHOrganisationName: {Path: "data.organisations", Chained: true, Build: organisation},
	}
}
