package normalize

import "github.com/turtacn/titleorder/internal/domain/catalog"

// mapperSets lists the mappers of every jurisdiction.
var mapperSets = map[catalog.Jurisdiction]func() map[catalog.SearchTypeID]Mapper{
	catalog.JurisdictionNSW: nswMappers,
	catalog.JurisdictionVIC: vicMappers,
	catalog.JurisdictionQLD: qldMappers,
	catalog.JurisdictionSA:  saMappers,
	catalog.JurisdictionWA:  waMappers,
	catalog.JurisdictionTAS: tasMappers,
	catalog.JurisdictionNT:  ntMappers,
	catalog.JurisdictionACT: actMappers,
	catalog.JurisdictionCTH: cthMappers,
}

func builtinRegistry() map[Key]Mapper {
	registry := make(map[Key]Mapper)
	for j, set := range mapperSets {
		for id, m := range set() {
			registry[Key{Jurisdiction: j, SearchType: id}] = m
		}
	}
	return registry
}
