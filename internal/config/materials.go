package config

import (
	"sort"

	"github.com/coilworks/springlab/internal/spring"
)

// catalog holds the stock spring materials. Moduli and allowables in MPa,
// allowables at roughly 2 mm wire before any fatigue derating.
var catalog = map[string]spring.Material{
	"music_wire": spring.MusicWire(),
	"oil_tempered": {
		Name: "oil_tempered", G: 77200, E: 200000, Nu: 0.3,
		AllowableShear: 700, AllowableBending: 900,
	},
	"chrome_silicon": {
		Name: "chrome_silicon", G: 77200, E: 203000, Nu: 0.3,
		AllowableShear: 850, AllowableBending: 1100,
	},
	"stainless_302": {
		Name: "stainless_302", G: 69000, E: 193000, Nu: 0.3,
		AllowableShear: 600, AllowableBending: 830,
	},
	"phosphor_bronze": {
		Name: "phosphor_bronze", G: 41400, E: 103000, Nu: 0.35,
		AllowableShear: 420, AllowableBending: 580,
	},
}

// MaterialByName looks a material up in the catalog.
func MaterialByName(name string) (spring.Material, bool) {
	m, ok := catalog[name]
	return m, ok
}

// MaterialNames returns the catalog keys sorted.
func MaterialNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
