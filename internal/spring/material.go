package spring

// Material holds the elastic properties shared by every calculation in a
// run. Values are in MPa. Immutable by convention: pass by value.
type Material struct {
	Name             string
	G                float64 // shear modulus
	E                float64 // elastic modulus
	Nu               float64 // Poisson's ratio
	AllowableShear   float64 // torsional springs
	AllowableBending float64 // bending-stressed springs (torsion, spiral, disc)
}

// Allowable selects the allowable stress matching a topology's stress mode.
func (m Material) Allowable(t Topology) float64 {
	switch t {
	case Torsion, Spiral, Disc, Wave:
		return m.AllowableBending
	default:
		return m.AllowableShear
	}
}

// MusicWire is the default material for examples and tests (EN 10270-1 SH).
func MusicWire() Material {
	return Material{
		Name:             "music wire",
		G:                79000,
		E:                206000,
		Nu:               0.3,
		AllowableShear:   750,
		AllowableBending: 1000,
	}
}
