package config

// Presets are ready-made search jobs keyed by topology then name. They
// double as documentation for sensible range choices.
var Presets = map[string]map[string]*Config{
	"compression": {
		"valve": {
			Topology: "compression", Material: "chrome_silicon",
			Ranges: map[string]RangeConfig{
				"wire_diameter": {Min: 2, Max: 5},
				"mean_diameter": {Min: 15, Max: 30},
				"active_coils":  {Min: 4, Max: 10},
				"free_length":   {Min: 35, Max: 60},
			},
			Envelope: EnvelopeConfig{MaxOuterDiameter: 36, MaxLength: 60},
			Targets: []TargetConfig{
				{Input: 38, Mode: "height", Output: 220},
				{Input: 28, Mode: "height", Output: 480, Tolerance: 0.1},
			},
		},
		"bench": {
			Topology: "compression", Material: "music_wire",
			Ranges: map[string]RangeConfig{
				"wire_diameter": {Min: 1.5, Max: 2.5},
				"mean_diameter": {Min: 15, Max: 25},
				"active_coils":  {Min: 6, Max: 14},
				"free_length":   {Min: 40, Max: 60},
			},
			Targets: []TargetConfig{
				{Input: 10, Mode: "deflection", Output: 19.75},
			},
		},
	},
	"extension": {
		"trampoline": {
			Topology: "extension", Material: "oil_tempered",
			Ranges: map[string]RangeConfig{
				"wire_diameter": {Min: 2, Max: 4},
				"mean_diameter": {Min: 15, Max: 30},
				"active_coils":  {Min: 20, Max: 60},
				"free_length":   {Min: 80, Max: 180},
			},
			Targets: []TargetConfig{
				{Input: 40, Mode: "deflection", Output: 180},
			},
		},
	},
	"torsion": {
		"clip": {
			Topology: "torsion", Material: "stainless_302",
			Ranges: map[string]RangeConfig{
				"wire_diameter": {Min: 0.8, Max: 2},
				"mean_diameter": {Min: 6, Max: 16},
				"active_coils":  {Min: 3, Max: 10},
			},
			Targets: []TargetConfig{
				{Input: 60, Mode: "angle", Output: 120},
			},
		},
	},
	"disc": {
		"clamp": {
			Topology: "disc", Material: "chrome_silicon",
			Ranges: map[string]RangeConfig{
				"outer_diameter": {Min: 28, Max: 50},
				"inner_diameter": {Min: 12, Max: 22},
				"thickness":      {Min: 1.25, Max: 3},
				"cone_height":    {Min: 0.8, Max: 2},
			},
			Envelope: EnvelopeConfig{MaxOuterDiameter: 50, MinInnerDiameter: 12},
			Targets: []TargetConfig{
				{Input: 0.8, Mode: "deflection", Output: 4000, Tolerance: 0.2},
			},
		},
	},
	"wave": {
		"bearing_preload": {
			Topology: "wave", Material: "stainless_302",
			Ranges: map[string]RangeConfig{
				"mean_diameter":   {Min: 25, Max: 45},
				"strip_width":     {Min: 3, Max: 6},
				"strip_thickness": {Min: 0.25, Max: 0.6},
				"turns":           {Min: 2, Max: 8},
				"free_length":     {Min: 8, Max: 20},
			},
			Targets: []TargetConfig{
				{Input: 2, Mode: "deflection", Output: 60, Tolerance: 0.25},
			},
		},
	},
	"conical": {
		"battery_contact": {
			Topology: "conical", Material: "phosphor_bronze",
			Ranges: map[string]RangeConfig{
				"wire_diameter":  {Min: 0.4, Max: 0.9},
				"large_diameter": {Min: 6, Max: 12},
				"active_coils":   {Min: 3, Max: 7},
				"free_length":    {Min: 6, Max: 14},
			},
			Targets: []TargetConfig{
				{Input: 3, Mode: "deflection", Output: 2, Tolerance: 0.3},
			},
		},
	},
}

// GetPreset returns nil when either key is unknown. Callers get a copy
// merged over the defaults, so presets stay immutable.
func GetPreset(topology, preset string) *Config {
	group, ok := Presets[topology]
	if !ok {
		return nil
	}
	cfg, ok := group[preset]
	if !ok {
		return nil
	}
	merged := *DefaultConfig()
	merged.Topology = cfg.Topology
	merged.Material = cfg.Material
	merged.Ranges = cfg.Ranges
	merged.Envelope = cfg.Envelope
	merged.Targets = cfg.Targets
	if cfg.Search.MaxCandidates > 0 {
		merged.Search = cfg.Search
	}
	return &merged
}

func ListPresets(topology string) []string {
	group, ok := Presets[topology]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
