package config

import "sort"

// Presets are starting points for common shower studies, keyed by
// primary particle and preset name.
var Presets = map[string]map[string]*Config{
	"gamma": {
		"low": {
			RunNumber: 1, Primary: "gamma", EnergyGeV: 100, ZenithDeg: 0, ObsLevelM: 0,
		},
		"tev": {
			RunNumber: 1, Primary: "gamma", EnergyGeV: 1000, ZenithDeg: 0, ObsLevelM: 2200,
		},
		"inclined": {
			RunNumber: 1, Primary: "gamma", EnergyGeV: 1000, ZenithDeg: 20, ObsLevelM: 2200,
		},
	},
	"proton": {
		"low": {
			RunNumber: 1, Primary: "proton", EnergyGeV: 100, ZenithDeg: 0, ObsLevelM: 0,
		},
		"tev": {
			RunNumber: 1, Primary: "proton", EnergyGeV: 1000, ZenithDeg: 0, ObsLevelM: 2200,
		},
		"inclined": {
			RunNumber: 1, Primary: "proton", EnergyGeV: 1000, ZenithDeg: 30, ObsLevelM: 2200,
		},
	},
	"iron": {
		"tev": {
			RunNumber: 1, Primary: "iron", EnergyGeV: 10000, ZenithDeg: 0, ObsLevelM: 0,
		},
	},
	"muon": {
		"vertical": {
			RunNumber: 1, Primary: "muon", EnergyGeV: 100, ZenithDeg: 0, ObsLevelM: 0,
		},
	},
}

func GetPreset(primary, preset string) *Config {
	primaryPresets, ok := Presets[primary]
	if !ok {
		return nil
	}
	cfg, ok := primaryPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(primary string) []string {
	primaryPresets, ok := Presets[primary]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(primaryPresets))
	for name := range primaryPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
