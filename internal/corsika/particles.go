package corsika

import (
	"fmt"
	"sort"
	"strings"
)

// particleIDs maps primary particle names to CORSIKA particle codes.
// Nuclei use the A x 100 + Z convention.
var particleIDs = map[string]int{
	"gamma":      1,
	"electron":   2,
	"positron":   3,
	"muon":       5,
	"antimuon":   6,
	"proton":     14,
	"helium":     402,
	"lithium":    703,
	"beryllium":  904,
	"boron":      1105,
	"carbon":     1206,
	"nitrogen":   1407,
	"oxygen":     1608,
	"fluorine":   1909,
	"neon":       2010,
	"sodium":     2311,
	"magnesium":  2412,
	"aluminium":  2713,
	"silicon":    2814,
	"phosphorus": 3115,
	"sulfur":     3216,
	"chlorine":   3517,
	"argon":      3618,
	"potassium":  3919,
	"calcium":    4020,
	"scandium":   4321,
	"titanium":   4422,
	"vanadium":   4723,
	"chromium":   4824,
	"manganese":  5125,
	"iron":       5626,
}

// ParticleID resolves a primary particle name to its CORSIKA code.
// Names are matched case-insensitively with surrounding space ignored.
func ParticleID(name string) (int, error) {
	id, ok := particleIDs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParticle, name)
	}
	return id, nil
}

// ParticleName is the reverse lookup, used to label parsed tracks.
// Unknown codes come back as "id=<code>".
func ParticleName(id int) string {
	for name, code := range particleIDs {
		if code == id {
			return name
		}
	}
	return fmt.Sprintf("id=%d", id)
}

// Particles lists the supported primary particle names in sorted order.
func Particles() []string {
	names := make([]string, 0, len(particleIDs))
	for name := range particleIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
