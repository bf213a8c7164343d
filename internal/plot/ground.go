package plot

import (
	"math"
	"sort"

	"github.com/showerpipe/showerpipe/internal/cherenkov"
)

// containmentFraction controls the default colour scale cap: the cell
// intensity below which almost every histogram cell falls. Clipping
// there keeps the dense shower core from washing out the faint halo.
const containmentFraction = 0.999999

// Histogram2D is a square 2D photon impact histogram in kilometre
// ground coordinates.
type Histogram2D struct {
	Bins       int
	Counts     []float64 // row-major, Bins*Bins
	XMin, XMax float64
	YMin, YMax float64
}

// GroundHistogram bins photon impact points on the ground plane.
func GroundHistogram(photons []cherenkov.Photon, bins int) *Histogram2D {
	if bins <= 0 {
		bins = 100
	}
	h := &Histogram2D{
		Bins:   bins,
		Counts: make([]float64, bins*bins),
	}
	if len(photons) == 0 {
		h.XMax, h.YMax = 1, 1
		return h
	}

	h.XMin, h.XMax = photons[0].XCm/cmPerKm, photons[0].XCm/cmPerKm
	h.YMin, h.YMax = photons[0].YCm/cmPerKm, photons[0].YCm/cmPerKm
	for _, p := range photons {
		x, y := p.XCm/cmPerKm, p.YCm/cmPerKm
		h.XMin = math.Min(h.XMin, x)
		h.XMax = math.Max(h.XMax, x)
		h.YMin = math.Min(h.YMin, y)
		h.YMax = math.Max(h.YMax, y)
	}
	if h.XMax == h.XMin {
		h.XMax = h.XMin + 1
	}
	if h.YMax == h.YMin {
		h.YMax = h.YMin + 1
	}

	for _, p := range photons {
		ix := binIndex(p.XCm/cmPerKm, h.XMin, h.XMax, bins)
		iy := binIndex(p.YCm/cmPerKm, h.YMin, h.YMax, bins)
		h.Counts[iy*bins+ix]++
	}
	return h
}

func binIndex(v, min, max float64, bins int) int {
	i := int((v - min) / (max - min) * float64(bins))
	if i < 0 {
		i = 0
	}
	if i >= bins {
		i = bins - 1
	}
	return i
}

// Vmax picks the colour scale cap as the cell intensity containing
// the configured fraction of all cells. Without the cap a handful of
// core cells dominate the scale.
func (h *Histogram2D) Vmax() float64 {
	values := make([]float64, len(h.Counts))
	copy(values, h.Counts)
	sort.Float64s(values)

	idx := int(containmentFraction * float64(len(values)-1))
	if idx >= len(values) {
		idx = len(values) - 1
	}
	v := values[idx]
	if v <= 0 {
		v = 1
	}
	return v
}

// groundShades orders characters by increasing photon density.
var groundShades = []rune(" .:-=+*#%@")

// GroundMap renders the histogram as shaded character rows for the
// terminal, capped at vmax (pass 0 for the containment default).
func GroundMap(h *Histogram2D, vmax float64) string {
	if vmax <= 0 {
		vmax = h.Vmax()
	}

	rows := make([]rune, 0, h.Bins*(h.Bins+1))
	// Highest y bin first so north is up.
	for iy := h.Bins - 1; iy >= 0; iy-- {
		for ix := 0; ix < h.Bins; ix++ {
			v := h.Counts[iy*h.Bins+ix] / vmax
			if v > 1 {
				v = 1
			}
			shade := int(v * float64(len(groundShades)-1))
			rows = append(rows, groundShades[shade])
		}
		rows = append(rows, '\n')
	}
	return string(rows)
}
