package plot

import (
	"github.com/showerpipe/showerpipe/internal/track"
)

// cmPerKm converts CORSIKA centimetre coordinates to kilometres.
const cmPerKm = 1e5

// atmosphereTopKm bounds the altitude histograms; nothing relevant to
// a shower profile happens above it.
const atmosphereTopKm = 40

// showerStartThreshold is the particle count per altitude bin above
// which the cascade counts as developed.
const showerStartThreshold = 10

// ShowerStartKm estimates the altitude (km) at which the cascade
// starts developing: one bin above the highest 1 km altitude bin whose
// track-start count exceeds the threshold. Falls back to the highest
// track start when the shower never passes the threshold.
func ShowerStartKm(tracks []track.Track) float64 {
	counts := altitudeCounts(tracks)

	for alt := atmosphereTopKm - 1; alt >= 0; alt-- {
		if counts[alt] > showerStartThreshold {
			return float64(alt + 2)
		}
	}

	maxZ := 0.0
	for _, tr := range tracks {
		if z := tr.StartZ / cmPerKm; z > maxZ {
			maxZ = z
		}
	}
	return maxZ + 1
}

// LongitudinalProfile counts track starts per 1 km altitude bin,
// ordered from ground to the top of the histogram range.
func LongitudinalProfile(tracks []track.Track) []float64 {
	counts := altitudeCounts(tracks)
	profile := make([]float64, atmosphereTopKm)
	for i, c := range counts {
		profile[i] = float64(c)
	}
	return profile
}

func altitudeCounts(tracks []track.Track) [atmosphereTopKm]int {
	var counts [atmosphereTopKm]int
	for _, tr := range tracks {
		bin := int(tr.StartZ / cmPerKm)
		if bin >= 0 && bin < atmosphereTopKm {
			counts[bin]++
		}
	}
	return counts
}

// SideProfileOptions bound the rendering. Zero values mean all tracks
// and the default canvas size.
type SideProfileOptions struct {
	MaxTraces int
	Width     int // character cells
	Height    int
}

// SideProfile draws track segments projected on the x-z plane (km) up
// to the shower start altitude, the terminal counterpart of the SVG
// rendering in [SideProfileSVG].
func SideProfile(tracks []track.Track, opts SideProfileOptions) *Canvas {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 40
	}
	if height <= 0 {
		height = 30
	}

	canvas := NewCanvas(width, height)
	if len(tracks) == 0 {
		return canvas
	}

	n := len(tracks)
	if opts.MaxTraces > 0 && opts.MaxTraces < n {
		n = opts.MaxTraces
	}

	top := ShowerStartKm(tracks)
	xmin, xmax := xExtent(tracks[:n])

	vp := NewViewport(canvas, xmin, xmax, 0, top)
	for _, tr := range tracks[:n] {
		vp.Segment(
			tr.StartX/cmPerKm, tr.StartZ/cmPerKm,
			tr.EndX/cmPerKm, tr.EndZ/cmPerKm,
		)
	}
	return canvas
}

func xExtent(tracks []track.Track) (float64, float64) {
	xmin := tracks[0].StartX / cmPerKm
	xmax := xmin
	for _, tr := range tracks {
		for _, x := range []float64{tr.StartX / cmPerKm, tr.EndX / cmPerKm} {
			if x < xmin {
				xmin = x
			}
			if x > xmax {
				xmax = x
			}
		}
	}
	if xmin == xmax {
		xmin, xmax = xmin-1, xmax+1
	}
	return xmin, xmax
}
