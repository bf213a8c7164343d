package plot

import (
	"fmt"
	"strings"

	"github.com/showerpipe/showerpipe/internal/track"
)

// CanvasToSVG converts a Braille canvas to SVG, one dot per lit
// sub-pixel.
func CanvasToSVG(canvas *Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per cell
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per cell

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<g fill="#000000">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SideProfileSVG draws the track segments directly as thin translucent
// lines, which scales to far more traces than the dot canvas.
func SideProfileSVG(tracks []track.Track, width, height int, maxTraces int) string {
	if width <= 0 {
		width = 300
	}
	if height <= 0 {
		height = 800
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<g stroke="#000000" stroke-width="0.3" stroke-opacity="0.1">
`, width, height, width, height))

	if len(tracks) > 0 {
		n := len(tracks)
		if maxTraces > 0 && maxTraces < n {
			n = maxTraces
		}
		top := ShowerStartKm(tracks)
		xmin, xmax := xExtent(tracks[:n])

		for _, tr := range tracks[:n] {
			x1 := (tr.StartX/cmPerKm - xmin) / (xmax - xmin) * float64(width)
			y1 := (1 - tr.StartZ/cmPerKm/top) * float64(height)
			x2 := (tr.EndX/cmPerKm - xmin) / (xmax - xmin) * float64(width)
			y2 := (1 - tr.EndZ/cmPerKm/top) * float64(height)
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x1, y1, x2, y2))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// GroundMapSVG renders the photon histogram as a grayscale cell grid,
// white for empty through black at the colour scale cap.
func GroundMapSVG(h *Histogram2D, vmax float64, size int) string {
	if size <= 0 {
		size = 600
	}
	if vmax <= 0 {
		vmax = h.Vmax()
	}
	cell := float64(size) / float64(h.Bins)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, size, size, size, size))

	for iy := 0; iy < h.Bins; iy++ {
		for ix := 0; ix < h.Bins; ix++ {
			v := h.Counts[iy*h.Bins+ix] / vmax
			if v <= 0 {
				continue
			}
			if v > 1 {
				v = 1
			}
			gray := int(255 * (1 - v))
			// SVG y grows downward, histogram y upward.
			y := float64(h.Bins-1-iy) * cell
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02x%02x"/>
`, float64(ix)*cell, y, cell, cell, gray, gray, gray))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
