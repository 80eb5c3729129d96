package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/swarmsim/internal/swarm"
)

// SVGOptions sizes the image and maps the domain onto it.
type SVGOptions struct {
	Width, Height    int
	DomainW, DomainH float64
	Targets          int
	Radius           float64
	// Trail, if set, is drawn as the hero's path under the agents.
	Trail []swarm.Vec2
}

// SnapshotToSVG draws every agent as a circle coloured by its phase. The hero
// and the first Targets agents after it are outlined.
func SnapshotToSVG(s swarm.Snapshot, opts SVGOptions) string {
	if opts.Radius == 0 {
		opts.Radius = 4
	}
	sx := float64(opts.Width) / opts.DomainW
	sy := float64(opts.Height) / opts.DomainH

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height))

	if len(opts.Trail) > 1 {
		sb.WriteString(trailPath(opts.Trail, opts.DomainW, opts.DomainH, sx, sy))
	}

	for i, p := range s.Positions {
		x := wrap(p.X, opts.DomainW) * sx
		y := wrap(p.Y, opts.DomainH) * sy
		fill := PhaseColor(s.Phases[i])

		switch {
		case i == swarm.Hero:
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="#ffffff" stroke-width="2"/>
`, x, y, opts.Radius*1.8, fill))
		case i <= opts.Targets:
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="#ffcc00" stroke-width="1.5"/>
`, x, y, opts.Radius*1.3, fill))
		default:
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, opts.Radius, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// trailPath starts a new subpath wherever the trail crosses a periodic edge.
func trailPath(trail []swarm.Vec2, dw, dh, sx, sy float64) string {
	var sb strings.Builder
	sb.WriteString(`<path fill="none" stroke="#666666" stroke-width="1" d="`)

	var px, py float64
	for i, p := range trail {
		x, y := wrap(p.X, dw), wrap(p.Y, dh)
		cmd := "L"
		if i == 0 || math.Abs(x-px) > dw/2 || math.Abs(y-py) > dh/2 {
			cmd = "M"
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, x*sx, y*sy))
		px, py = x, y
	}

	sb.WriteString(`"/>
`)
	return sb.String()
}

// PhaseColor maps a phase in radians to a fully saturated hue.
func PhaseColor(theta float64) string {
	h := wrap(theta, 2*math.Pi) / (2 * math.Pi) * 6
	x := 1 - math.Abs(math.Mod(h, 2)-1)

	var r, g, b float64
	switch int(h) {
	case 0:
		r, g = 1, x
	case 1:
		r, g = x, 1
	case 2:
		g, b = 1, x
	case 3:
		g, b = x, 1
	case 4:
		r, b = x, 1
	default:
		r, b = 1, x
	}
	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(r*255)), int(math.Round(g*255)), int(math.Round(b*255)))
}

func wrap(v, m float64) float64 {
	v = math.Mod(v, m)
	if v < 0 {
		v += m
	}
	return v
}
