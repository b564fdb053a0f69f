package netsim

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

const (
	backgroundTop    = "#0F172A"
	backgroundBottom = "#1E293B"
	trailLength      = 5
)

// SVGOptions selects the optional layers of a snapshot.
type SVGOptions struct {
	// Stars is the number of faint background specks.
	Stars int
	// Particles, when set, is drawn beneath the agent network.
	Particles *ParticleField
}

// WriteSVG renders the current frame as a standalone SVG document.
func (n *Network) WriteSVG(w io.Writer, opts SVGOptions) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format, args...)
	}
	width, height := n.cfg.Width, n.cfg.Height

	p(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" preserveAspectRatio="xMidYMid slice">`+"\n",
		num(width), num(height), num(width), num(height))
	p(`<defs><linearGradient id="bg" x1="0" y1="0" x2="0" y2="1">`+
		`<stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/></linearGradient></defs>`+"\n",
		backgroundTop, backgroundBottom)
	p(`<rect width="100%%" height="100%%" fill="url(#bg)"/>` + "\n")

	p(`<g id="stars">`)
	for i := 0; i < opts.Stars; i++ {
		p(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`,
			num(n.rng.Float64()*width), num(n.rng.Float64()*height), num(n.rng.Float64()),
			RGBA{255, 255, 255, round(n.rng.Float64() * 0.2)})
	}
	p("</g>\n")

	if f := opts.Particles; f != nil {
		p(`<g id="particles">`)
		for _, l := range f.Links() {
			p(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`,
				num(l.From.X), num(l.From.Y), num(l.To.X), num(l.To.Y), RGBA{255, 255, 255, round(l.Opacity)})
		}
		for _, pt := range f.Particles {
			p(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`,
				num(pt.Pos.X), num(pt.Pos.Y), num(pt.Size), RGBA{255, 255, 255, round(pt.Opacity)})
		}
		p("</g>\n")
	}

	p(`<g id="connections">`)
	index := make(map[*Agent]int, len(n.Agents))
	for i, a := range n.Agents {
		index[a] = i
	}
	for i, a := range n.Agents {
		for _, b := range a.Connections {
			if index[b] <= i {
				continue
			}
			d := a.Pos.Dist(b.Pos)
			if d >= n.cfg.ConnectionDistance {
				continue
			}
			p(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`,
				num(a.Pos.X), num(a.Pos.Y), num(b.Pos.X), num(b.Pos.Y),
				a.Color.WithAlpha(0.2), num(0.5*(1-d/n.cfg.ConnectionDistance)))
		}
	}
	p("</g>\n")

	p(`<g id="agents">`)
	for _, a := range n.Agents {
		if a.Type == Primary || a.Type == Secondary {
			p(`<polygon points="`)
			dataRadius := a.Radius * 2
			for i, dp := range a.DataPoints {
				if i > 0 {
					p(" ")
				}
				p("%s,%s", num(a.Pos.X+math.Cos(dp.Angle)*dataRadius*dp.Height), num(a.Pos.Y+math.Sin(dp.Angle)*dataRadius*dp.Height))
			}
			p(`" fill="%s"/>`, a.Color.WithAlpha(0.2))
		}
		p(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, num(a.Pos.X), num(a.Pos.Y), num(a.Radius), a.Color.WithAlpha(round(a.Color.A)))
		if a.Pulsing && a.PulseRadius > 0 {
			p(`<circle cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="1"/>`,
				num(a.Pos.X), num(a.Pos.Y), num(a.PulseRadius), a.Color.WithAlpha(0.3))
		}
	}
	p("</g>\n")

	p(`<g id="messages">`)
	for _, m := range n.Messages {
		p(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, num(m.Pos.X), num(m.Pos.Y), num(m.Size), m.Color)
		current := int(math.Floor(m.Progress))
		for i := 1; i <= trailLength; i++ {
			idx := max(0, current-i)
			if idx >= len(m.Path) {
				continue
			}
			fade := 1 - float64(i)/trailLength
			if fade <= 0 {
				continue
			}
			p(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`,
				num(m.Path[idx].X), num(m.Path[idx].Y), num(m.Size*fade), m.Color.WithAlpha(round(0.7*fade)))
		}
	}
	p("</g>\n</svg>\n")

	return bw.Flush()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
