package netsim

import (
	"math/rand"
)

// ParticleConfig tunes a ParticleField.
type ParticleConfig struct {
	Width, Height float64
	Count         int
	LinkDistance  float64
	// Margin keeps particles off the exact canvas edge.
	Margin     float64
	SpeedScale float64
	// DrawLinks is false on small screens with many particles.
	DrawLinks bool
}

// ParticleProfile returns the desktop or mobile particle settings for a
// canvas of the given size. Mobile uses fewer, slower particles.
func ParticleProfile(mobile bool, width, height float64) ParticleConfig {
	cfg := ParticleConfig{
		Width:        width,
		Height:       height,
		Count:        80,
		LinkDistance: 150,
		Margin:       5,
		SpeedScale:   1,
	}
	if mobile {
		cfg.Count = 50
		cfg.LinkDistance = 100
		cfg.SpeedScale = 0.7
	}
	cfg.DrawLinks = !mobile || cfg.Count < 60
	return cfg
}

// Particle is a twinkling dot.
type Particle struct {
	Pos        Point
	Vel        Point
	Size       float64
	Opacity    float64
	OpacityDir float64
}

// Link joins two particles closer than LinkDistance. Opacity fades with distance.
type Link struct {
	From, To Point
	Opacity  float64
}

// ParticleField is the lighter particle background.
type ParticleField struct {
	cfg       ParticleConfig
	Particles []Particle
}

// NewParticleField scatters cfg.Count particles inside the margin.
func NewParticleField(cfg ParticleConfig, rng *rand.Rand) *ParticleField {
	w := cfg.Width - 2*cfg.Margin
	h := cfg.Height - 2*cfg.Margin
	f := &ParticleField{cfg: cfg, Particles: make([]Particle, 0, cfg.Count)}
	for i := 0; i < cfg.Count; i++ {
		dir := -0.005
		if rng.Float64() > 0.5 {
			dir = 0.005
		}
		f.Particles = append(f.Particles, Particle{
			Pos:        Point{cfg.Margin + rng.Float64()*w, cfg.Margin + rng.Float64()*h},
			Vel:        Point{(rng.Float64() - 0.5) * cfg.SpeedScale, (rng.Float64() - 0.5) * cfg.SpeedScale},
			Size:       rng.Float64()*3 + 1,
			Opacity:    rng.Float64()*0.5 + 0.1,
			OpacityDir: dir,
		})
	}
	return f
}

// Step moves every particle one frame, flips twinkle direction at the
// opacity bounds and bounces particles off the margin.
func (f *ParticleField) Step() {
	lo, hiX, hiY := f.cfg.Margin, f.cfg.Width-f.cfg.Margin, f.cfg.Height-f.cfg.Margin
	for i := range f.Particles {
		p := &f.Particles[i]
		p.Pos.X += p.Vel.X
		p.Pos.Y += p.Vel.Y

		p.Opacity += p.OpacityDir
		if p.Opacity > 0.6 || p.Opacity < 0.1 {
			p.OpacityDir = -p.OpacityDir
		}

		if p.Pos.X >= hiX {
			p.Pos.X = hiX
			p.Vel.X = -p.Vel.X
		} else if p.Pos.X <= lo {
			p.Pos.X = lo
			p.Vel.X = -p.Vel.X
		}
		if p.Pos.Y >= hiY {
			p.Pos.Y = hiY
			p.Vel.Y = -p.Vel.Y
		} else if p.Pos.Y <= lo {
			p.Pos.Y = lo
			p.Vel.Y = -p.Vel.Y
		}
	}
}

// Links returns the line segments drawn between nearby particles, or nil
// when links are disabled.
func (f *ParticleField) Links() []Link {
	if !f.cfg.DrawLinks {
		return nil
	}
	var links []Link
	for i := range f.Particles {
		for j := i + 1; j < len(f.Particles); j++ {
			a, b := f.Particles[i].Pos, f.Particles[j].Pos
			if d := a.Dist(b); d < f.cfg.LinkDistance {
				links = append(links, Link{From: a, To: b, Opacity: 0.3 * (1 - d/f.cfg.LinkDistance)})
			}
		}
	}
	return links
}
