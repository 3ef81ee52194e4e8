package firework

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/fireworks/internal/particle"
	"github.com/san-kum/fireworks/internal/surface"
)

const (
	whiteHotMix     = 0.7
	strobeEnergyCap = 0.6
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// Render draws every live particle as a square centered on its position.
// Alpha is quantized into AlphaBuckets steps and the zero bucket is skipped.
func (s *System) Render(c surface.Canvas) {
	st := s.store
	cfg := &s.cfg
	buckets := float64(max(1, cfg.AlphaBuckets))

	for i := 0; i < st.Len(); i++ {
		energy := st.Energy(i)

		var size, alpha float64
		color := PaletteColor(st.Color[i])

		switch st.Kind[i] {
		case particle.Shell:
			size = cfg.ShellSize
			alpha = st.Brightness[i]
		case particle.Trail:
			size = cfg.TrailSize
			alpha = energy * st.Brightness[i]
		case particle.Flash:
			size = cfg.FlashSize * energy
			alpha = energy * st.Brightness[i] * cfg.FlashIntensity
		default:
			if st.Flags[i].Has(particle.Strobe) && energy < strobeEnergyCap {
				age := st.TTL[i] - st.Life[i]
				if math.Sin(2*math.Pi*st.StrobeHz[i]*age) < 0 {
					continue
				}
			}
			size = cfg.SizeMin + energy*(cfg.SizeMax-cfg.SizeMin)
			alpha = math.Pow(energy, cfg.DecayExponent) * st.Brightness[i]
			color = s.starColor(i, energy)
		}

		bucket := math.Min(buckets, math.Round(alpha*buckets))
		if bucket <= 0 || size <= 0 {
			continue
		}
		c.FillRect(st.X[i]-size/2, st.Y[i]-size/2, size, size, color, bucket/buckets)
	}
}

// starColor blends a Normal particle from its primary toward its secondary
// color as it ages, then toward white in the last WhiteHotFraction of life.
func (s *System) starColor(i int, energy float64) surface.RGB {
	st := s.store
	c := toColorful(PaletteColor(st.Color[i]))
	if st.Color2[i] != st.Color[i] {
		c = c.BlendRgb(toColorful(PaletteColor(st.Color2[i])), 1-energy)
	}
	if hot := s.cfg.WhiteHotFraction; st.Flags[i].Has(particle.WhiteHot) && hot > 0 && energy <= hot {
		c = c.BlendRgb(white, (1-energy/hot)*whiteHotMix)
	}
	r, g, b := c.Clamped().RGB255()
	return surface.RGB{R: r, G: g, B: b}
}

func toColorful(c surface.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
