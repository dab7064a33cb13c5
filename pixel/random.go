package pixel

import "math/rand"

// RandomOption fixes one HSL component of a random color.
type RandomOption func(*randomSpec)

type randomSpec struct {
	hue, saturation, lightness          float64
	hasHue, hasSaturation, hasLightness bool
}

// WithHue fixes the hue of a random color, zero included.
func WithHue(hue float64) RandomOption {
	return func(s *randomSpec) {
		s.hue, s.hasHue = hue, true
	}
}

// WithSaturation fixes the saturation of a random color, zero included.
func WithSaturation(saturation float64) RandomOption {
	return func(s *randomSpec) {
		s.saturation, s.hasSaturation = saturation, true
	}
}

// WithLightness fixes the lightness of a random color, zero included.
func WithLightness(lightness float64) RandomOption {
	return func(s *randomSpec) {
		s.lightness, s.hasLightness = lightness, true
	}
}

// RandomColor returns a color with every component that is not fixed by an option drawn
// uniformly from whole numbers: hue from [1,360), saturation and lightness from [1,100].
//
// If rng is nil the package level source of math/rand is used.
func RandomColor(rng *rand.Rand, opts ...RandomOption) Color {
	var spec randomSpec
	for _, opt := range opts {
		opt(&spec)
	}

	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}
	if !spec.hasHue {
		spec.hue = float64(intn(359) + 1)
	}
	if !spec.hasSaturation {
		spec.saturation = float64(intn(100) + 1)
	}
	if !spec.hasLightness {
		spec.lightness = float64(intn(100) + 1)
	}
	return FromHSL(spec.hue, spec.saturation, spec.lightness)
}
