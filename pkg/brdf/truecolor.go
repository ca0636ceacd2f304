package brdf

// TrueColorGain is the brightness gain applied by TrueColor.
const TrueColorGain = 2.5

// RGB is a display triple built from normalized red, green and blue bands.
type RGB struct {
	R, G, B float64
}

// TrueColor normalizes the B04/B03/B02 reflectances of one pixel and scales
// them by gain for display. A non-positive gain selects TrueColorGain. There
// is no no-data handling; callers pass only valid pixels.
func (n *Normalizer) TrueColor(red, green, blue float64, g Geometry, gain float64) (RGB, error) {
	if gain <= 0 {
		gain = TrueColorGain
	}
	r, err := n.NBAR(red, B04, g)
	if err != nil {
		return RGB{}, err
	}
	gr, err := n.NBAR(green, B03, g)
	if err != nil {
		return RGB{}, err
	}
	b, err := n.NBAR(blue, B02, g)
	if err != nil {
		return RGB{}, err
	}
	return RGB{R: gain * r, G: gain * gr, B: gain * b}, nil
}
