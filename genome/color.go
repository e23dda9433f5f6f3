package genome

// Color is a normalized RGB triple, each channel in [0,1].
type Color struct {
	R, G, B float32
}

// ColorFromFingerprint reads bits 16-23, 8-15 and 0-7 of the fingerprint as
// the red, green and blue channels.
func ColorFromFingerprint(fp int) Color {
	return Color{
		R: float32((fp>>16)&0xff) / 255.0,
		G: float32((fp>>8)&0xff) / 255.0,
		B: float32(fp&0xff) / 255.0,
	}
}

// RGBA8 converts the color to 8-bit channels with full alpha.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return uint8(c.R*255 + 0.5), uint8(c.G*255 + 0.5), uint8(c.B*255 + 0.5), 255
}
