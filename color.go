package typist

// RGBToYUV converts normalized RGB components in [0, 1] to the YUV color
// space using the BT.601 coefficients. The function returns the luma
// channel Y in [0, 1] and the two chroma channels U and V centered on
// zero.
func RGBToYUV(r, g, b float64) (y, u, v float64) {
	y = 0.299*r + 0.587*g + 0.114*b
	u = -0.169*r - 0.331*g + 0.500*b
	v = 0.500*r - 0.419*g - 0.081*b
	return y, u, v
}

// Luminance returns the BT.601 luma of an 8-bit RGBA sample as a value in
// [0, 1]. The alpha channel does not contribute.
func Luminance(r, g, b, a uint8) float64 {
	y, _, _ := RGBToYUV(float64(r)/255.0, float64(g)/255.0, float64(b)/255.0)
	return y
}
