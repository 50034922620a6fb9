package typist

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func TestRGBToYUVPrimaries(t *testing.T) {
	for _, tt := range []struct {
		name    string
		r, g, b float64
		y, u, v float64
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 1, 1, 1, 1, 0, 0},
		{"red", 1, 0, 0, 0.299, -0.169, 0.500},
		{"green", 0, 1, 0, 0.587, -0.331, -0.419},
		{"blue", 0, 0, 1, 0.114, 0.500, -0.081},
	} {
		t.Run(tt.name, func(t *testing.T) {
			y, u, v := RGBToYUV(tt.r, tt.g, tt.b)
			if math.Abs(y-tt.y) > floatTolerance {
				t.Errorf("Expected Y %v, got %v", tt.y, y)
			}
			if math.Abs(u-tt.u) > floatTolerance {
				t.Errorf("Expected U %v, got %v", tt.u, u)
			}
			if math.Abs(v-tt.v) > floatTolerance {
				t.Errorf("Expected V %v, got %v", tt.v, v)
			}
		})
	}
}

func TestLuminanceRange(t *testing.T) {
	if got := Luminance(0, 0, 0, 255); math.Abs(got) > floatTolerance {
		t.Errorf("Expected black luminance 0, got %v", got)
	}
	if got := Luminance(255, 255, 255, 255); math.Abs(got-1) > floatTolerance {
		t.Errorf("Expected white luminance 1, got %v", got)
	}

	gray := Luminance(128, 128, 128, 255)
	if gray <= 0.4 || gray >= 0.6 {
		t.Errorf("Expected mid gray near 0.5, got %v", gray)
	}
}

func TestLuminanceChannelWeights(t *testing.T) {
	red := Luminance(255, 0, 0, 255)
	green := Luminance(0, 255, 0, 255)
	blue := Luminance(0, 0, 255, 255)

	// BT.601 weighs green heaviest and blue lightest.
	if !(green > red && red > blue) {
		t.Errorf("Expected green > red > blue, got %v, %v, %v", green, red, blue)
	}
}

func TestLuminanceIgnoresAlpha(t *testing.T) {
	opaque := Luminance(90, 120, 40, 255)
	transparent := Luminance(90, 120, 40, 0)
	if opaque != transparent {
		t.Errorf("Expected alpha to be ignored: %v != %v", opaque, transparent)
	}
}
