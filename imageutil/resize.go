package imageutil

import (
	"fmt"

	"github.com/nfnt/resize"
)

// Interpolation specifies the resampling filter used when scaling.
type Interpolation int

const (
	// InterpolationTriangle is the bilinear triangle filter, a good
	// default for the moderate downscales the cell grid needs.
	InterpolationTriangle Interpolation = iota

	// InterpolationNearest uses nearest-neighbor sampling.
	// Fastest but lowest quality.
	InterpolationNearest

	// InterpolationBicubic uses bicubic interpolation.
	InterpolationBicubic

	// InterpolationLanczos uses a Lanczos kernel with radius 3.
	InterpolationLanczos
)

// ParseInterpolation maps a filter name to its Interpolation value.
func ParseInterpolation(name string) (Interpolation, error) {
	switch name {
	case "triangle":
		return InterpolationTriangle, nil
	case "nearest":
		return InterpolationNearest, nil
	case "bicubic":
		return InterpolationBicubic, nil
	case "lanczos":
		return InterpolationLanczos, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q", name)
}

// String returns the name ParseInterpolation accepts for the filter.
func (interp Interpolation) String() string {
	switch interp {
	case InterpolationTriangle:
		return "triangle"
	case InterpolationNearest:
		return "nearest"
	case InterpolationBicubic:
		return "bicubic"
	case InterpolationLanczos:
		return "lanczos"
	}
	return fmt.Sprintf("Interpolation(%d)", int(interp))
}

// Resize scales an RGBA image to exactly the specified dimensions using
// the given filter.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	var fn resize.InterpolationFunction
	switch interp {
	case InterpolationTriangle:
		fn = resize.Bilinear
	case InterpolationNearest:
		fn = resize.NearestNeighbor
	case InterpolationBicubic:
		fn = resize.Bicubic
	case InterpolationLanczos:
		fn = resize.Lanczos3
	default:
		fn = resize.Bilinear
	}

	out := resize.Resize(uint(width), uint(height), img.RGBA, fn)
	return RGBAImageFromImage(out)
}
