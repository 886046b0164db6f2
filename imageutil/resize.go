package imageutil

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationCatmullRom gives the highest quality for both up and
	// down scaling.
	InterpolationCatmullRom Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

var interpolationNames = [...]string{
	InterpolationCatmullRom: "catmullrom",
	InterpolationLinear:     "linear",
	InterpolationNearest:    "nearest",
}

func (i Interpolation) String() string {
	if i < 0 || int(i) >= len(interpolationNames) {
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
	return interpolationNames[i]
}

// ParseInterpolation maps a method name to its Interpolation.
func ParseInterpolation(name string) (Interpolation, error) {
	for i, n := range interpolationNames {
		if strings.EqualFold(name, n) {
			return Interpolation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation %q", name)
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize scales an image to width x height. Both dimensions must be
// positive.
func Resize(img *Image, width, height int, interp Interpolation) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: cannot resize to %dx%d", ErrInvalidDimensions, width, height)
	}
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if img.Width() == 0 || img.Height() == 0 {
		return nil, fmt.Errorf("%w: cannot resize an empty image", ErrInvalidDimensions)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp.scaler().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return ImageFromStd(dst), nil
}

// ResizeToWidth resizes an image to the specified width while maintaining
// aspect ratio.
func ResizeToWidth(img *Image, width int, interp Interpolation) (*Image, error) {
	if img.Width() == 0 {
		return nil, fmt.Errorf("%w: cannot resize an empty image", ErrInvalidDimensions)
	}
	aspectRatio := float64(img.Width()) / float64(img.Height())
	height := max(int(math.Round(float64(width)/aspectRatio)), 1)
	return Resize(img, width, height, interp)
}
