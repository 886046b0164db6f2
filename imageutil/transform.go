package imageutil

import (
	"fmt"
	"math"
	"strings"
)

// clamp saturates v into [0, 255].
func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}

// roundHalfUp rounds to the nearest integer with ties going up, so -2.5
// becomes -2 and 2.5 becomes 3.
func roundHalfUp(v float64) int {
	f := math.Floor(v)
	if v-f >= 0.5 {
		f++
	}
	return int(f)
}

// clampRound rounds a fractional channel value and saturates it.
func clampRound(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	if v <= -1 {
		return 0
	}
	if v >= MaxValue {
		return MaxValue
	}
	return uint8(clamp(roundHalfUp(v)))
}

// mapPixels builds a new image of the same size by applying fn to every
// source pixel.
func mapPixels(img *Image, fn func(Pixel) Pixel) *Image {
	width, height := img.Width(), img.Height()
	dst := newImage(width, height)

	forEachRow(height, func(y int) {
		for x := 0; x < width; x++ {
			dst.set(y, x, fn(img.at(y, x)))
		}
	})

	return dst
}

func grey(v int) Pixel {
	c := uint8(clamp(v))
	return Pixel{r: c, g: c, b: c}
}

// Brighten adds delta to every channel, saturating at 0 and 255. A
// negative delta darkens.
func Brighten(img *Image, delta int) *Image {
	return mapPixels(img, func(p Pixel) Pixel {
		return Pixel{
			r: uint8(clamp(int(p.r) + delta)),
			g: uint8(clamp(int(p.g) + delta)),
			b: uint8(clamp(int(p.b) + delta)),
		}
	})
}

// Component selects how Greyscale derives a single value from a pixel.
type Component int

const (
	// ComponentRed replicates the red channel.
	ComponentRed Component = iota
	// ComponentGreen replicates the green channel.
	ComponentGreen
	// ComponentBlue replicates the blue channel.
	ComponentBlue
	// ComponentValue takes the largest channel.
	ComponentValue
	// ComponentIntensity takes the truncated channel average.
	ComponentIntensity
	// ComponentLuma takes the Rec. 709 weighted sum.
	ComponentLuma
)

var componentNames = []string{"red", "green", "blue", "value", "intensity", "luma"}

func (c Component) String() string {
	if c < 0 || int(c) >= len(componentNames) {
		return fmt.Sprintf("Component(%d)", int(c))
	}
	return componentNames[c]
}

// ParseComponent resolves a component by name, ignoring case.
func ParseComponent(name string) (Component, error) {
	name = strings.ToLower(name)
	for i, n := range componentNames {
		if n == name {
			return Component(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
}

func (c Component) pixelFunc() (func(Pixel) Pixel, error) {
	switch c {
	case ComponentRed:
		return func(p Pixel) Pixel { return grey(int(p.r)) }, nil
	case ComponentGreen:
		return func(p Pixel) Pixel { return grey(int(p.g)) }, nil
	case ComponentBlue:
		return func(p Pixel) Pixel { return grey(int(p.b)) }, nil
	case ComponentValue:
		return valuePixel, nil
	case ComponentIntensity:
		return intensityPixel, nil
	case ComponentLuma:
		return lumaPixel, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownComponent, c)
	}
}

func valuePixel(p Pixel) Pixel {
	return grey(max(clamp(int(p.r)), clamp(int(p.g)), clamp(int(p.b))))
}

// intensityPixel averages with integer division, truncating before any
// rounding step.
func intensityPixel(p Pixel) Pixel {
	sum := clamp(int(p.r)) + clamp(int(p.g)) + clamp(int(p.b))
	return grey(sum / 3)
}

func lumaPixel(p Pixel) Pixel {
	r := float64(float64(p.r) * 0.2126)
	g := float64(float64(p.g) * 0.7152)
	b := float64(float64(p.b) * 0.0722)
	return grey(int(clampRound(r + g + b)))
}

// Greyscale replaces every pixel with a grey derived from the given
// component.
func Greyscale(img *Image, c Component) (*Image, error) {
	fn, err := c.pixelFunc()
	if err != nil {
		return nil, err
	}
	return mapPixels(img, fn), nil
}
