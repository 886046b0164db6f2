package imageutil

import (
	"errors"
	"testing"
)

func TestResize(t *testing.T) {
	src := CreateSolidImage(16, 8, Pixel{r: 200, g: 100, b: 50})

	for _, interp := range []Interpolation{InterpolationCatmullRom, InterpolationLinear, InterpolationNearest} {
		t.Run(interp.String(), func(t *testing.T) {
			dst, err := Resize(src, 5, 3, interp)
			if err != nil {
				t.Fatalf("Resize failed: %v", err)
			}
			if dst.Width() != 5 || dst.Height() != 3 {
				t.Errorf("Expected 5x3, got %dx%d", dst.Width(), dst.Height())
			}
			want := CreateSolidImage(5, 3, Pixel{r: 200, g: 100, b: 50})
			if diff := CalculateMaxDiff(dst, want); diff > 1 {
				t.Errorf("Expected a solid image to stay solid, max diff %d", diff)
			}
		})
	}
}

func TestResizeNearestKeepsValues(t *testing.T) {
	src := CreateCheckerboardImage(16, 16, 4)
	dst, err := Resize(src, 8, 8, InterpolationNearest)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			p := dst.at(y, x)
			if p.r != 0 && p.r != 255 {
				t.Fatalf("Expected only black and white at (%d,%d), got %v", y, x, p)
			}
		}
	}
}

func TestResizeErrors(t *testing.T) {
	src := CreateGradientImage(4, 4)
	if _, err := Resize(src, 0, 4, InterpolationLinear); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions, got %v", err)
	}
	if _, err := Resize(src, 1<<20, 1<<20, InterpolationLinear); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions for oversized target, got %v", err)
	}
	if _, err := Resize(newImage(0, 0), 4, 4, InterpolationLinear); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions for empty source, got %v", err)
	}
}

func TestResizeToWidth(t *testing.T) {
	dst, err := ResizeToWidth(CreateColorBarsImage(16, 8), 8, InterpolationCatmullRom)
	if err != nil {
		t.Fatalf("ResizeToWidth failed: %v", err)
	}
	if dst.Width() != 8 || dst.Height() != 4 {
		t.Errorf("Expected 8x4, got %dx%d", dst.Width(), dst.Height())
	}
}

func TestParseInterpolation(t *testing.T) {
	for _, name := range []string{"catmullrom", "Linear", "NEAREST"} {
		interp, err := ParseInterpolation(name)
		if err != nil {
			t.Errorf("ParseInterpolation(%q) failed: %v", name, err)
			continue
		}
		if got, _ := ParseInterpolation(interp.String()); got != interp {
			t.Errorf("Expected %v to round-trip, got %v", interp, got)
		}
	}
	if _, err := ParseInterpolation("bicubic"); err == nil {
		t.Error("Expected error for unknown interpolation")
	}
}
