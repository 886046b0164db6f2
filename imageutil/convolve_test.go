package imageutil

import (
	"errors"
	"testing"
)

// sampleImage is the 2x2 fixture shared by the transform tests.
func sampleImage(t *testing.T) *Image {
	t.Helper()
	return imageFromRows(t, [][][3]int{
		{{185, 137, 58}, {146, 188, 219}},
		{{187, 137, 219}, {185, 137, 58}},
	})
}

func imageFromRows(t *testing.T, rows [][][3]int) *Image {
	t.Helper()
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	img, err := NewImage(width, len(rows))
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	for row, cells := range rows {
		for col, c := range cells {
			if err := img.SetPixel(row, col, c[0], c[1], c[2]); err != nil {
				t.Fatalf("SetPixel(%d, %d) failed: %v", row, col, err)
			}
		}
	}
	return img
}

func assertPixels(t *testing.T, img *Image, want [][][3]int) {
	t.Helper()
	if img.Height() != len(want) || img.Width() != len(want[0]) {
		t.Fatalf("Expected %dx%d image, got %dx%d",
			len(want[0]), len(want), img.Width(), img.Height())
	}
	for row, cells := range want {
		for col, c := range cells {
			p, _ := img.Pixel(row, col)
			if p.R() != c[0] || p.G() != c[1] || p.B() != c[2] {
				t.Errorf("At (%d,%d): expected %v, got %v", row, col, c, p)
			}
		}
	}
}

func TestNewKernel(t *testing.T) {
	k, err := NewKernel([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	if err != nil {
		t.Fatalf("NewKernel failed: %v", err)
	}
	if k.Size() != 3 {
		t.Errorf("Expected size 3, got %d", k.Size())
	}
	if v, _ := k.At(1, 2); v != 6 {
		t.Errorf("Expected 6 at (1,2), got %v", v)
	}
	if _, err := k.At(3, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("At(3, 0): expected ErrOutOfBounds, got %v", err)
	}
	if _, err := k.At(0, -1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("At(0, -1): expected ErrOutOfBounds, got %v", err)
	}
}

func TestNewKernelInvalid(t *testing.T) {
	tests := []struct {
		name   string
		values [][]float64
	}{
		{"empty", nil},
		{"1x1", [][]float64{{1}}},
		{"even", [][]float64{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}}},
		{"short row", [][]float64{{1, 1, 1}, {1, 1}, {1, 1, 1}}},
		{"long row", [][]float64{{1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewKernel(tt.values); !errors.Is(err, ErrInvalidKernelSize) {
				t.Errorf("Expected ErrInvalidKernelSize, got %v", err)
			}
		})
	}
}

func TestNewZeroKernel(t *testing.T) {
	for _, size := range []int{-3, 0, 1, 2, 4, 6} {
		if _, err := NewZeroKernel(size); !errors.Is(err, ErrInvalidKernelSize) {
			t.Errorf("NewZeroKernel(%d): expected ErrInvalidKernelSize, got %v", size, err)
		}
	}

	k, err := NewZeroKernel(5)
	if err != nil {
		t.Fatalf("NewZeroKernel(5) failed: %v", err)
	}
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			if v, _ := k.At(row, col); v != 0 {
				t.Errorf("Expected 0 at (%d,%d), got %v", row, col, v)
			}
		}
	}

	if err := k.Set(2, 2, 1.5); err != nil {
		t.Errorf("Set failed: %v", err)
	}
	if v, _ := k.At(2, 2); v != 1.5 {
		t.Errorf("Expected 1.5, got %v", v)
	}
	if err := k.Set(5, 0, 9); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Set(5, 0): expected ErrOutOfBounds, got %v", err)
	}
	if v, _ := k.At(2, 2); v != 1.5 {
		t.Errorf("Failed Set changed the kernel: %v", v)
	}
}

func TestFixedKernels(t *testing.T) {
	g := GaussianKernel3x3()
	sum := 0.0
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			v, _ := g.At(row, col)
			sum += v
		}
	}
	if sum != 1 {
		t.Errorf("Gaussian kernel should sum to 1, got %v", sum)
	}

	s := SharpenKernel5x5()
	if s.Size() != 5 {
		t.Fatalf("Expected 5x5 sharpen kernel, got %d", s.Size())
	}
	checks := []struct {
		row, col int
		want     float64
	}{
		{0, 0, -0.125}, {0, 2, -0.125}, {1, 1, 0.25}, {1, 4, -0.125},
		{2, 2, 1.0}, {2, 1, 0.25}, {3, 3, 0.25}, {4, 4, -0.125},
	}
	for _, c := range checks {
		if v, _ := s.At(c.row, c.col); v != c.want {
			t.Errorf("Sharpen kernel (%d,%d): expected %v, got %v", c.row, c.col, c.want, v)
		}
	}
}

func TestConvolveIdentity(t *testing.T) {
	img := CreateNoiseImage(10, 7, 42)

	identity, _ := NewKernel([][]float64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	result := Convolve(img, identity)

	// Zero padding means the identity holds everywhere, borders included
	if !result.Equal(img) {
		t.Errorf("Identity kernel should preserve every pixel, max diff %d",
			CalculateMaxDiff(img, result))
	}
}

func TestGaussianBlurBorder(t *testing.T) {
	img := sampleImage(t)
	before := ImageFromStd(img)

	blurred := GaussianBlur(img)
	assertPixels(t, blurred, [][][3]int{
		{{99, 83, 73}, {94, 90, 83}},
		{{102, 80, 83}, {99, 83, 73}},
	})
	if !img.Equal(before) {
		t.Error("GaussianBlur modified its input")
	}
}

func TestGaussianBlur3x3(t *testing.T) {
	img := imageFromRows(t, [][][3]int{
		{{10, 20, 30}, {40, 50, 60}, {70, 80, 90}},
		{{100, 110, 120}, {130, 140, 150}, {160, 170, 180}},
		{{190, 200, 210}, {220, 230, 240}, {250, 255, 0}},
	})
	assertPixels(t, GaussianBlur(img), [][][3]int{
		{{28, 34, 39}, {53, 60, 68}, {51, 56, 62}},
		{{83, 90, 98}, {130, 140, 133}, {113, 119, 94}},
		{{96, 101, 107}, {143, 149, 124}, {118, 123, 62}},
	})
}

func TestSharpen(t *testing.T) {
	img := sampleImage(t)
	assertPixels(t, Sharpen(img), [][][3]int{
		{{255, 253, 182}, {255, 255, 255}},
		{{255, 253, 255}, {255, 253, 182}},
	})

	img = imageFromRows(t, [][][3]int{
		{{10, 20, 30}, {40, 50, 60}, {70, 80, 90}},
		{{100, 110, 120}, {130, 140, 150}, {160, 170, 180}},
		{{190, 200, 210}, {220, 230, 240}, {250, 255, 0}},
	})
	assertPixels(t, Sharpen(img), [][][3]int{
		{{0, 0, 23}, {75, 94, 146}, {56, 68, 113}},
		{{188, 207, 255}, {255, 255, 255}, {255, 255, 255}},
		{{236, 248, 255}, {255, 255, 255}, {255, 255, 79}},
	})
}

func TestConvolveEmptyImage(t *testing.T) {
	img, _ := NewImage(0, 0)
	out := GaussianBlur(img)
	if out.Width() != 0 || out.Height() != 0 {
		t.Errorf("Expected 0x0 output, got %dx%d", out.Width(), out.Height())
	}
}

func TestConvolveWorkerIndependence(t *testing.T) {
	img := CreateNoiseImage(37, 101, 7)
	defer func(w int) { Workers = w }(Workers)

	Workers = 1
	serial := Sharpen(img)
	Workers = 8
	parallel := Sharpen(img)

	if !serial.Equal(parallel) {
		t.Errorf("Output depends on worker count, max diff %d", CalculateMaxDiff(serial, parallel))
	}
}
