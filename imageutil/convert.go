package imageutil

import "fmt"

// SepiaMatrix returns the 3x3 sepia tone matrix.
func SepiaMatrix() *Kernel {
	return mustKernel([][]float64{
		{0.393, 0.769, 0.189},
		{0.349, 0.686, 0.168},
		{0.272, 0.534, 0.131},
	})
}

// GreyscaleMatrix returns a 3x3 matrix whose rows all hold the Rec. 709
// luma weights.
func GreyscaleMatrix() *Kernel {
	return mustKernel([][]float64{
		{0.2126, 0.7152, 0.0722},
		{0.2126, 0.7152, 0.0722},
		{0.2126, 0.7152, 0.0722},
	})
}

// ColorTransform recolours every pixel with a 3x3 matrix: each output
// channel i is round(r*M[i][0] + g*M[i][1] + b*M[i][2]), clamped.
// Matrices of any other size are rejected.
func ColorTransform(img *Image, matrix *Kernel) (*Image, error) {
	if matrix.Size() != 3 {
		return nil, fmt.Errorf("%w: colour matrix must be 3x3, got %dx%d",
			ErrInvalidKernelSize, matrix.Size(), matrix.Size())
	}
	m := matrix.values

	return mapPixels(img, func(p Pixel) Pixel {
		r, g, b := float64(p.r), float64(p.g), float64(p.b)
		return Pixel{
			r: linearChannel(m[0], r, g, b),
			g: linearChannel(m[1], r, g, b),
			b: linearChannel(m[2], r, g, b),
		}
	}), nil
}

// linearChannel evaluates r*row[0] + (g*row[1] + b*row[2]) in that order.
func linearChannel(row []float64, r, g, b float64) uint8 {
	rr := float64(r * row[0])
	gg := float64(g * row[1])
	bb := float64(b * row[2])
	return clampRound(rr + (gg + bb))
}

// Sepia applies the sepia tone matrix.
func Sepia(img *Image) *Image {
	out, _ := ColorTransform(img, SepiaMatrix())
	return out
}

// GreyscaleByMatrix applies the luma matrix. Results match Greyscale with
// ComponentLuma up to floating point evaluation order.
func GreyscaleByMatrix(img *Image) *Image {
	out, _ := ColorTransform(img, GreyscaleMatrix())
	return out
}
