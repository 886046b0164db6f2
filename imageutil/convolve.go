package imageutil

import "fmt"

// Kernel is a square grid of coefficients with an odd size of at least 3.
// It serves either as a convolution filter or, when 3x3, as a colour
// matrix. Transforms only read it.
type Kernel struct {
	values [][]float64
	size   int
}

// NewKernel adopts a square 2D slice as a kernel. The rows are not copied.
func NewKernel(values [][]float64) (*Kernel, error) {
	size := len(values)
	if err := checkKernelSize(size); err != nil {
		return nil, err
	}
	for i, row := range values {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d values, kernel must be %dx%d",
				ErrInvalidKernelSize, i, len(row), size, size)
		}
	}
	return &Kernel{values: values, size: size}, nil
}

// NewZeroKernel creates a size x size kernel of zeros, to be filled in
// with Set before it is handed to a transform.
func NewZeroKernel(size int) (*Kernel, error) {
	if err := checkKernelSize(size); err != nil {
		return nil, err
	}
	values := make([][]float64, size)
	for i := range values {
		values[i] = make([]float64, size)
	}
	return &Kernel{values: values, size: size}, nil
}

func checkKernelSize(size int) error {
	if size < 3 || size%2 != 1 {
		return fmt.Errorf("%w: %d, size must be odd and at least 3", ErrInvalidKernelSize, size)
	}
	return nil
}

func mustKernel(values [][]float64) *Kernel {
	k, err := NewKernel(values)
	if err != nil {
		panic(err)
	}
	return k
}

// Size returns the number of rows (and columns).
func (k *Kernel) Size() int { return k.size }

// At returns the coefficient at (row, col).
func (k *Kernel) At(row, col int) (float64, error) {
	if !k.inBounds(row, col) {
		return 0, k.boundsError(row, col)
	}
	return k.values[row][col], nil
}

// Set overwrites the coefficient at (row, col).
func (k *Kernel) Set(row, col int, v float64) error {
	if !k.inBounds(row, col) {
		return k.boundsError(row, col)
	}
	k.values[row][col] = v
	return nil
}

func (k *Kernel) inBounds(row, col int) bool {
	return row >= 0 && row < k.size && col >= 0 && col < k.size
}

func (k *Kernel) boundsError(row, col int) error {
	return fmt.Errorf("%w: (%d, %d) outside %dx%d kernel", ErrOutOfBounds, row, col, k.size, k.size)
}

// GaussianKernel3x3 returns the 3x3 Gaussian blur kernel.
func GaussianKernel3x3() *Kernel {
	return mustKernel([][]float64{
		{1.0 / 16, 1.0 / 8, 1.0 / 16},
		{1.0 / 8, 1.0 / 4, 1.0 / 8},
		{1.0 / 16, 1.0 / 8, 1.0 / 16},
	})
}

// SharpenKernel5x5 returns the 5x5 sharpening kernel.
func SharpenKernel5x5() *Kernel {
	const e, q = -1.0 / 8, 1.0 / 4
	return mustKernel([][]float64{
		{e, e, e, e, e},
		{e, q, q, q, e},
		{e, q, 1.0, q, e},
		{e, q, q, q, e},
		{e, e, e, e, e},
	})
}

// Convolve applies a convolution kernel to an image. Neighbours that fall
// outside the image contribute zero.
func Convolve(img *Image, kernel *Kernel) *Image {
	width, height := img.Width(), img.Height()
	dst := newImage(width, height)

	size := kernel.size
	center := (size - 1) / 2

	forEachRow(height, func(y int) {
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB float64

			for ky := 0; ky < size; ky++ {
				sy := y + ky - center
				if sy < 0 || sy >= height {
					continue
				}
				for kx := 0; kx < size; kx++ {
					sx := x + kx - center
					if sx < 0 || sx >= width {
						continue
					}

					c := img.at(sy, sx)
					k := kernel.values[ky][kx]

					// Explicit conversions keep each product rounded, no FMA.
					sumR += float64(float64(c.r) * k)
					sumG += float64(float64(c.g) * k)
					sumB += float64(float64(c.b) * k)
				}
			}

			dst.set(y, x, Pixel{
				r: clampRound(sumR),
				g: clampRound(sumG),
				b: clampRound(sumB),
			})
		}
	})

	return dst
}

// Sharpen applies the 5x5 sharpening kernel.
func Sharpen(img *Image) *Image {
	return Convolve(img, SharpenKernel5x5())
}

// GaussianBlur applies the 3x3 Gaussian kernel.
func GaussianBlur(img *Image) *Image {
	return Convolve(img, GaussianKernel3x3())
}
