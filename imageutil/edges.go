package imageutil

import "math"

var (
	sobelXKernel = mustKernel([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
	sobelYKernel = mustKernel([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
)

// lumaPlane returns the rounded luma of every pixel as a float plane.
func lumaPlane(img *Image) [][]float64 {
	width, height := img.Width(), img.Height()
	plane := make([][]float64, height)
	for y := 0; y < height; y++ {
		plane[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			plane[y][x] = float64(lumaPixel(img.at(y, x)).r)
		}
	}
	return plane
}

// convolvePlane convolves a single float channel with zero padding and
// keeps the unclamped sums.
func convolvePlane(plane [][]float64, kernel *Kernel) [][]float64 {
	height := len(plane)
	if height == 0 {
		return nil
	}
	width := len(plane[0])
	size := kernel.size
	center := (size - 1) / 2

	out := make([][]float64, height)
	forEachRow(height, func(y int) {
		row := make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
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
					sum += float64(plane[sy][sx] * kernel.values[ky][kx])
				}
			}
			row[x] = sum
		}
		out[y] = row
	})
	return out
}

// SobelMagnitude computes the luma gradient magnitude from the Sobel
// operators, saturated to a grey image.
func SobelMagnitude(img *Image) *Image {
	width, height := img.Width(), img.Height()
	plane := lumaPlane(img)
	gx := convolvePlane(plane, sobelXKernel)
	gy := convolvePlane(plane, sobelYKernel)

	dst := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mag := math.Sqrt(gx[y][x]*gx[y][x] + gy[y][x]*gy[y][x])
			dst.set(y, x, grey(int(clampRound(mag))))
		}
	}
	return dst
}

// Canny performs Canny edge detection on the luma of an image and returns
// white edges on black. lowThreshold and highThreshold control edge
// sensitivity; typical values are 50 and 150.
func Canny(img *Image, lowThreshold, highThreshold float64) *Image {
	width, height := img.Width(), img.Height()

	blurred := convolvePlane(lumaPlane(img), GaussianKernel3x3())
	gx := convolvePlane(blurred, sobelXKernel)
	gy := convolvePlane(blurred, sobelYKernel)

	magnitude := make([][]float64, height)
	for y := range magnitude {
		magnitude[y] = make([]float64, width)
		for x := range magnitude[y] {
			magnitude[y][x] = math.Hypot(gx[y][x], gy[y][x])
		}
	}

	thin := thinEdges(magnitude, gx, gy)
	return traceEdges(thin, width, height, lowThreshold, highThreshold)
}

// CannyDefault performs Canny edge detection with thresholds 50 and 150.
func CannyDefault(img *Image) *Image {
	return Canny(img, 50, 150)
}

// gradientSteps maps a gradient direction, quantised to 0, 45, 90 or 135
// degrees, to the (dx, dy) step towards the neighbour along it.
var gradientSteps = [4][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}}

// thinEdges zeroes every magnitude that is smaller than either neighbour
// along its gradient. The one-pixel border is always zero.
func thinEdges(magnitude, gx, gy [][]float64) [][]float64 {
	height := len(magnitude)
	thin := make([][]float64, height)
	for y := range thin {
		thin[y] = make([]float64, len(magnitude[y]))
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < len(magnitude[y])-1; x++ {
			deg := math.Atan2(gy[y][x], gx[y][x]) * 180 / math.Pi
			if deg < 0 {
				deg += 180
			}
			step := gradientSteps[int(math.Round(deg/45))%4]
			dx, dy := step[0], step[1]

			m := magnitude[y][x]
			if m >= magnitude[y+dy][x+dx] && m >= magnitude[y-dy][x-dx] {
				thin[y][x] = m
			}
		}
	}
	return thin
}

const (
	notEdge uint8 = iota
	weakEdge
	strongEdge
)

// traceEdges keeps pixels at or above high, plus pixels at or above low
// that reach one of those through 8-connected neighbours also at or above
// low.
func traceEdges(thin [][]float64, width, height int, low, high float64) *Image {
	class := make([]uint8, width*height)
	var stack []int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch v := thin[y][x]; {
			case v >= high:
				class[y*width+x] = strongEdge
				stack = append(stack, y*width+x)
			case v >= low:
				class[y*width+x] = weakEdge
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		y, x := i/width, i%width
		for ny := max(y-1, 1); ny <= min(y+1, height-2); ny++ {
			for nx := max(x-1, 1); nx <= min(x+1, width-2); nx++ {
				if j := ny*width + nx; class[j] == weakEdge {
					class[j] = strongEdge
					stack = append(stack, j)
				}
			}
		}
	}

	dst := newImage(width, height)
	for i, c := range class {
		v := 0
		if c == strongEdge {
			v = MaxValue
		}
		dst.set(i/width, i%width, grey(v))
	}
	return dst
}
