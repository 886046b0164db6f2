package imageutil

import "math"

// CreateGradientImage creates a horizontal grey gradient test image.
func CreateGradientImage(width, height int) *Image {
	img := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(MaxValue * x / max(width-1, 1))
			img.set(y, x, Pixel{r: v, g: v, b: v})
		}
	}
	return img
}

// CreateCheckerboardImage creates a black and white checkerboard pattern.
func CreateCheckerboardImage(width, height, squareSize int) *Image {
	img := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.set(y, x, Pixel{r: 255, g: 255, b: 255})
			} else {
				img.set(y, x, Pixel{})
			}
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c Pixel) *Image {
	img := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.set(y, x, c)
		}
	}
	return img
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *Image {
	img := newImage(width, height)
	colors := []Pixel{
		{255, 255, 255}, // White
		{255, 255, 0},   // Yellow
		{0, 255, 255},   // Cyan
		{0, 255, 0},     // Green
		{255, 0, 255},   // Magenta
		{255, 0, 0},     // Red
		{0, 0, 255},     // Blue
		{0, 0, 0},       // Black
	}

	barWidth := max(width/len(colors), 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := min(x/barWidth, len(colors)-1)
			img.set(y, x, colors[colorIdx])
		}
	}
	return img
}

// CreateNoiseImage fills an image with a deterministic pseudo-random
// pattern so tests can exercise every channel value.
func CreateNoiseImage(width, height int, seed uint32) *Image {
	img := newImage(width, height)
	state := seed | 1
	next := func() uint8 {
		// xorshift32
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		return uint8(state)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.set(y, x, Pixel{r: next(), g: next(), b: next()})
		}
	}
	return img
}

// CalculateMaxDiff calculates the maximum channel difference between two
// images. Images of different sizes return 256.
func CalculateMaxDiff(img1, img2 *Image) int {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return 256
	}

	maxDiff := 0
	for y := 0; y < img1.Height(); y++ {
		for x := 0; x < img1.Width(); x++ {
			c1 := img1.at(y, x)
			c2 := img2.at(y, x)
			maxDiff = max(maxDiff,
				abs(int(c1.r)-int(c2.r)),
				abs(int(c1.g)-int(c2.g)),
				abs(int(c1.b)-int(c2.b)))
		}
	}
	return maxDiff
}

// CalculateMSE calculates the Mean Squared Error between two images.
func CalculateMSE(img1, img2 *Image) float64 {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return math.MaxFloat64
	}

	width, height := img1.Width(), img1.Height()
	if width*height == 0 {
		return 0
	}
	var sumSq float64
	count := float64(width * height * 3) // 3 channels

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c1 := img1.at(y, x)
			c2 := img2.at(y, x)
			dr := float64(c1.r) - float64(c2.r)
			dg := float64(c1.g) - float64(c2.g)
			db := float64(c1.b) - float64(c2.b)
			sumSq += dr*dr + dg*dg + db*db
		}
	}

	return sumSq / count
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
