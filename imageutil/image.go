// Package imageutil provides the image model and the transformation
// engine: pixels, images, kernels, and the pointwise, colour-matrix and
// convolution transforms applied to them, plus codecs, resizing, edge
// detection and histograms.
package imageutil

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// MaxValue is the largest value a channel may hold.
const MaxValue = 255

// MaxPixels is the largest width*height NewImage accepts.
const MaxPixels = 1 << 28

var (
	ErrInvalidChannelValue = errors.New("invalid channel value")
	ErrInvalidDimensions   = errors.New("invalid image dimensions")
	ErrInvalidKernelSize   = errors.New("invalid kernel size")
	ErrOutOfBounds         = errors.New("row or col out of bounds")
	ErrUnknownComponent    = errors.New("unknown greyscale component")
)

// Pixel is a single RGB triple with every channel in [0, 255].
type Pixel struct {
	r, g, b uint8
}

// NewPixel creates a pixel, rejecting any channel outside [0, 255].
func NewPixel(r, g, b int) (Pixel, error) {
	if !validChannel(r) || !validChannel(g) || !validChannel(b) {
		return Pixel{}, fmt.Errorf("%w: (%d, %d, %d) must be within [0, %d]",
			ErrInvalidChannelValue, r, g, b, MaxValue)
	}
	return Pixel{r: uint8(r), g: uint8(g), b: uint8(b)}, nil
}

func validChannel(v int) bool {
	return v >= 0 && v <= MaxValue
}

func channelError(v int) error {
	return fmt.Errorf("%w: %d must be within [0, %d]", ErrInvalidChannelValue, v, MaxValue)
}

// R returns the red channel.
func (p Pixel) R() int { return int(p.r) }

// G returns the green channel.
func (p Pixel) G() int { return int(p.g) }

// B returns the blue channel.
func (p Pixel) B() int { return int(p.b) }

// Alpha is reserved; pixels are always fully opaque.
func (p Pixel) Alpha() float64 { return 1.0 }

// SetR sets the red channel. The pixel is unchanged on error.
func (p *Pixel) SetR(v int) error {
	if !validChannel(v) {
		return channelError(v)
	}
	p.r = uint8(v)
	return nil
}

// SetG sets the green channel. The pixel is unchanged on error.
func (p *Pixel) SetG(v int) error {
	if !validChannel(v) {
		return channelError(v)
	}
	p.g = uint8(v)
	return nil
}

// SetB sets the blue channel. The pixel is unchanged on error.
func (p *Pixel) SetB(v int) error {
	if !validChannel(v) {
		return channelError(v)
	}
	p.b = uint8(v)
	return nil
}

// RGBA converts the pixel to an opaque color.RGBA.
func (p Pixel) RGBA() color.RGBA {
	return color.RGBA{R: p.r, G: p.g, B: p.b, A: 255}
}

func (p Pixel) String() string {
	return fmt.Sprintf("%d %d %d", p.r, p.g, p.b)
}

// Image is a fixed-size grid of pixels addressed by (row, col). It also
// implements image.Image with x = col and y = row, so it can be passed to
// any encoder directly.
type Image struct {
	width, height int
	rgba          *image.RGBA
}

// NewImage allocates a width x height image. Cells read as black until set.
func NewImage(width, height int) (*Image, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return newImage(width, height), nil
}

func checkDimensions(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d, width and height cannot be negative",
			ErrInvalidDimensions, width, height)
	}
	if width > 0 && height > MaxPixels/width {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels",
			ErrInvalidDimensions, width, height, MaxPixels)
	}
	return nil
}

func newImage(width, height int) *Image {
	return &Image{
		width:  width,
		height: height,
		rgba:   image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// ImageFromStd copies any image.Image into a new Image. Colours are taken
// un-premultiplied and alpha is dropped, so a translucent pixel keeps its
// full colour.
func ImageFromStd(src image.Image) *Image {
	bounds := src.Bounds()
	img := newImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			img.set(y-bounds.Min.Y, x-bounds.Min.X, Pixel{r: c.R, g: c.G, b: c.B})
		}
	}
	return img
}

// Width returns the number of columns.
func (img *Image) Width() int { return img.width }

// Height returns the number of rows.
func (img *Image) Height() int { return img.height }

// MaxValue returns the largest channel value, always 255.
func (img *Image) MaxValue() int { return MaxValue }

func (img *Image) inBounds(row, col int) bool {
	return row >= 0 && row < img.height && col >= 0 && col < img.width
}

func (img *Image) boundsError(row, col int) error {
	return fmt.Errorf("%w: (%d, %d) outside %dx%d image",
		ErrOutOfBounds, row, col, img.width, img.height)
}

// SetPixel installs a new pixel at (row, col). Nothing is written on error.
func (img *Image) SetPixel(row, col, r, g, b int) error {
	if !img.inBounds(row, col) {
		return img.boundsError(row, col)
	}
	p, err := NewPixel(r, g, b)
	if err != nil {
		return err
	}
	img.set(row, col, p)
	return nil
}

// Pixel returns the pixel at (row, col).
func (img *Image) Pixel(row, col int) (Pixel, error) {
	if !img.inBounds(row, col) {
		return Pixel{}, img.boundsError(row, col)
	}
	return img.at(row, col), nil
}

// Red returns the red channel at (row, col).
func (img *Image) Red(row, col int) (int, error) {
	p, err := img.Pixel(row, col)
	return p.R(), err
}

// Green returns the green channel at (row, col).
func (img *Image) Green(row, col int) (int, error) {
	p, err := img.Pixel(row, col)
	return p.G(), err
}

// Blue returns the blue channel at (row, col).
func (img *Image) Blue(row, col int) (int, error) {
	p, err := img.Pixel(row, col)
	return p.B(), err
}

// at and set skip bounds checks; callers iterate within the image.
func (img *Image) at(row, col int) Pixel {
	i := img.rgba.PixOffset(col, row)
	s := img.rgba.Pix[i : i+3 : i+3]
	return Pixel{r: s[0], g: s[1], b: s[2]}
}

func (img *Image) set(row, col int, p Pixel) {
	i := img.rgba.PixOffset(col, row)
	s := img.rgba.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = p.r, p.g, p.b, 255
}

// ColorModel implements image.Image.
func (img *Image) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (img *Image) Bounds() image.Rectangle { return img.rgba.Rect }

// At implements image.Image. Unset cells are opaque black.
func (img *Image) At(x, y int) color.Color {
	if !img.inBounds(y, x) {
		return color.RGBA{}
	}
	return img.at(y, x).RGBA()
}

// Opaque reports that every pixel is fully opaque, letting encoders skip
// the alpha channel.
func (img *Image) Opaque() bool { return true }

// Equal reports whether both images have the same size and pixels.
func (img *Image) Equal(other *Image) bool {
	if img.width != other.width || img.height != other.height {
		return false
	}
	for row := 0; row < img.height; row++ {
		for col := 0; col < img.width; col++ {
			if img.at(row, col) != other.at(row, col) {
				return false
			}
		}
	}
	return true
}
