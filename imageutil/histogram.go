package imageutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/raster"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Histogram counts how many pixels hold each value, per channel.
type Histogram struct {
	Red, Green, Blue, Intensity [MaxValue + 1]int
}

// ComputeHistogram tallies the red, green, blue and intensity values of
// every pixel.
func ComputeHistogram(img *Image) *Histogram {
	h := &Histogram{}
	for row := 0; row < img.Height(); row++ {
		for col := 0; col < img.Width(); col++ {
			p := img.at(row, col)
			h.Red[p.r]++
			h.Green[p.g]++
			h.Blue[p.b]++
			h.Intensity[intensityPixel(p).r]++
		}
	}
	return h
}

// Peak returns the largest count across all series.
func (h *Histogram) Peak() int {
	peak := 0
	for _, series := range h.series() {
		for _, n := range series.counts {
			peak = max(peak, n)
		}
	}
	return peak
}

type histogramSeries struct {
	label  string
	color  colorful.Color
	counts *[MaxValue + 1]int
}

// Channel series share chroma and lightness and differ only in hue.
func (h *Histogram) series() []histogramSeries {
	return []histogramSeries{
		{"red", colorful.Hcl(20, 0.9, 0.55).Clamped(), &h.Red},
		{"green", colorful.Hcl(135, 0.9, 0.55).Clamped(), &h.Green},
		{"blue", colorful.Hcl(265, 0.9, 0.55).Clamped(), &h.Blue},
		{"intensity", colorful.Hcl(0, 0, 0.4).Clamped(), &h.Intensity},
	}
}

const (
	histogramMargin   = 24
	histogramFontSize = 10
)

var (
	histogramLineWidth = fixed.I(1)
	histogramAxisColor = color.RGBA{R: 160, G: 160, B: 160, A: 255}
)

var (
	histogramFontOnce sync.Once
	histogramFont     *truetype.Font
	histogramFontErr  error
)

func loadHistogramFont() (*truetype.Font, error) {
	histogramFontOnce.Do(func() {
		histogramFont, histogramFontErr = freetype.ParseFont(goregular.TTF)
	})
	return histogramFont, histogramFontErr
}

// Render draws the histogram as a line plot of the four series on a white
// background, with a legend along the top margin. Counts are scaled to
// the tallest bin.
func (h *Histogram) Render(width, height int) (*image.RGBA, error) {
	plotW, plotH := width-2*histogramMargin, height-2*histogramMargin
	if plotW < 1 || plotH < 1 {
		return nil, fmt.Errorf("%w: histogram must be larger than %dx%d",
			ErrInvalidDimensions, 2*histogramMargin, 2*histogramMargin)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	r := raster.NewRasterizer(width, height)
	r.UseNonZeroWinding = true
	painter := raster.NewRGBAPainter(img)

	left, bottom := histogramMargin, height-histogramMargin
	var axes raster.Path
	axes.Start(pixelCenter(left, histogramMargin))
	axes.Add1(pixelCenter(left, bottom))
	axes.Add1(pixelCenter(left+plotW-1, bottom))
	stroke(r, painter, axes, histogramAxisColor)

	peak := h.Peak()
	series := h.series()
	for _, s := range series {
		var line raster.Path
		for v, n := range s.counts {
			y := bottom
			if peak > 0 {
				y = bottom - n*(plotH-1)/peak
			}
			pt := pixelCenter(left+v*(plotW-1)/MaxValue, y)
			if v == 0 {
				line.Start(pt)
			} else {
				line.Add1(pt)
			}
		}
		stroke(r, painter, line, s.color)
	}

	if err := h.drawLegend(img, series); err != nil {
		return nil, err
	}
	return img, nil
}

func pixelCenter(x, y int) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.I(x) + 32, Y: fixed.I(y) + 32}
}

// stroke rasterises path as a line of histogramLineWidth in colour c.
func stroke(r *raster.Rasterizer, p *raster.RGBAPainter, path raster.Path, c color.Color) {
	r.Clear()
	raster.Stroke(r, path, histogramLineWidth, raster.RoundCapper, raster.RoundJoiner)
	p.SetColor(c)
	r.Rasterize(p)
}

func (h *Histogram) drawLegend(img *image.RGBA, series []histogramSeries) error {
	f, err := loadHistogramFont()
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(histogramFontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetHinting(font.HintingFull)

	x := histogramMargin
	for _, s := range series {
		ctx.SetSrc(image.NewUniform(s.color))
		end, err := ctx.DrawString(s.label, freetype.Pt(x, histogramMargin-8))
		if err != nil {
			return fmt.Errorf("failed to draw label %q: %w", s.label, err)
		}
		x = end.X.Round() + 12
	}
	return nil
}
