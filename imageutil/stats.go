package imageutil

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the channel distributions of an image.
type Stats struct {
	Mean   [3]float64 // red, green, blue
	StdDev [3]float64
}

// ComputeStats returns the per-channel mean and sample standard deviation.
// An empty image yields zeros.
func ComputeStats(img *Image) Stats {
	n := img.Width() * img.Height()
	if n == 0 {
		return Stats{}
	}

	channels := [3][]float64{
		make([]float64, 0, n),
		make([]float64, 0, n),
		make([]float64, 0, n),
	}
	for row := 0; row < img.Height(); row++ {
		for col := 0; col < img.Width(); col++ {
			p := img.at(row, col)
			channels[0] = append(channels[0], float64(p.r))
			channels[1] = append(channels[1], float64(p.g))
			channels[2] = append(channels[2], float64(p.b))
		}
	}

	var s Stats
	for i, values := range channels {
		if n == 1 {
			s.Mean[i] = values[0]
			continue
		}
		s.Mean[i], s.StdDev[i] = stat.MeanStdDev(values, nil)
	}
	return s
}

// MeanColor returns the mean as a colour.
func (s Stats) MeanColor() colorful.Color {
	return colorful.Color{
		R: s.Mean[0] / MaxValue,
		G: s.Mean[1] / MaxValue,
		B: s.Mean[2] / MaxValue,
	}.Clamped()
}

// MeanHex returns the mean colour as #rrggbb.
func (s Stats) MeanHex() string {
	return s.MeanColor().Hex()
}

func (s Stats) String() string {
	return fmt.Sprintf("mean %.2f %.2f %.2f, stddev %.2f %.2f %.2f, mean colour %s",
		s.Mean[0], s.Mean[1], s.Mean[2],
		s.StdDev[0], s.StdDev[1], s.StdDev[2],
		s.MeanHex())
}
