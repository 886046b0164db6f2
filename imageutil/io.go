package imageutil

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

var (
	ErrInvalidPPM    = errors.New("invalid PPM file")
	ErrUnknownFormat = errors.New("unknown image format")
)

// FileExtension returns the lower-cased extension of path without the dot.
func FileExtension(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	base := filepath.Base(path)
	if ext == "" || base == "."+ext {
		return "", fmt.Errorf("%w: file extension is missing in %q", ErrUnknownFormat, path)
	}
	return ext, nil
}

// LoadImage loads an image from the specified path. PPM (P3) files are
// parsed directly; PNG, JPEG, GIF, BMP, TIFF and WebP go through
// image.Decode.
func LoadImage(path string) (*Image, error) {
	ext, err := FileExtension(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	if ext == "ppm" {
		return ReadPPM(f)
	}

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ImageFromStd(img), nil
}

// SaveImage saves an image to the specified path. Format is determined by
// file extension (ppm, png, jpg/jpeg, gif, bmp, tif/tiff).
func SaveImage(img *Image, path string) (err error) {
	ext, err := FileExtension(path)
	if err != nil {
		return err
	}
	encode, ok := encoders[ext]
	if !ok {
		return fmt.Errorf("%w: cannot save .%s files", ErrUnknownFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := encode(w, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", ext, err)
	}
	return w.Flush()
}

var encoders = map[string]func(io.Writer, *Image) error{
	"ppm":  WritePPM,
	"png":  func(w io.Writer, img *Image) error { return png.Encode(w, img) },
	"jpg":  encodeJPEG,
	"jpeg": encodeJPEG,
	"gif":  func(w io.Writer, img *Image) error { return gif.Encode(w, img, nil) },
	"bmp":  func(w io.Writer, img *Image) error { return bmp.Encode(w, img) },
	"tif":  encodeTIFF,
	"tiff": encodeTIFF,
}

func encodeJPEG(w io.Writer, img *Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}

func encodeTIFF(w io.Writer, img *Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// WritePPM writes img in plain PPM (P3) format: a header of magic, size
// and max value, then one line of "r g b" triples per row.
func WritePPM(w io.Writer, img *Image) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n%d\n", img.Width(), img.Height(), img.MaxValue())

	line := make([]byte, 0, img.Width()*12)
	for row := 0; row < img.Height(); row++ {
		line = line[:0]
		for col := 0; col < img.Width(); col++ {
			p := img.at(row, col)
			if col > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendInt(line, int64(p.r), 10)
			line = append(line, ' ')
			line = strconv.AppendInt(line, int64(p.g), 10)
			line = append(line, ' ')
			line = strconv.AppendInt(line, int64(p.b), 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadPPM parses a plain PPM (P3) image. Lines starting with '#' are
// comments.
func ReadPPM(r io.Reader) (*Image, error) {
	tok := newPPMTokenizer(r)

	magic, err := tok.next()
	if err != nil {
		return nil, err
	}
	if magic != "P3" {
		return nil, fmt.Errorf("%w: plain PPM file should begin with P3, got %q", ErrInvalidPPM, magic)
	}

	var header [3]int
	for i, name := range []string{"width", "height", "max value"} {
		if header[i], err = tok.nextInt(name); err != nil {
			return nil, err
		}
	}
	width, height := header[0], header[1]

	img, err := NewImage(width, height)
	if err != nil {
		return nil, err
	}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			var c [3]int
			for i := range c {
				if c[i], err = tok.nextInt("channel"); err != nil {
					return nil, err
				}
			}
			if err := img.SetPixel(row, col, c[0], c[1], c[2]); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

type ppmTokenizer struct {
	sc     *bufio.Scanner
	fields []string
}

func newPPMTokenizer(r io.Reader) *ppmTokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	return &ppmTokenizer{sc: sc}
}

func (t *ppmTokenizer) next() (string, error) {
	for len(t.fields) == 0 {
		if !t.sc.Scan() {
			if err := t.sc.Err(); err != nil {
				return "", fmt.Errorf("failed to read PPM: %w", err)
			}
			return "", fmt.Errorf("%w: unexpected end of file", ErrInvalidPPM)
		}
		line := t.sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		t.fields = strings.Fields(line)
	}
	f := t.fields[0]
	t.fields = t.fields[1:]
	return f, nil
}

func (t *ppmTokenizer) nextInt(name string) (int, error) {
	s, err := t.next()
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", name, err)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidPPM, name, err)
	}
	return v, nil
}
