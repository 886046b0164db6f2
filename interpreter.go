// Package imgedit holds named images in a Store and drives the imageutil
// transforms from a line-oriented command Interpreter.
package imgedit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wbrown/imgedit/imageutil"
)

const (
	MsgSuccess        = "Command completed successfully"
	MsgInvalidCommand = "Invalid command. Please enter a valid command."

	// HistogramWidth and HistogramHeight size the rendered histogram.
	HistogramWidth  = 512
	HistogramHeight = 300
)

var ErrUsage = errors.New("usage")

// command is one entry of the interpreter's command table.
// Optional arguments follow the required ones and may be left off from the
// end; run receives only those given.
type command struct {
	args     []string
	optional []string
	run      func(in *Interpreter, args []string) error
}

var commands = map[string]command{
	"load":      {[]string{"path", "id"}, nil, (*Interpreter).load},
	"save":      {[]string{"path", "id"}, nil, (*Interpreter).save},
	"brighten":  {[]string{"delta", "src", "dst"}, nil, (*Interpreter).brighten},
	"blur":      {[]string{"src", "dst"}, nil, transform(imageutil.GaussianBlur)},
	"sharpen":   {[]string{"src", "dst"}, nil, transform(imageutil.Sharpen)},
	"sepia":     {[]string{"src", "dst"}, nil, transform(imageutil.Sepia)},
	"greyscale": {[]string{"src", "dst"}, nil, transform(imageutil.GreyscaleByMatrix)},
	"edges":     {[]string{"src", "dst"}, nil, transform(imageutil.CannyDefault)},
	"sobel":     {[]string{"src", "dst"}, nil, transform(imageutil.SobelMagnitude)},
	"histogram": {[]string{"src", "path"}, nil, (*Interpreter).histogram},
	"stats":     {[]string{"src"}, nil, (*Interpreter).stats},

	"resize": {[]string{"width", "height", "src", "dst"}, []string{"interpolation"}, (*Interpreter).resize},

	"red-component":   {[]string{"src", "dst"}, nil, greyscale(imageutil.ComponentRed)},
	"green-component": {[]string{"src", "dst"}, nil, greyscale(imageutil.ComponentGreen)},
	"blue-component":  {[]string{"src", "dst"}, nil, greyscale(imageutil.ComponentBlue)},
	"value":           {[]string{"src", "dst"}, nil, greyscale(imageutil.ComponentValue)},
	"intensity":       {[]string{"src", "dst"}, nil, greyscale(imageutil.ComponentIntensity)},
	"luma":            {[]string{"src", "dst"}, nil, greyscale(imageutil.ComponentLuma)},
}

// Interpreter reads one command per line and applies it to a Store.
// Blank lines and lines starting with '#' are skipped.
type Interpreter struct {
	store *Store
	out   io.Writer
}

// NewInterpreter creates an interpreter that reports to out.
func NewInterpreter(store *Store, out io.Writer) *Interpreter {
	return &Interpreter{store: store, out: out}
}

// Run executes commands from r until EOF or until ctx is cancelled. A
// failing command is reported and the loop moves on; only read errors,
// write errors and cancellation end it early.
func (in *Interpreter) Run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := in.Exec(sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}
	return nil
}

// Exec runs a single command line and reports the outcome. The returned
// error is only non-nil when the report cannot be written.
func (in *Interpreter) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	if _, ok := commands[fields[0]]; !ok {
		return in.println(MsgInvalidCommand)
	}
	if err := in.Apply(fields[0], fields[1:]...); err != nil {
		return in.println(err.Error())
	}
	return in.println(MsgSuccess)
}

// Apply runs the named command with its arguments.
func (in *Interpreter) Apply(name string, args ...string) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrInvalidArgument, name)
	}
	if len(args) < len(cmd.args) || len(args) > len(cmd.args)+len(cmd.optional) {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.usage(name))
	}
	return cmd.run(in, args)
}

func (c command) usage(name string) string {
	var b strings.Builder
	b.WriteString(name)
	for _, a := range c.args {
		fmt.Fprintf(&b, " <%s>", a)
	}
	for _, a := range c.optional {
		fmt.Fprintf(&b, " [%s]", a)
	}
	return b.String()
}

func (in *Interpreter) println(msg string) error {
	_, err := fmt.Fprintln(in.out, msg)
	return err
}

func (in *Interpreter) load(args []string) error {
	img, err := imageutil.LoadImage(args[0])
	if err != nil {
		return err
	}
	return in.store.Put(args[1], img)
}

func (in *Interpreter) save(args []string) error {
	img, err := in.store.Get(args[1])
	if err != nil {
		return err
	}
	return imageutil.SaveImage(img, args[0])
}

func (in *Interpreter) brighten(args []string) error {
	delta, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: brightness must be an integer, got %q", ErrInvalidArgument, args[0])
	}
	src, err := in.store.Get(args[1])
	if err != nil {
		return err
	}
	return in.store.Put(args[2], imageutil.Brighten(src, delta))
}

func (in *Interpreter) resize(args []string) error {
	width, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: width must be an integer, got %q", ErrInvalidArgument, args[0])
	}
	height, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: height must be an integer, got %q", ErrInvalidArgument, args[1])
	}
	src, err := in.store.Get(args[2])
	if err != nil {
		return err
	}
	interp := imageutil.InterpolationCatmullRom
	if len(args) > 4 {
		if interp, err = imageutil.ParseInterpolation(args[4]); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	var dst *imageutil.Image
	if height == 0 {
		dst, err = imageutil.ResizeToWidth(src, width, interp)
	} else {
		dst, err = imageutil.Resize(src, width, height, interp)
	}
	if err != nil {
		return err
	}
	return in.store.Put(args[3], dst)
}

func transform(fn func(*imageutil.Image) *imageutil.Image) func(*Interpreter, []string) error {
	return func(in *Interpreter, args []string) error {
		src, err := in.store.Get(args[0])
		if err != nil {
			return err
		}
		return in.store.Put(args[1], fn(src))
	}
}

func greyscale(c imageutil.Component) func(*Interpreter, []string) error {
	return func(in *Interpreter, args []string) error {
		src, err := in.store.Get(args[0])
		if err != nil {
			return err
		}
		out, err := imageutil.Greyscale(src, c)
		if err != nil {
			return err
		}
		return in.store.Put(args[1], out)
	}
}

func (in *Interpreter) histogram(args []string) error {
	src, err := in.store.Get(args[0])
	if err != nil {
		return err
	}
	plot, err := imageutil.ComputeHistogram(src).Render(HistogramWidth, HistogramHeight)
	if err != nil {
		return err
	}
	return imageutil.SaveImage(imageutil.ImageFromStd(plot), args[1])
}

func (in *Interpreter) stats(args []string) error {
	src, err := in.store.Get(args[0])
	if err != nil {
		return err
	}
	return in.println(fmt.Sprintf("%s: %dx%d, %s",
		args[0], src.Width(), src.Height(), imageutil.ComputeStats(src)))
}
