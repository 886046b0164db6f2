package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/wbrown/imgedit"
	"github.com/wbrown/imgedit/imageutil"
)

func main() {
	scriptFile := flag.String("file", "",
		"Path to a script of commands, one per line")
	interactive := flag.Bool("text", false,
		"Read commands interactively from stdin")
	workers := flag.Int("workers", 0,
		"Goroutines per transform, 0 for one per CPU")
	verbose := flag.Bool("v", false,
		"Print timing information to stderr")
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected arguments: %v\n", flag.Args())
		flag.PrintDefaults()
		os.Exit(2)
	}

	var input io.ReadCloser
	switch {
	case *scriptFile != "":
		f, err := os.Open(*scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to read script file: %v\n", err)
			os.Exit(1)
		}
		input = f
	case *interactive:
		input = os.Stdin
	default:
		fmt.Println("Please provide a script with -file or use -text for interactive mode")
		flag.PrintDefaults()
		return
	}

	imageutil.Workers = *workers

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	begin := time.Now()
	interp := imgedit.NewInterpreter(imgedit.NewStore(), os.Stdout)
	err := interp.Run(ctx, input)
	input.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "Total time: %v\n", time.Since(begin))
	}
}
