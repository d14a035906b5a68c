// Command vkboot opens a window, brings up a Vulkan instance, device and
// surface, waits for the window to close, and tears everything down.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"vkbootstrap/core"
	"vkbootstrap/graphics"
	"vkbootstrap/lifecycle"
	"vkbootstrap/vulkan"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, core.Open, vulkan.LoadDriver))
}

type options struct {
	width, height int
	title         string
	noDevice      bool
	noSurface     bool
	validation    bool
	portability   string
	frames        int
	vendors       string
	verbose       bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("vkboot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&o.width, "width", 800, "Window width")
	fs.IntVar(&o.height, "height", 600, "Window height")
	fs.StringVar(&o.title, "title", "Vulkan", "Window title")
	fs.BoolVar(&o.noDevice, "no-device", false, "Skip logical device creation")
	fs.BoolVar(&o.noSurface, "no-surface", false, "Skip surface binding")
	fs.BoolVar(&o.validation, "validation", false, "Enable the Khronos validation layer")
	fs.StringVar(&o.portability, "portability", "auto", "Portability mode: auto, on or off")
	fs.IntVar(&o.frames, "frames", 0, "Stop after this many loop iterations (0 = until closed)")
	fs.StringVar(&o.vendors, "vendor-prefix", "Apple", "First-party device name prefix")
	fs.BoolVar(&o.verbose, "v", false, "Debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.width <= 0 || o.height <= 0 {
		return o, errors.Errorf("invalid window size %dx%d", o.width, o.height)
	}
	return o, nil
}

func parsePortability(mode string) (bool, error) {
	switch mode {
	case "auto", "":
		return graphics.PortabilityRequired(), nil
	case "on", "true":
		return true, nil
	case "off", "false":
		return false, nil
	default:
		return false, errors.Errorf("unknown portability mode %q", mode)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func run(args []string, stdout, stderr io.Writer, open lifecycle.WindowOpener, load lifecycle.DriverLoader) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	portability, err := parsePortability(o.portability)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	graphics.SetLogger(newLogger(stderr, o.verbose))
	defer graphics.SetLogger(nil)

	opts := []lifecycle.Option{
		lifecycle.WithWindow(o.width, o.height, o.title),
		lifecycle.WithPortability(portability),
		lifecycle.WithValidation(o.validation),
		lifecycle.WithMaxFrames(o.frames),
		lifecycle.WithReport(stdout),
	}
	if o.vendors != "" {
		opts = append(opts, lifecycle.WithVendorPrefixes(o.vendors))
	}
	if o.noDevice {
		opts = append(opts, lifecycle.WithoutLogicalDevice())
	}
	if o.noSurface {
		opts = append(opts, lifecycle.WithoutSurface())
	}

	fmt.Fprintln(stdout, "Starting Vulkan application!")
	if err := lifecycle.New(open, load, opts...).Run(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
