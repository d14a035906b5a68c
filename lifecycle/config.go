package lifecycle

import (
	"io"

	"vkbootstrap/graphics"
)

// Config selects which optional stages run and how each component is
// set up.
type Config struct {
	Width  int
	Height int
	Title  string

	Instance       graphics.InstanceConfig
	VendorPrefixes []string
	Queue          graphics.QueueSpec

	// LogicalDevice and Surface enable the optional stages.
	LogicalDevice bool
	Surface       bool

	// MaxFrames bounds the main loop; zero runs until the window closes.
	MaxFrames int

	// Report receives the "Using device" line.
	Report io.Writer
}

func DefaultConfig() Config {
	return Config{
		Width:          800,
		Height:         600,
		Title:          "Vulkan",
		Instance:       graphics.DefaultInstanceConfig(),
		VendorPrefixes: graphics.DefaultVendorPrefixes,
		Queue:          graphics.DefaultQueueSpec(),
		LogicalDevice:  true,
		Surface:        true,
		Report:         io.Discard,
	}
}

type Option func(*Config)

func WithWindow(width, height int, title string) Option {
	return func(c *Config) {
		c.Width, c.Height, c.Title = width, height, title
	}
}

func WithApp(app graphics.AppInfo) Option {
	return func(c *Config) { c.Instance.App = app }
}

func WithPortability(enabled bool) Option {
	return func(c *Config) { c.Instance.Portability = enabled }
}

func WithValidation(enabled bool) Option {
	return func(c *Config) { c.Instance.EnableValidation = enabled }
}

func WithInstanceExtensions(names ...string) Option {
	return func(c *Config) {
		c.Instance.ExtraExtensions = append(c.Instance.ExtraExtensions, names...)
	}
}

func WithVendorPrefixes(prefixes ...string) Option {
	return func(c *Config) { c.VendorPrefixes = prefixes }
}

func WithQueue(spec graphics.QueueSpec) Option {
	return func(c *Config) { c.Queue = spec }
}

// WithoutLogicalDevice stops after device selection.
func WithoutLogicalDevice() Option {
	return func(c *Config) { c.LogicalDevice = false }
}

func WithoutSurface() Option {
	return func(c *Config) { c.Surface = false }
}

func WithMaxFrames(n int) Option {
	return func(c *Config) { c.MaxFrames = n }
}

func WithReport(w io.Writer) Option {
	return func(c *Config) {
		if w == nil {
			w = io.Discard
		}
		c.Report = w
	}
}
