// Package lifecycle drives the bootstrap: it acquires the window, instance,
// device and surface in order, runs the poll loop, and releases everything
// in reverse on every exit path.
package lifecycle

import (
	"fmt"

	"github.com/pkg/errors"

	"vkbootstrap/graphics"
)

type State int

const (
	Uninitialized State = iota
	WindowReady
	InstanceReady
	DeviceSelected
	DeviceReady
	SurfaceReady
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case WindowReady:
		return "WindowReady"
	case InstanceReady:
		return "InstanceReady"
	case DeviceSelected:
		return "DeviceSelected"
	case DeviceReady:
		return "DeviceReady"
	case SurfaceReady:
		return "SurfaceReady"
	case Running:
		return "Running"
	case Terminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// WindowOpener opens the native window.
type WindowOpener func(width, height int, title string) (graphics.Window, error)

// DriverLoader binds the graphics driver once the windowing layer is up.
type DriverLoader func(window graphics.Window) (graphics.Driver, error)

// Context holds every resource of one run. The Manager owns it
// exclusively; fields are set as their stage completes.
type Context struct {
	Window   graphics.Window
	Driver   graphics.Driver
	Instance *graphics.Instance
	Physical graphics.PhysicalDevice
	Device   *graphics.Device
	Surface  *graphics.Surface
}

type Manager struct {
	config Config
	open   WindowOpener
	load   DriverLoader

	state  State
	scope  scope
	ctx    Context
	frames int
}

func New(open WindowOpener, load DriverLoader, opts ...Option) *Manager {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Manager{config: config, open: open, load: load}
}

func (m *Manager) State() State     { return m.state }
func (m *Manager) Config() Config   { return m.config }
func (m *Manager) Frames() int      { return m.frames }
func (m *Manager) Context() Context { return m.ctx }

// Run acquires, loops and tears down. It returns the first acquisition
// error, or the teardown error when acquisition succeeded. A Manager runs
// once.
func (m *Manager) Run() (err error) {
	if m.state != Uninitialized {
		return errors.Errorf("lifecycle: cannot run from state %s", m.state)
	}

	defer func() {
		if terr := m.terminate(); terr != nil && err == nil {
			err = errors.Wrap(terr, "teardown")
		}
	}()

	if err := m.acquire(); err != nil {
		graphics.Logger().Error("initialization failed", "state", m.state.String(), "error", err)
		return err
	}

	m.transition(Running)
	m.loop()
	return nil
}

func (m *Manager) acquire() error {
	steps := []struct {
		to      State
		enabled bool
		run     func() error
	}{
		{WindowReady, true, m.openWindow},
		{InstanceReady, true, m.createInstance},
		{DeviceSelected, true, m.selectDevice},
		{DeviceReady, m.config.LogicalDevice, m.createDevice},
		{SurfaceReady, m.config.Surface, m.bindSurface},
	}
	for _, step := range steps {
		if !step.enabled {
			graphics.Logger().Debug("stage disabled", "state", step.to.String())
			continue
		}
		if err := step.run(); err != nil {
			return err
		}
		m.transition(step.to)
	}
	return nil
}

func (m *Manager) transition(to State) {
	graphics.Logger().Debug("state", "from", m.state.String(), "to", to.String())
	m.state = to
}

func (m *Manager) openWindow() error {
	if m.open == nil || m.load == nil {
		return graphics.NewError(graphics.PlatformInit, "no window opener or driver loader configured")
	}

	window, err := m.open(m.config.Width, m.config.Height, m.config.Title)
	if err != nil {
		if graphics.KindOf(err) == graphics.KindUnknown {
			err = graphics.WrapError(graphics.PlatformInit, err, "failed to open window")
		}
		return err
	}
	m.ctx.Window = window
	m.scope.push("window", window.Close)

	driver, err := m.load(window)
	if err != nil {
		return graphics.WrapError(graphics.PlatformInit, err, "failed to load graphics driver")
	}
	m.ctx.Driver = driver
	return nil
}

func (m *Manager) createInstance() error {
	factory := graphics.NewInstanceFactory(m.ctx.Driver, m.config.Instance)
	instance, err := factory.Create(m.ctx.Window.RequiredInstanceExtensions())
	if err != nil {
		return err
	}
	m.ctx.Instance = instance
	m.scope.push("instance", instance.Destroy)
	return nil
}

func (m *Manager) selectDevice() error {
	physical, err := graphics.NewDeviceSelector(m.ctx.Driver, m.config.VendorPrefixes...).Select(m.ctx.Instance)
	if err != nil {
		return err
	}
	m.ctx.Physical = physical
	fmt.Fprintf(m.config.Report, "Using device: %s\n", physical.Name())
	return nil
}

func (m *Manager) createDevice() error {
	device, err := graphics.NewLogicalDeviceFactory(m.ctx.Driver).Create(m.ctx.Instance, m.ctx.Physical, m.config.Queue)
	if err != nil {
		return err
	}
	m.ctx.Device = device
	m.scope.push("device", device.Destroy)
	return nil
}

func (m *Manager) bindSurface() error {
	binder := graphics.NewSurfaceBinder(m.ctx.Driver)
	surface, err := binder.Bind(m.ctx.Instance, m.ctx.Window)
	if err != nil {
		return err
	}
	m.ctx.Surface = surface
	m.scope.push("surface", surface.Destroy)

	if m.ctx.Device != nil {
		return binder.VerifyPresentation(surface, m.ctx.Device)
	}
	return nil
}

// loop polls until the window asks to close. The close flag is checked
// once per iteration.
func (m *Manager) loop() {
	for !m.ctx.Window.ShouldClose() {
		if m.config.MaxFrames > 0 && m.frames >= m.config.MaxFrames {
			graphics.Logger().Debug("frame limit reached", "frames", m.frames)
			return
		}
		m.ctx.Window.PollEvents()
		m.frames++
	}
}

func (m *Manager) terminate() error {
	err := m.scope.unwind()
	m.ctx = Context{}
	m.transition(Terminated)
	return err
}

// Resources lists the acquired resources in acquisition order. After Run
// returns it is empty.
func (m *Manager) Resources() []string {
	return m.scope.names()
}
