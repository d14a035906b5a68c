// Package graphicstest provides a scripted graphics.Driver and
// graphics.Window that record every call into a shared Recorder.
package graphicstest

import (
	"strings"

	"github.com/pkg/errors"

	"vkbootstrap/graphics"
)

const (
	createPrefix  = "create "
	destroyPrefix = "destroy "
)

// Recorder keeps the ordered call log of a Driver and Window pair.
type Recorder struct {
	calls []string
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) record(call string) {
	r.calls = append(r.calls, call)
}

func (r *Recorder) Calls() []string {
	return append([]string(nil), r.calls...)
}

// Created lists resource names in creation order.
func (r *Recorder) Created() []string { return r.withPrefix(createPrefix) }

// Destroyed lists resource names in destruction order.
func (r *Recorder) Destroyed() []string { return r.withPrefix(destroyPrefix) }

func (r *Recorder) Called(call string) bool {
	for _, c := range r.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (r *Recorder) withPrefix(prefix string) []string {
	var out []string
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, strings.TrimPrefix(c, prefix))
		}
	}
	return out
}

// Reverse returns a reversed copy of list.
func Reverse(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[len(list)-1-i] = s
	}
	return out
}

const firstPhysicalHandle = 100

// Driver is a fake graphics.Driver. Zero status fields mean success.
type Driver struct {
	Rec *Recorder

	Devices []graphics.DeviceProperties
	// Families per device index; a device without an entry exposes one
	// graphics-capable family.
	Families map[int][]graphics.QueueFamily
	Layers   []string

	InstanceStatus  graphics.Result
	EnumerateStatus graphics.Result
	DeviceStatus    graphics.Result
	SupportStatus   graphics.Result
	LayerStatus     graphics.Result
	SurfaceErr      error
	NoPresent       bool
	LoadErr         error
	// DestroyErr fails the destroy call of the named resource
	// ("instance", "device", "surface").
	DestroyErr map[string]error

	InstanceInfo graphics.InstanceCreateInfo
	DeviceInfo   graphics.DeviceCreateInfo
	DevicePhys   graphics.PhysicalDeviceHandle

	next uintptr
	live map[string]uintptr
}

func NewDriver(rec *Recorder) *Driver {
	return &Driver{Rec: rec, live: make(map[string]uintptr)}
}

// Load satisfies lifecycle.DriverLoader.
func (d *Driver) Load(graphics.Window) (graphics.Driver, error) {
	d.Rec.record("load driver")
	if d.LoadErr != nil {
		return nil, d.LoadErr
	}
	return d, nil
}

// Live reports whether the named resource is still allocated.
func (d *Driver) Live(name string) bool {
	_, ok := d.live[name]
	return ok
}

func (d *Driver) alloc(name string) uintptr {
	d.next++
	d.live[name] = d.next
	d.Rec.record(createPrefix + name)
	return d.next
}

func (d *Driver) free(name string, h uintptr) error {
	d.Rec.record(destroyPrefix + name)
	if got, ok := d.live[name]; !ok || got != h {
		return errors.Errorf("%s %d is not live", name, h)
	}
	delete(d.live, name)
	return d.DestroyErr[name]
}

func (d *Driver) EnumerateInstanceLayers() ([]string, graphics.Result) {
	d.Rec.record("enumerate layers")
	return d.Layers, d.LayerStatus
}

func (d *Driver) CreateInstance(info graphics.InstanceCreateInfo) (graphics.InstanceHandle, graphics.Result) {
	d.InstanceInfo = info
	if d.InstanceStatus != graphics.Success {
		d.Rec.record("instance creation failed")
		return 0, d.InstanceStatus
	}
	return graphics.InstanceHandle(d.alloc("instance")), graphics.Success
}

func (d *Driver) DestroyInstance(instance graphics.InstanceHandle) error {
	return d.free("instance", uintptr(instance))
}

func (d *Driver) EnumeratePhysicalDevices(instance graphics.InstanceHandle, count *uint32, devices []graphics.PhysicalDeviceHandle) graphics.Result {
	d.Rec.record("enumerate physical devices")
	if d.EnumerateStatus != graphics.Success {
		return d.EnumerateStatus
	}
	if devices == nil {
		*count = uint32(len(d.Devices))
		return graphics.Success
	}
	n := int(*count)
	if n > len(d.Devices) {
		n = len(d.Devices)
	}
	for i := 0; i < n; i++ {
		devices[i] = graphics.PhysicalDeviceHandle(firstPhysicalHandle + i)
	}
	*count = uint32(n)
	if n < len(d.Devices) {
		return graphics.Incomplete
	}
	return graphics.Success
}

func (d *Driver) index(h graphics.PhysicalDeviceHandle) int {
	i := int(h) - firstPhysicalHandle
	if i < 0 || i >= len(d.Devices) {
		return -1
	}
	return i
}

func (d *Driver) PhysicalDeviceProperties(h graphics.PhysicalDeviceHandle) graphics.DeviceProperties {
	if i := d.index(h); i >= 0 {
		return d.Devices[i]
	}
	return graphics.DeviceProperties{}
}

func (d *Driver) QueueFamilyProperties(h graphics.PhysicalDeviceHandle) []graphics.QueueFamily {
	d.Rec.record("query queue families")
	i := d.index(h)
	if i < 0 {
		return nil
	}
	if families, ok := d.Families[i]; ok {
		return families
	}
	return []graphics.QueueFamily{{Flags: graphics.QueueGraphics | graphics.QueueCompute | graphics.QueueTransfer, Count: 1}}
}

func (d *Driver) CreateDevice(physical graphics.PhysicalDeviceHandle, info graphics.DeviceCreateInfo) (graphics.DeviceHandle, graphics.Result) {
	d.DeviceInfo = info
	d.DevicePhys = physical
	if d.DeviceStatus != graphics.Success {
		d.Rec.record("device creation failed")
		return 0, d.DeviceStatus
	}
	return graphics.DeviceHandle(d.alloc("device")), graphics.Success
}

func (d *Driver) DeviceQueue(device graphics.DeviceHandle, family, index uint32) graphics.QueueHandle {
	return graphics.QueueHandle(uintptr(device)<<8 | uintptr(family)<<4 | uintptr(index) | 1)
}

func (d *Driver) DestroyDevice(device graphics.DeviceHandle) error {
	return d.free("device", uintptr(device))
}

func (d *Driver) CreateSurface(instance graphics.InstanceHandle, window graphics.Window) (graphics.SurfaceHandle, error) {
	if d.SurfaceErr != nil {
		d.Rec.record("surface creation failed")
		return 0, d.SurfaceErr
	}
	if _, err := window.CreateWindowSurface(instance); err != nil {
		return 0, err
	}
	return graphics.SurfaceHandle(d.alloc("surface")), nil
}

func (d *Driver) SurfaceSupport(physical graphics.PhysicalDeviceHandle, family uint32, surface graphics.SurfaceHandle) (bool, graphics.Result) {
	d.Rec.record("surface support")
	if d.SupportStatus != graphics.Success {
		return false, d.SupportStatus
	}
	return !d.NoPresent, graphics.Success
}

func (d *Driver) DestroySurface(instance graphics.InstanceHandle, surface graphics.SurfaceHandle) error {
	if !d.Live("instance") {
		d.Rec.record(destroyPrefix + "surface")
		return errors.New("surface destroyed after its instance")
	}
	return d.free("surface", uintptr(surface))
}

// Window is a fake graphics.Window with a scripted close request.
type Window struct {
	Rec        *Recorder
	Extensions []string
	// CloseOnPoll delivers a close request on that poll (1-based);
	// zero never closes.
	CloseOnPoll int
	OpenErr     error
	CloseErr    error

	Width, Height int
	Title         string

	polls          int
	closeRequested bool
	closed         bool
}

func NewWindow(rec *Recorder) *Window {
	return &Window{Rec: rec, Extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}}
}

// Open satisfies lifecycle.WindowOpener.
func (w *Window) Open(width, height int, title string) (graphics.Window, error) {
	if w.OpenErr != nil {
		w.Rec.record("window open failed")
		return nil, w.OpenErr
	}
	w.Width, w.Height, w.Title = width, height, title
	w.Rec.record(createPrefix + "window")
	return w, nil
}

func (w *Window) Polls() int { return w.polls }

// RequestClose raises the close flag the way a user closing the window
// would; it is observed on the next PollEvents.
func (w *Window) RequestClose() {
	if w.CloseOnPoll == 0 || w.CloseOnPoll > w.polls+1 {
		w.CloseOnPoll = w.polls + 1
	}
}

func (w *Window) ShouldClose() bool { return w.closeRequested }

func (w *Window) PollEvents() {
	w.polls++
	if w.CloseOnPoll > 0 && w.polls >= w.CloseOnPoll {
		w.closeRequested = true
	}
}

func (w *Window) RequiredInstanceExtensions() []string { return w.Extensions }

func (w *Window) CreateWindowSurface(instance interface{}) (uintptr, error) {
	if w.closed {
		return 0, errors.New("window already closed")
	}
	return 0xbeef, nil
}

func (w *Window) Close() error {
	w.Rec.record(destroyPrefix + "window")
	if w.closed {
		return errors.New("window closed twice")
	}
	w.closed = true
	return w.CloseErr
}
