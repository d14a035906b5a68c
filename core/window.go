package core

import (
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"vkbootstrap/graphics"
)

func init() {
	runtime.LockOSThread()
}

// Window is the native window and its event pump. The graphics API owns
// rendering, so no client API context is created.
type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	closed bool
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     800,
		Height:    600,
		Title:     "Vulkan",
		Resizable: false,
	}
}

func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, graphics.WrapError(graphics.PlatformInit, err, "failed to initialize GLFW")
	}

	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, graphics.NewError(graphics.PlatformInit, "GLFW found no Vulkan loader")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, graphics.WrapError(graphics.PlatformInit, err, "failed to create window")
	}

	graphics.Logger().Info("window created", "width", config.Width, "height", config.Height, "title", config.Title)
	return &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}, nil
}

// Open adapts NewWindow to the lifecycle's window opener.
func Open(width, height int, title string) (graphics.Window, error) {
	config := DefaultWindowConfig()
	config.Width = width
	config.Height = height
	config.Title = title

	w, err := NewWindow(config)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

// PollEvents processes pending events and returns immediately.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.Handle.GetRequiredInstanceExtensions()
}

// CreateWindowSurface expects the driver's native VkInstance.
func (w *Window) CreateWindowSurface(instance interface{}) (uintptr, error) {
	return w.Handle.CreateWindowSurface(instance, nil)
}

// InstanceProcAddr is GLFW's vkGetInstanceProcAddr, used to bind the
// Vulkan loader GLFW already found.
func (w *Window) InstanceProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

// Close destroys the window and terminates GLFW. Only the first call has
// an effect.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.Handle.Destroy()
	glfw.Terminate()
	graphics.Logger().Info("window destroyed")
	return nil
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
