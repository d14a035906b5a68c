package graphics

import (
	"github.com/pkg/errors"
)

// Surface binds an instance to a window for presentation.
type Surface struct {
	instance *Instance
	window   Window
	handle   SurfaceHandle
}

func (s *Surface) Handle() SurfaceHandle { return s.handle }
func (s *Surface) Window() Window        { return s.window }
func (s *Surface) Valid() bool           { return s != nil && s.handle != 0 }

func (s *Surface) Destroy() error {
	if !s.Valid() {
		return nil
	}
	h := s.handle
	s.handle = 0
	s.instance.release()
	if err := s.instance.driver.DestroySurface(s.instance.handle, h); err != nil {
		return errors.Wrap(err, "destroy surface")
	}
	Logger().Info("surface destroyed")
	return nil
}

// SurfaceBinder hands surface creation to the window layer through the
// driver. It does no platform branching of its own.
type SurfaceBinder struct {
	driver Driver
}

func NewSurfaceBinder(driver Driver) *SurfaceBinder {
	return &SurfaceBinder{driver: driver}
}

func (b *SurfaceBinder) Bind(instance *Instance, window Window) (*Surface, error) {
	if !instance.Valid() {
		return nil, NewError(SurfaceCreation, "cannot create a surface without an instance")
	}
	if window == nil {
		return nil, NewError(SurfaceCreation, "cannot create a surface without a window")
	}

	handle, err := b.driver.CreateSurface(instance.handle, window)
	if err != nil {
		return nil, WrapError(SurfaceCreation, err, "unable to create surface")
	}
	if handle == 0 {
		return nil, NewError(SurfaceCreation, "unable to create surface: null handle")
	}

	instance.acquire()
	Logger().Info("surface created")
	return &Surface{instance: instance, window: window, handle: handle}, nil
}

// VerifyPresentation checks that the device's queue family can present to
// the surface.
func (b *SurfaceBinder) VerifyPresentation(surface *Surface, device *Device) error {
	if !surface.Valid() || !device.Valid() {
		return NewError(SurfaceCreation, "presentation check needs a live surface and device")
	}
	supported, status := b.driver.SurfaceSupport(device.physical.Handle, device.family, surface.handle)
	if status != Success {
		return statusError(SurfaceCreation, status, "failed to query presentation support")
	}
	if !supported {
		return NewError(SurfaceCreation, "queue family %d of %q cannot present to the surface", device.family, device.physical.Name())
	}
	return nil
}
