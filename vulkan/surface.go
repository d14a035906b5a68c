package vulkan

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vkbootstrap/graphics"
)

// CreateSurface asks the window layer for a native surface; it picks the
// platform surface extension declared at instance creation.
func (d *Driver) CreateSurface(h graphics.InstanceHandle, window graphics.Window) (graphics.SurfaceHandle, error) {
	instance, err := d.instance(h)
	if err != nil {
		return 0, err
	}

	raw, err := window.CreateWindowSurface(instance)
	if err != nil {
		return 0, errors.Wrap(err, "create window surface")
	}
	surface := vk.SurfaceFromPointer(raw)
	if surface == vk.NullSurface {
		return 0, errors.New("create window surface: null surface")
	}
	return graphics.SurfaceHandle(d.surfaces.put(surface)), nil
}

func (d *Driver) SurfaceSupport(p graphics.PhysicalDeviceHandle, family uint32, s graphics.SurfaceHandle) (bool, graphics.Result) {
	gpu, ok := d.physical.get(uintptr(p))
	if !ok {
		return false, graphics.ErrorInitializationFailed
	}
	surface, ok := d.surfaces.get(uintptr(s))
	if !ok {
		return false, graphics.ErrorSurfaceLost
	}

	var supported vk.Bool32
	if res := vk.GetPhysicalDeviceSurfaceSupport(gpu, family, surface, &supported); res != vk.Success {
		return false, result(res)
	}
	return supported == vk.True, graphics.Success
}

func (d *Driver) DestroySurface(h graphics.InstanceHandle, s graphics.SurfaceHandle) error {
	instance, err := d.instance(h)
	if err != nil {
		return errors.Wrap(err, "destroy surface")
	}
	surface, ok := d.surfaces.drop(uintptr(s))
	if !ok {
		return errors.Errorf("unknown surface handle %d", s)
	}
	vk.DestroySurface(instance, surface, nil)
	return nil
}
