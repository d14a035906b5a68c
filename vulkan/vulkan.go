// Package vulkan implements graphics.Driver on top of the vulkan-go
// bindings. Native handles stay inside the driver; callers only see the
// opaque graphics handles.
package vulkan

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vkbootstrap/graphics"
)

// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
const instanceCreateEnumeratePortability vk.InstanceCreateFlags = 0x00000001

type procAddrSource interface {
	InstanceProcAddr() unsafe.Pointer
}

// Load binds the Vulkan loader, preferring the one the window layer
// already resolved, and returns a driver.
func Load(window graphics.Window) (*Driver, error) {
	if src, ok := window.(procAddrSource); ok && src.InstanceProcAddr() != nil {
		vk.SetGetInstanceProcAddr(src.InstanceProcAddr())
	} else if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return nil, errors.Wrap(err, "locate vulkan loader")
	}
	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "initialize vulkan")
	}
	graphics.Logger().Debug("vulkan loader bound")
	return NewDriver(), nil
}

// LoadDriver adapts Load to the lifecycle's driver loader.
func LoadDriver(window graphics.Window) (graphics.Driver, error) {
	d, err := Load(window)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func result(r vk.Result) graphics.Result {
	return graphics.Result(r)
}

func deviceType(t vk.PhysicalDeviceType) graphics.DeviceType {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return graphics.DeviceTypeIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return graphics.DeviceTypeDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return graphics.DeviceTypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return graphics.DeviceTypeCPU
	default:
		return graphics.DeviceTypeOther
	}
}

// safeString null-terminates s for the C side.
func safeString(s string) string {
	if len(s) == 0 {
		return "\x00"
	}
	if s[len(s)-1] != '\x00' {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}
