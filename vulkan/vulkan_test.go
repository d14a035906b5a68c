package vulkan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"

	"vkbootstrap/graphics"
)

func TestSafeString(t *testing.T) {
	assert.Equal(t, "\x00", safeString(""))
	assert.Equal(t, "VK_KHR_surface\x00", safeString("VK_KHR_surface"))
	assert.Equal(t, "VK_KHR_surface\x00", safeString("VK_KHR_surface\x00"))
	assert.Nil(t, safeStrings(nil))
	assert.Equal(t, []string{"a\x00", "b\x00"}, safeStrings([]string{"a", "b\x00"}))
}

func TestDeviceType(t *testing.T) {
	assert.Equal(t, graphics.DeviceTypeDiscreteGPU, deviceType(vk.PhysicalDeviceTypeDiscreteGpu))
	assert.Equal(t, graphics.DeviceTypeIntegratedGPU, deviceType(vk.PhysicalDeviceTypeIntegratedGpu))
	assert.Equal(t, graphics.DeviceTypeVirtualGPU, deviceType(vk.PhysicalDeviceTypeVirtualGpu))
	assert.Equal(t, graphics.DeviceTypeCPU, deviceType(vk.PhysicalDeviceTypeCpu))
	assert.Equal(t, graphics.DeviceTypeOther, deviceType(vk.PhysicalDeviceTypeOther))
}

func TestResultMatchesVkResult(t *testing.T) {
	assert.Equal(t, graphics.Success, result(vk.Success))
	assert.Equal(t, graphics.Incomplete, result(vk.Incomplete))
	assert.Equal(t, graphics.ErrorIncompatibleDriver, result(vk.ErrorIncompatibleDriver))
	assert.Equal(t, graphics.ErrorExtensionNotPresent, result(vk.ErrorExtensionNotPresent))
}

func TestHandles(t *testing.T) {
	var h handles[string]
	a := h.put("a")
	b := h.put("b")
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, h.put("a"))

	v, ok := h.get(b)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = h.drop(a)
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	_, ok = h.get(a)
	assert.False(t, ok)
	assert.Equal(t, 1, h.len())

	h.reset()
	assert.Equal(t, 0, h.len())
	assert.NotEqual(t, b, h.put("b"))
}

func TestUnknownHandles(t *testing.T) {
	d := NewDriver()
	assert.Error(t, d.DestroyInstance(7))
	assert.Error(t, d.DestroyDevice(7))
	assert.Error(t, d.DestroySurface(7, 7))
	assert.Equal(t, graphics.DeviceProperties{}, d.PhysicalDeviceProperties(7))
	assert.Nil(t, d.QueueFamilyProperties(7))
	assert.Zero(t, d.DeviceQueue(7, 0, 0))

	var count uint32
	assert.Equal(t, graphics.ErrorInitializationFailed, d.EnumeratePhysicalDevices(7, &count, nil))
}
