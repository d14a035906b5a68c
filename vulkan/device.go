package vulkan

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vkbootstrap/graphics"
)

func (d *Driver) EnumeratePhysicalDevices(h graphics.InstanceHandle, count *uint32, out []graphics.PhysicalDeviceHandle) graphics.Result {
	instance, err := d.instance(h)
	if err != nil {
		graphics.Logger().Error("enumerate physical devices", "error", err)
		return graphics.ErrorInitializationFailed
	}

	if out == nil {
		return result(vk.EnumeratePhysicalDevices(instance, count, nil))
	}

	if int(*count) > len(out) {
		*count = uint32(len(out))
	}
	gpus := make([]vk.PhysicalDevice, *count)
	res := vk.EnumeratePhysicalDevices(instance, count, gpus)
	if res != vk.Success && res != vk.Incomplete {
		return result(res)
	}
	for i := 0; i < int(*count); i++ {
		out[i] = graphics.PhysicalDeviceHandle(d.physical.put(gpus[i]))
	}
	return result(res)
}

func (d *Driver) PhysicalDeviceProperties(h graphics.PhysicalDeviceHandle) graphics.DeviceProperties {
	gpu, ok := d.physical.get(uintptr(h))
	if !ok {
		return graphics.DeviceProperties{}
	}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()

	return graphics.DeviceProperties{
		Name:       vk.ToString(props.DeviceName[:]),
		Type:       deviceType(props.DeviceType),
		VendorID:   props.VendorID,
		DeviceID:   props.DeviceID,
		APIVersion: props.ApiVersion,
	}
}

func (d *Driver) QueueFamilyProperties(h graphics.PhysicalDeviceHandle) []graphics.QueueFamily {
	gpu, ok := d.physical.get(uintptr(h))
	if !ok {
		return nil
	}

	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	if count == 0 {
		return nil
	}
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, props)

	families := make([]graphics.QueueFamily, 0, count)
	for i := range props[:count] {
		props[i].Deref()
		families = append(families, graphics.QueueFamily{
			Flags: graphics.QueueFlags(props[i].QueueFlags),
			Count: props[i].QueueCount,
		})
	}
	return families
}

func (d *Driver) CreateDevice(h graphics.PhysicalDeviceHandle, info graphics.DeviceCreateInfo) (graphics.DeviceHandle, graphics.Result) {
	gpu, ok := d.physical.get(uintptr(h))
	if !ok {
		return 0, graphics.ErrorInitializationFailed
	}

	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: info.QueueFamily,
		QueueCount:       uint32(len(info.QueuePriorities)),
		PQueuePriorities: info.QueuePriorities,
	}}

	createInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(info.Extensions)),
		PpEnabledExtensionNames: safeStrings(info.Extensions),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}

	var device vk.Device
	if res := vk.CreateDevice(gpu, &createInfo, nil, &device); res != vk.Success {
		return 0, result(res)
	}
	return graphics.DeviceHandle(d.devices.put(device)), graphics.Success
}

func (d *Driver) DeviceQueue(h graphics.DeviceHandle, family, index uint32) graphics.QueueHandle {
	device, ok := d.devices.get(uintptr(h))
	if !ok {
		return 0
	}
	var queue vk.Queue
	vk.GetDeviceQueue(device, family, index, &queue)
	return graphics.QueueHandle(d.queues.put(queue))
}

func (d *Driver) DestroyDevice(h graphics.DeviceHandle) error {
	device, ok := d.devices.drop(uintptr(h))
	if !ok {
		return errors.Errorf("unknown device handle %d", h)
	}
	d.queues.reset()

	res := vk.DeviceWaitIdle(device)
	vk.DestroyDevice(device, nil)
	if res != vk.Success {
		return errors.Wrap(vk.Error(res), "wait for device idle")
	}
	return nil
}
