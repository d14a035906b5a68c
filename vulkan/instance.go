package vulkan

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vkbootstrap/graphics"
)

// Driver is the vulkan-go implementation of graphics.Driver. It is not safe
// for concurrent use; the bootstrap runs on one locked thread.
type Driver struct {
	instances handles[vk.Instance]
	physical  handles[vk.PhysicalDevice]
	devices   handles[vk.Device]
	queues    handles[vk.Queue]
	surfaces  handles[vk.Surface]
}

func NewDriver() *Driver {
	return &Driver{}
}

var _ graphics.Driver = (*Driver)(nil)

func (d *Driver) EnumerateInstanceLayers() ([]string, graphics.Result) {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return nil, result(res)
	}
	if count == 0 {
		return nil, graphics.Success
	}

	props := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, props); res != vk.Success && res != vk.Incomplete {
		return nil, result(res)
	}

	layers := make([]string, 0, count)
	for i := range props[:count] {
		props[i].Deref()
		layers = append(layers, vk.ToString(props[i].LayerName[:]))
	}
	return layers, graphics.Success
}

func (d *Driver) CreateInstance(info graphics.InstanceCreateInfo) (graphics.InstanceHandle, graphics.Result) {
	var flags vk.InstanceCreateFlags
	if info.EnumeratePortability {
		flags |= instanceCreateEnumeratePortability
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(info.App.AppName),
		ApplicationVersion: info.App.AppVersion,
		PEngineName:        safeString(info.App.EngineName),
		EngineVersion:      info.App.EngineVersion,
		ApiVersion:         info.App.APIVersion,
	}

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		Flags:                   flags,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(info.Extensions)),
		PpEnabledExtensionNames: safeStrings(info.Extensions),
		EnabledLayerCount:       uint32(len(info.Layers)),
		PpEnabledLayerNames:     safeStrings(info.Layers),
	}

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return 0, result(res)
	}

	if err := vk.InitInstance(instance); err != nil {
		graphics.Logger().Error("failed to load instance functions", "error", err)
		vk.DestroyInstance(instance, nil)
		return 0, graphics.ErrorInitializationFailed
	}

	return graphics.InstanceHandle(d.instances.put(instance)), graphics.Success
}

func (d *Driver) DestroyInstance(h graphics.InstanceHandle) error {
	instance, ok := d.instances.drop(uintptr(h))
	if !ok {
		return errors.Errorf("unknown instance handle %d", h)
	}
	if d.devices.len() > 0 || d.surfaces.len() > 0 {
		graphics.Logger().Warn("destroying instance with live children",
			"devices", d.devices.len(), "surfaces", d.surfaces.len())
	}
	vk.DestroyInstance(instance, nil)
	d.physical.reset()
	return nil
}

func (d *Driver) instance(h graphics.InstanceHandle) (vk.Instance, error) {
	instance, ok := d.instances.get(uintptr(h))
	if !ok {
		return nil, errors.Errorf("unknown instance handle %d", h)
	}
	return instance, nil
}
