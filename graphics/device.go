package graphics

import (
	"github.com/pkg/errors"
)

// AnyFamily lets the factory choose the queue family.
const AnyFamily = -1

// QueueSpec describes the single queue requested from the device.
type QueueSpec struct {
	// Flags the chosen family must support.
	Flags QueueFlags
	// Family pins a family index, or AnyFamily.
	Family   int
	Priority float32
}

func DefaultQueueSpec() QueueSpec {
	return QueueSpec{
		Flags:    QueueGraphics,
		Family:   AnyFamily,
		Priority: 1.0,
	}
}

// FindQueueFamily returns the first family supporting spec.Flags, or
// validates the pinned one.
func FindQueueFamily(families []QueueFamily, spec QueueSpec) (uint32, bool) {
	if spec.Family != AnyFamily {
		if spec.Family < 0 || spec.Family >= len(families) {
			return 0, false
		}
		return uint32(spec.Family), families[spec.Family].Supports(spec.Flags)
	}
	for i, f := range families {
		if f.Supports(spec.Flags) {
			return uint32(i), true
		}
	}
	return 0, false
}

// Device owns a logical device opened on one physical device. It keeps
// its instance alive until Destroy.
type Device struct {
	instance *Instance
	physical PhysicalDevice
	handle   DeviceHandle
	queue    QueueHandle
	family   uint32
}

func (d *Device) Handle() DeviceHandle     { return d.handle }
func (d *Device) Physical() PhysicalDevice { return d.physical }
func (d *Device) Queue() QueueHandle       { return d.queue }
func (d *Device) QueueFamily() uint32      { return d.family }
func (d *Device) Valid() bool              { return d != nil && d.handle != 0 }

func (d *Device) Destroy() error {
	if !d.Valid() {
		return nil
	}
	h := d.handle
	d.handle = 0
	d.queue = 0
	d.instance.release()
	if err := d.instance.driver.DestroyDevice(h); err != nil {
		return errors.Wrap(err, "destroy device")
	}
	Logger().Info("logical device destroyed")
	return nil
}

type LogicalDeviceFactory struct {
	driver Driver
}

func NewLogicalDeviceFactory(driver Driver) *LogicalDeviceFactory {
	return &LogicalDeviceFactory{driver: driver}
}

// Create opens one queue with no optional features. The portability
// subset extension is enabled when the instance runs in portability mode.
func (f *LogicalDeviceFactory) Create(instance *Instance, physical PhysicalDevice, spec QueueSpec) (*Device, error) {
	if !instance.Valid() {
		return nil, NewError(DeviceCreation, "cannot create a device without an instance")
	}
	if physical.Handle == 0 {
		return nil, NewError(DeviceCreation, "no physical device selected")
	}

	families := f.driver.QueueFamilyProperties(physical.Handle)
	Logger().Debug("queue families", "device", physical.Name(), "count", len(families))

	family, ok := FindQueueFamily(families, spec)
	if !ok {
		return nil, NewError(DeviceCreation, "no queue family on %q supports the requested operations", physical.Name())
	}

	priority := spec.Priority
	if priority == 0 {
		priority = 1.0
	}
	info := DeviceCreateInfo{
		QueueFamily:     family,
		QueuePriorities: []float32{priority},
	}
	if instance.portability {
		info.Extensions = append(info.Extensions, PortabilitySubsetExtension)
	}

	handle, status := f.driver.CreateDevice(physical.Handle, info)
	if status != Success {
		return nil, statusError(DeviceCreation, status, "unable to create device")
	}
	if handle == 0 {
		return nil, NewError(DeviceCreation, "unable to create device: driver returned a null handle")
	}

	instance.acquire()
	d := &Device{
		instance: instance,
		physical: physical,
		handle:   handle,
		family:   family,
	}
	d.queue = f.driver.DeviceQueue(handle, family, 0)

	Logger().Info("logical device created", "device", physical.Name(), "queueFamily", family)
	return d, nil
}
