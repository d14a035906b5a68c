// Package graphics holds the driver-independent half of the bootstrap:
// opaque handles, the Driver and Window contracts, the error taxonomy and
// the factories that turn a window into an instance, a device and a surface.
package graphics

import "fmt"

// Result is a driver status code. Values follow VkResult.
type Result int32

const (
	Success    Result = 0
	Incomplete Result = 5

	ErrorOutOfHostMemory      Result = -1
	ErrorOutOfDeviceMemory    Result = -2
	ErrorInitializationFailed Result = -3
	ErrorDeviceLost           Result = -4
	ErrorLayerNotPresent      Result = -6
	ErrorExtensionNotPresent  Result = -7
	ErrorFeatureNotPresent    Result = -8
	ErrorIncompatibleDriver   Result = -9
	ErrorSurfaceLost          Result = -1000000000
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Incomplete:
		return "incomplete"
	case ErrorOutOfHostMemory:
		return "out of host memory"
	case ErrorOutOfDeviceMemory:
		return "out of device memory"
	case ErrorInitializationFailed:
		return "initialization failed"
	case ErrorDeviceLost:
		return "device lost"
	case ErrorLayerNotPresent:
		return "layer not present"
	case ErrorExtensionNotPresent:
		return "extension not present"
	case ErrorFeatureNotPresent:
		return "feature not present"
	case ErrorIncompatibleDriver:
		return "incompatible driver"
	case ErrorSurfaceLost:
		return "surface lost"
	default:
		return fmt.Sprintf("result %d", int32(r))
	}
}

// Opaque handles handed out by a Driver. Zero is never a valid handle.
type (
	InstanceHandle       uintptr
	PhysicalDeviceHandle uintptr
	DeviceHandle         uintptr
	QueueHandle          uintptr
	SurfaceHandle        uintptr
)

type DeviceType int

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return "Integrated GPU"
	case DeviceTypeDiscreteGPU:
		return "Discrete GPU"
	case DeviceTypeVirtualGPU:
		return "Virtual GPU"
	case DeviceTypeCPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

type DeviceProperties struct {
	Name       string
	Type       DeviceType
	VendorID   uint32
	DeviceID   uint32
	APIVersion uint32
}

// QueueFlags mirrors VkQueueFlagBits.
type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
)

type QueueFamily struct {
	Flags QueueFlags
	Count uint32
}

func (f QueueFamily) Supports(flags QueueFlags) bool {
	return f.Count > 0 && f.Flags&flags == flags
}

// AppInfo is descriptive metadata passed to instance creation.
type AppInfo struct {
	AppName       string
	AppVersion    uint32
	EngineName    string
	EngineVersion uint32
	APIVersion    uint32
}

type InstanceCreateInfo struct {
	App                  AppInfo
	Extensions           []string
	Layers               []string
	EnumeratePortability bool
}

type DeviceCreateInfo struct {
	QueueFamily     uint32
	QueuePriorities []float32
	Extensions      []string
}

func MakeVersion(major, minor, patch uint32) uint32 {
	return (major << 22) | (minor << 12) | patch
}

var (
	APIVersion10 = MakeVersion(1, 0, 0)
	APIVersion11 = MakeVersion(1, 1, 0)
	APIVersion12 = MakeVersion(1, 2, 0)
)

const (
	PortabilityEnumerationExtension = "VK_KHR_portability_enumeration"
	PortabilitySubsetExtension      = "VK_KHR_portability_subset"
	ValidationLayer                 = "VK_LAYER_KHRONOS_validation"
)

// Window is the windowing layer as seen by the graphics code.
type Window interface {
	ShouldClose() bool
	PollEvents()
	RequiredInstanceExtensions() []string
	// CreateWindowSurface receives the driver's native instance and
	// returns the native surface.
	CreateWindowSurface(instance interface{}) (uintptr, error)
	Close() error
}

// Driver is the native graphics API. Create calls report a Result; any
// value other than Success is fatal for that call.
type Driver interface {
	EnumerateInstanceLayers() ([]string, Result)
	CreateInstance(info InstanceCreateInfo) (InstanceHandle, Result)
	DestroyInstance(instance InstanceHandle) error

	// EnumeratePhysicalDevices follows the two-call pattern: a nil slice
	// stores the device count, a sized slice is filled up to *count.
	EnumeratePhysicalDevices(instance InstanceHandle, count *uint32, devices []PhysicalDeviceHandle) Result
	PhysicalDeviceProperties(device PhysicalDeviceHandle) DeviceProperties
	QueueFamilyProperties(device PhysicalDeviceHandle) []QueueFamily

	CreateDevice(physical PhysicalDeviceHandle, info DeviceCreateInfo) (DeviceHandle, Result)
	DeviceQueue(device DeviceHandle, family, index uint32) QueueHandle
	DestroyDevice(device DeviceHandle) error

	CreateSurface(instance InstanceHandle, window Window) (SurfaceHandle, error)
	SurfaceSupport(physical PhysicalDeviceHandle, family uint32, surface SurfaceHandle) (bool, Result)
	DestroySurface(instance InstanceHandle, surface SurfaceHandle) error
}
