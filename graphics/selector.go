package graphics

import "strings"

// DefaultVendorPrefixes are device name prefixes of first-party silicon.
var DefaultVendorPrefixes = []string{"Apple"}

// PhysicalDevice is a non-owned reference into the driver's enumeration.
// It is never destroyed.
type PhysicalDevice struct {
	Handle     PhysicalDeviceHandle
	Properties DeviceProperties
}

func (p PhysicalDevice) Name() string { return p.Properties.Name }

// DeviceSelector picks a physical device by first match in enumeration
// order. Per candidate, a vendor name prefix is checked before the
// discrete GPU type; the first candidate matching either wins.
type DeviceSelector struct {
	driver   Driver
	prefixes []string
}

// NewDeviceSelector uses DefaultVendorPrefixes when no prefix is given.
func NewDeviceSelector(driver Driver, prefixes ...string) *DeviceSelector {
	if len(prefixes) == 0 {
		prefixes = DefaultVendorPrefixes
	}
	return &DeviceSelector{driver: driver, prefixes: prefixes}
}

// Enumerate lists every physical device of the instance. An empty list is
// not an error here.
func (s *DeviceSelector) Enumerate(instance *Instance) ([]PhysicalDevice, error) {
	if !instance.Valid() {
		return nil, NewError(NoSuitableDevice, "cannot enumerate devices without an instance")
	}

	var count uint32
	if status := s.driver.EnumeratePhysicalDevices(instance.handle, &count, nil); status != Success {
		return nil, statusError(NoSuitableDevice, status, "failed to count physical devices")
	}
	if count == 0 {
		return nil, nil
	}

	handles := make([]PhysicalDeviceHandle, count)
	status := s.driver.EnumeratePhysicalDevices(instance.handle, &count, handles)
	if status != Success && status != Incomplete {
		return nil, statusError(NoSuitableDevice, status, "failed to enumerate physical devices")
	}
	if int(count) < len(handles) {
		handles = handles[:count]
	}

	devices := make([]PhysicalDevice, 0, len(handles))
	for _, h := range handles {
		devices = append(devices, PhysicalDevice{
			Handle:     h,
			Properties: s.driver.PhysicalDeviceProperties(h),
		})
	}
	return devices, nil
}

// Choose applies the selection policy to candidates.
func (s *DeviceSelector) Choose(candidates []PhysicalDevice) (PhysicalDevice, bool) {
	for _, c := range candidates {
		if s.hasVendorPrefix(c.Properties.Name) {
			return c, true
		}
		if c.Properties.Type == DeviceTypeDiscreteGPU {
			return c, true
		}
	}
	return PhysicalDevice{}, false
}

func (s *DeviceSelector) Select(instance *Instance) (PhysicalDevice, error) {
	candidates, err := s.Enumerate(instance)
	if err != nil {
		return PhysicalDevice{}, err
	}
	if len(candidates) == 0 {
		return PhysicalDevice{}, NewError(NoSuitableDevice, "failed to find GPUs with Vulkan support")
	}

	for i, c := range candidates {
		Logger().Debug("physical device", "index", i, "name", c.Properties.Name, "type", c.Properties.Type.String())
	}

	chosen, ok := s.Choose(candidates)
	if !ok {
		return PhysicalDevice{}, NewError(NoSuitableDevice, "unable to find valid device among %d candidates", len(candidates))
	}

	Logger().Info("using device", "name", chosen.Properties.Name, "type", chosen.Properties.Type.String())
	return chosen, nil
}

func (s *DeviceSelector) hasVendorPrefix(name string) bool {
	for _, p := range s.prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
