package graphics

import (
	"runtime"

	"github.com/pkg/errors"
)

// Instance owns an InstanceHandle. Devices and surfaces derived from it
// must be destroyed first; Destroy refuses while any are still live.
type Instance struct {
	driver      Driver
	handle      InstanceHandle
	extensions  []string
	portability bool
	live        int
}

func (i *Instance) Handle() InstanceHandle { return i.handle }
func (i *Instance) Driver() Driver         { return i.driver }
func (i *Instance) Extensions() []string   { return i.extensions }
func (i *Instance) Portability() bool      { return i.portability }
func (i *Instance) Valid() bool            { return i != nil && i.handle != 0 }

func (i *Instance) Destroy() error {
	if !i.Valid() {
		return nil
	}
	if i.live > 0 {
		return errors.Errorf("instance still has %d live dependents", i.live)
	}
	h := i.handle
	i.handle = 0
	if err := i.driver.DestroyInstance(h); err != nil {
		return errors.Wrap(err, "destroy instance")
	}
	Logger().Info("instance destroyed")
	return nil
}

func (i *Instance) acquire() { i.live++ }
func (i *Instance) release() { i.live-- }

type InstanceConfig struct {
	App              AppInfo
	Portability      bool
	EnableValidation bool
	// ExtraExtensions are enabled on top of the window layer's set.
	ExtraExtensions []string
}

func DefaultInstanceConfig() InstanceConfig {
	return InstanceConfig{
		App: AppInfo{
			AppName:       "Hello Triangle",
			AppVersion:    MakeVersion(1, 0, 0),
			EngineName:    "BEAST",
			EngineVersion: MakeVersion(1, 0, 0),
			APIVersion:    APIVersion12,
		},
		Portability: PortabilityRequired(),
	}
}

// PortabilityRequired reports whether the host's driver layer only
// exposes every device through the portability enumeration (MoltenVK).
func PortabilityRequired() bool {
	return runtime.GOOS == "darwin" || runtime.GOOS == "ios"
}

type InstanceFactory struct {
	driver Driver
	config InstanceConfig
}

func NewInstanceFactory(driver Driver, config InstanceConfig) *InstanceFactory {
	return &InstanceFactory{driver: driver, config: config}
}

// Extensions returns the instance extension list for the given window
// layer requirements, in order and without duplicates.
func (f *InstanceFactory) Extensions(required []string) []string {
	names := make([]string, 0, len(required)+len(f.config.ExtraExtensions)+1)
	seen := make(map[string]bool)
	add := func(list ...string) {
		for _, name := range list {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	add(required...)
	add(f.config.ExtraExtensions...)
	if f.config.Portability {
		add(PortabilityEnumerationExtension)
	}
	return names
}

// Create makes exactly one instance creation call. There is no retry.
func (f *InstanceFactory) Create(required []string) (*Instance, error) {
	info := InstanceCreateInfo{
		App:                  f.config.App,
		Extensions:           f.Extensions(required),
		EnumeratePortability: f.config.Portability,
	}

	if f.config.EnableValidation {
		if err := f.checkValidationLayer(); err != nil {
			return nil, err
		}
		info.Layers = []string{ValidationLayer}
	}

	Logger().Debug("creating instance",
		"extensions", info.Extensions,
		"layers", info.Layers,
		"portability", info.EnumeratePortability)

	handle, status := f.driver.CreateInstance(info)
	if status != Success {
		return nil, statusError(InstanceCreation, status, "failed to create instance")
	}
	if handle == 0 {
		return nil, NewError(InstanceCreation, "failed to create instance: driver returned a null handle")
	}

	Logger().Info("instance created", "app", info.App.AppName, "engine", info.App.EngineName)
	return &Instance{
		driver:      f.driver,
		handle:      handle,
		extensions:  info.Extensions,
		portability: info.EnumeratePortability,
	}, nil
}

func (f *InstanceFactory) checkValidationLayer() error {
	layers, status := f.driver.EnumerateInstanceLayers()
	if status != Success {
		return statusError(InstanceCreation, status, "failed to enumerate instance layers")
	}
	for _, layer := range layers {
		if layer == ValidationLayer {
			return nil
		}
	}
	return NewError(InstanceCreation, "validation layers requested but not available")
}
