package lifecycle

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vkbootstrap/graphics"
	"vkbootstrap/graphics/graphicstest"
)

type fixture struct {
	rec    *graphicstest.Recorder
	driver *graphicstest.Driver
	window *graphicstest.Window
}

func newFixture() *fixture {
	rec := graphicstest.NewRecorder()
	f := &fixture{
		rec:    rec,
		driver: graphicstest.NewDriver(rec),
		window: graphicstest.NewWindow(rec),
	}
	f.driver.Devices = []graphics.DeviceProperties{
		{Name: "Intel UHD 630", Type: graphics.DeviceTypeIntegratedGPU},
		{Name: "NVIDIA RTX 3080", Type: graphics.DeviceTypeDiscreteGPU},
		{Name: "llvmpipe", Type: graphics.DeviceTypeVirtualGPU},
	}
	f.window.CloseOnPoll = 3
	return f
}

func (f *fixture) manager(opts ...Option) *Manager {
	return New(f.window.Open, f.driver.Load, opts...)
}

func (f *fixture) assertReverseTeardown(t *testing.T) {
	t.Helper()
	assert.Equal(t, graphicstest.Reverse(f.rec.Created()), f.rec.Destroyed())
	for _, name := range []string{"instance", "device", "surface"} {
		assert.False(t, f.driver.Live(name), "%s leaked", name)
	}
}

func TestRunFullSequence(t *testing.T) {
	f := newFixture()
	var report bytes.Buffer
	m := f.manager(WithReport(&report))

	require.NoError(t, m.Run())

	assert.Equal(t, Terminated, m.State())
	assert.Equal(t, []string{"window", "instance", "device", "surface"}, f.rec.Created())
	assert.Equal(t, []string{"surface", "device", "instance", "window"}, f.rec.Destroyed())
	assert.Equal(t, "Using device: NVIDIA RTX 3080\n", report.String())
	assert.Equal(t, 3, m.Frames())
	assert.Equal(t, 800, f.window.Width)
	assert.Equal(t, 600, f.window.Height)
	assert.Equal(t, "Vulkan", f.window.Title)
	assert.True(t, f.rec.Called("surface support"))
	assert.Empty(t, m.Resources())
	f.assertReverseTeardown(t)
}

func TestRunOnlyOnce(t *testing.T) {
	f := newFixture()
	m := f.manager()
	require.NoError(t, m.Run())

	err := m.Run()
	assert.Error(t, err)
	assert.Equal(t, []string{"surface", "device", "instance", "window"}, f.rec.Destroyed())
}

func TestRunWindowOpenFailure(t *testing.T) {
	f := newFixture()
	f.window.OpenErr = errors.New("X11: failed to open display")
	m := f.manager()

	err := m.Run()
	assert.ErrorIs(t, err, graphics.ErrPlatformInit)
	assert.Equal(t, Terminated, m.State())
	assert.Empty(t, f.rec.Created())
	assert.Empty(t, f.rec.Destroyed())
	assert.False(t, f.rec.Called("load driver"))
}

func TestRunDriverLoadFailureClosesWindow(t *testing.T) {
	f := newFixture()
	f.driver.LoadErr = errors.New("vulkan loader not found")

	err := f.manager().Run()
	assert.ErrorIs(t, err, graphics.ErrPlatformInit)
	assert.Equal(t, []string{"window"}, f.rec.Destroyed())
}

func TestRunInstanceFailureSkipsEnumeration(t *testing.T) {
	f := newFixture()
	f.driver.InstanceStatus = graphics.ErrorIncompatibleDriver
	m := f.manager()

	err := m.Run()
	assert.ErrorIs(t, err, graphics.ErrInstanceCreation)
	assert.False(t, f.rec.Called("enumerate physical devices"))
	assert.Equal(t, []string{"window"}, f.rec.Destroyed())
	assert.Equal(t, 0, f.window.Polls())
	f.assertReverseTeardown(t)
}

func TestRunNoDevices(t *testing.T) {
	f := newFixture()
	f.driver.Devices = nil

	err := f.manager().Run()
	assert.ErrorIs(t, err, graphics.ErrNoSuitableDevice)
	assert.Equal(t, []string{"window", "instance"}, f.rec.Created())
	assert.Equal(t, []string{"instance", "window"}, f.rec.Destroyed())
	assert.False(t, f.rec.Called("query queue families"))
	f.assertReverseTeardown(t)
}

func TestRunDeviceFailure(t *testing.T) {
	f := newFixture()
	f.driver.DeviceStatus = graphics.ErrorOutOfDeviceMemory

	err := f.manager().Run()
	assert.ErrorIs(t, err, graphics.ErrDeviceCreation)
	assert.Equal(t, []string{"instance", "window"}, f.rec.Destroyed())
	f.assertReverseTeardown(t)
}

func TestRunSurfaceFailure(t *testing.T) {
	f := newFixture()
	f.driver.SurfaceErr = errors.New("native window in use")

	err := f.manager().Run()
	assert.ErrorIs(t, err, graphics.ErrSurfaceCreation)
	assert.Equal(t, []string{"device", "instance", "window"}, f.rec.Destroyed())
	f.assertReverseTeardown(t)
}

func TestRunPresentationUnsupported(t *testing.T) {
	f := newFixture()
	f.driver.NoPresent = true

	err := f.manager().Run()
	assert.ErrorIs(t, err, graphics.ErrSurfaceCreation)
	assert.Equal(t, []string{"surface", "device", "instance", "window"}, f.rec.Destroyed())
	assert.Equal(t, 0, f.window.Polls())
	f.assertReverseTeardown(t)
}

func TestRunTeardownContinuesPastFailures(t *testing.T) {
	f := newFixture()
	f.driver.DestroyErr = map[string]error{"device": errors.New("device lost")}
	f.window.CloseErr = errors.New("glfw terminate failed")

	err := f.manager().Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
	assert.Contains(t, err.Error(), "glfw terminate failed")
	assert.Equal(t, []string{"surface", "device", "instance", "window"}, f.rec.Destroyed())
	f.assertReverseTeardown(t)
}

func TestRunAcquisitionErrorWinsOverTeardownError(t *testing.T) {
	f := newFixture()
	f.driver.DeviceStatus = graphics.ErrorDeviceLost
	f.driver.DestroyErr = map[string]error{"instance": errors.New("instance busy")}

	err := f.manager().Run()
	assert.ErrorIs(t, err, graphics.ErrDeviceCreation)
	assert.NotContains(t, err.Error(), "instance busy")
	assert.Equal(t, []string{"instance", "window"}, f.rec.Destroyed())
}

func TestRunWithoutOptionalStages(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		created []string
	}{
		{"no surface", []Option{WithoutSurface()}, []string{"window", "instance", "device"}},
		{"no device", []Option{WithoutLogicalDevice()}, []string{"window", "instance", "surface"}},
		{"neither", []Option{WithoutLogicalDevice(), WithoutSurface()}, []string{"window", "instance"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			require.NoError(t, f.manager(tt.opts...).Run())
			assert.Equal(t, tt.created, f.rec.Created())
			assert.False(t, f.rec.Called("surface support"))
			f.assertReverseTeardown(t)
		})
	}
}

func TestRunMaxFrames(t *testing.T) {
	f := newFixture()
	f.window.CloseOnPoll = 0
	m := f.manager(WithMaxFrames(5))

	require.NoError(t, m.Run())
	assert.Equal(t, 5, m.Frames())
	assert.Equal(t, 5, f.window.Polls())
}

func TestRunOptionsReachComponents(t *testing.T) {
	f := newFixture()
	f.driver.Devices = []graphics.DeviceProperties{
		{Name: "NVIDIA RTX 3080", Type: graphics.DeviceTypeDiscreteGPU},
		{Name: "Qualcomm Adreno", Type: graphics.DeviceTypeIntegratedGPU},
	}
	f.window.Extensions = nil
	var report bytes.Buffer
	m := f.manager(
		WithWindow(1024, 768, "bootstrap"),
		WithPortability(true),
		WithVendorPrefixes("Qualcomm"),
		WithInstanceExtensions("VK_EXT_debug_utils"),
		WithApp(graphics.AppInfo{AppName: "probe", EngineName: "none", APIVersion: graphics.APIVersion11}),
		WithReport(&report),
	)

	require.NoError(t, m.Run())
	assert.Equal(t, 1024, f.window.Width)
	assert.Equal(t, "bootstrap", f.window.Title)
	assert.Equal(t, []string{"VK_EXT_debug_utils", graphics.PortabilityEnumerationExtension}, f.driver.InstanceInfo.Extensions)
	assert.Equal(t, "probe", f.driver.InstanceInfo.App.AppName)
	assert.Equal(t, []string{graphics.PortabilitySubsetExtension}, f.driver.DeviceInfo.Extensions)
	assert.Equal(t, "Using device: NVIDIA RTX 3080\n", report.String())
}

func TestPollWithoutEventsKeepsCloseFlag(t *testing.T) {
	w := graphicstest.NewWindow(graphicstest.NewRecorder())
	w.CloseOnPoll = 0

	w.PollEvents()
	w.PollEvents()
	assert.False(t, w.ShouldClose())

	w.RequestClose()
	w.PollEvents()
	assert.True(t, w.ShouldClose())
	w.PollEvents()
	assert.True(t, w.ShouldClose())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "SurfaceReady", SurfaceReady.String())
	assert.Equal(t, "State(42)", State(42).String())
}
