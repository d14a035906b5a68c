package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"vkbootstrap/graphics"
	"vkbootstrap/graphics/graphicstest"
)

func fakes() (*graphicstest.Recorder, *graphicstest.Driver, *graphicstest.Window) {
	rec := graphicstest.NewRecorder()
	d := graphicstest.NewDriver(rec)
	d.Devices = []graphics.DeviceProperties{
		{Name: "Intel UHD 630", Type: graphics.DeviceTypeIntegratedGPU},
		{Name: "NVIDIA RTX 3080", Type: graphics.DeviceTypeDiscreteGPU},
	}
	w := graphicstest.NewWindow(rec)
	w.CloseOnPoll = 1
	return rec, d, w
}

func TestRunSuccess(t *testing.T) {
	rec, d, w := fakes()
	var stdout, stderr bytes.Buffer

	code := run([]string{"-title", "probe", "-portability", "off"}, &stdout, &stderr, w.Open, d.Load)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Starting Vulkan application!\n")
	assert.Contains(t, stdout.String(), "Using device: NVIDIA RTX 3080\n")
	assert.Equal(t, "probe", w.Title)
	assert.Equal(t, []string{"surface", "device", "instance", "window"}, rec.Destroyed())
}

func TestRunInstanceFailureExitsNonZero(t *testing.T) {
	rec, d, w := fakes()
	d.InstanceStatus = graphics.ErrorIncompatibleDriver
	var stdout, stderr bytes.Buffer

	code := run(nil, &stdout, &stderr, w.Open, d.Load)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "failed to create instance")
	assert.False(t, rec.Called("enumerate physical devices"))
	assert.Equal(t, []string{"window"}, rec.Destroyed())
}

func TestRunBadFlags(t *testing.T) {
	_, d, w := fakes()
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 1, run([]string{"-portability", "sometimes"}, &stdout, &stderr, w.Open, d.Load))
	assert.Equal(t, 1, run([]string{"-width", "0"}, &stdout, &stderr, w.Open, d.Load))
	assert.Equal(t, 0, run([]string{"-h"}, &stdout, &stderr, w.Open, d.Load))
}

func TestParsePortability(t *testing.T) {
	on, err := parsePortability("on")
	assert.NoError(t, err)
	assert.True(t, on)

	off, err := parsePortability("off")
	assert.NoError(t, err)
	assert.False(t, off)

	auto, err := parsePortability("auto")
	assert.NoError(t, err)
	assert.Equal(t, graphics.PortabilityRequired(), auto)
}
