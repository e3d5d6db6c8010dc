package gpu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/noop"   // BackendEmpty, used for dry runs and tests
	_ "github.com/gogpu/wgpu/hal/vulkan" // BackendVulkan
)

// backendNames maps CLI backend names to HAL variants.
var backendNames = map[string]gputypes.Backend{
	"vulkan": gputypes.BackendVulkan,
	"noop":   gputypes.BackendEmpty,
}

// BackendNames returns the accepted backend names in sorted order.
func BackendNames() []string {
	names := make([]string, 0, len(backendNames))
	for name := range backendNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Device is an opened HAL device together with the instance it came from.
type Device struct {
	Instance hal.Instance
	Device   hal.Device
	Queue    hal.Queue
	Info     gputypes.AdapterInfo
}

// Close destroys the device and its instance.
func (d *Device) Close() {
	if d.Device != nil {
		if err := d.Device.WaitIdle(); err != nil {
			slogger().Warn("wait idle before device destroy", "err", err)
		}
		d.Device.Destroy()
		d.Device = nil
	}
	if d.Instance != nil {
		d.Instance.Destroy()
		d.Instance = nil
	}
}

func createInstance(backend string) (hal.Instance, error) {
	variant, ok := backendNames[strings.ToLower(backend)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownBackend, backend, strings.Join(BackendNames(), ", "))
	}
	b, ok := hal.GetBackend(variant)
	if !ok {
		return nil, fmt.Errorf("%w: %s backend not registered", ErrUnknownBackend, backend)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create %s instance: %w", backend, err)
	}
	return instance, nil
}

// ListAdapters returns the adapters exposed by a backend.
func ListAdapters(backend string) ([]gputypes.AdapterInfo, error) {
	instance, err := createInstance(backend)
	if err != nil {
		return nil, err
	}
	defer instance.Destroy()

	adapters := instance.EnumerateAdapters(nil)
	infos := make([]gputypes.AdapterInfo, 0, len(adapters))
	for i := range adapters {
		infos = append(infos, adapters[i].Info)
	}
	return infos, nil
}

// OpenDevice opens a device on the named backend. Discrete and integrated
// GPUs are preferred over other adapter types.
func OpenDevice(backend string) (*Device, error) {
	instance, err := createInstance(backend)
	if err != nil {
		return nil, err
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%s: %w", backend, ErrNoAdapter)
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device on %s: %w", selected.Info.Name, err)
	}

	slogger().Info("GPU device opened",
		"backend", backend, "adapter", selected.Info.Name, "type", selected.Info.DeviceType.String())
	return &Device{
		Instance: instance,
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Info:     selected.Info,
	}, nil
}
