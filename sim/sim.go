// Package sim ties the pieces together: it loads definition files and keeps
// the built devices addressable by their VISA-style resource names.
//
// Distinct devices are independent and may be queried concurrently; the
// registry itself is safe for concurrent lookup while definitions are being
// loaded. Queries into one device must still be serialized by the caller.
package sim

import (
	_ "embed"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/instrlab/go-visim/device"
	"github.com/instrlab/go-visim/logger"
	"github.com/instrlab/go-visim/simdef"
)

//go:embed default.yaml
var defaultDef []byte

// Simulator is a registry of simulated devices keyed by resource name.
type Simulator struct {
	devices *xsync.MapOf[string, *device.Device]
	logger  logger.Logger
}

// New creates an empty simulator. Diagnostics go to logger.Nop until
// SetLogger installs a sink.
func New() *Simulator {
	return &Simulator{
		devices: xsync.NewMapOf[string, *device.Device](),
		logger:  logger.Nop(),
	}
}

// SetLogger installs the diagnostic sink for the simulator and every device
// loaded afterwards.
func (s *Simulator) SetLogger(l logger.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Load reads a definition file (YAML or TOML) and registers one device
// instance per declared resource. Resources already registered under the
// same name are replaced.
func (s *Simulator) Load(path string) error {
	f, err := simdef.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return s.register(f)
}

// LoadDefault registers the definition shipped with the library: a single
// signal-generator style instrument reachable over serial, USB, TCPIP and
// GPIB resource names.
func (s *Simulator) LoadDefault() error {
	f, err := simdef.ParseYAML(defaultDef)
	if err != nil {
		return fmt.Errorf("load default definition: %w", err)
	}
	return s.register(f)
}

func (s *Simulator) register(f *simdef.File) error {
	resources, err := f.BuildResources()
	if err != nil {
		return err
	}
	for name, d := range resources {
		d.SetLogger(s.logger.With("resource", name))
		s.devices.Store(name, d)
		s.logger.Debug("registered resource", "resource", name, "device", d.Name())
	}
	return nil
}

// Device looks up the device registered under a resource name.
func (s *Simulator) Device(resourceName string) (*device.Device, bool) {
	return s.devices.Load(resourceName)
}

// Resources returns the currently registered resource names.
func (s *Simulator) Resources() []string {
	names := make([]string, 0, s.devices.Size())
	s.devices.Range(func(name string, _ *device.Device) bool {
		names = append(names, name)
		return true
	})
	return names
}
