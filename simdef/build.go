package simdef

import (
	"errors"
	"fmt"
	"sort"

	"github.com/instrlab/go-visim/device"
	"github.com/instrlab/go-visim/prop"
)

var (
	// ErrUnknownDevice indicates a resource referencing a device name the
	// file does not define.
	ErrUnknownDevice = errors.New("resource references an undefined device")
)

// BuildDevice constructs a fresh device instance from its definition. Every
// call builds independent property state, so two resources backed by the
// same definition never share values.
//
// Any conversion, constraint or pattern error in the definition aborts the
// build: an invalid definition must fail loading, not limp along.
func (f *File) BuildDevice(name string) (*device.Device, error) {
	def, ok := f.Devices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}

	d := device.NewDevice(name)

	for class, eom := range def.EOM {
		if err := d.SetEOM(class, eom.Query, eom.Response); err != nil {
			return nil, fmt.Errorf("device %q: %w", name, err)
		}
	}
	for kind, resp := range def.Error {
		d.AddError(kind, textOrNoResponse(resp))
	}
	for _, dia := range def.Dialogues {
		d.AddDialogue(dia.Query, textOrNoResponse(dia.Response))
	}

	if err := buildProperties(&d.Component, def.Properties); err != nil {
		return nil, fmt.Errorf("device %q: %w", name, err)
	}

	// Channel groups match after the device's own tables, in a stable order.
	chNames := make([]string, 0, len(def.Channels))
	for chName := range def.Channels {
		chNames = append(chNames, chName)
	}
	sort.Strings(chNames)

	for _, chName := range chNames {
		chDef := def.Channels[chName]
		ids := make([]string, 0, len(chDef.IDs))
		for _, id := range chDef.IDs {
			ids = append(ids, string(id))
		}
		ch := device.NewChannels(d, chName, ids, chDef.CanSelect)

		for _, dia := range chDef.Dialogues {
			ch.AddDialogue(dia.Query, textOrNoResponse(dia.Response))
		}
		if err := buildChannelProperties(ch, chDef.Properties); err != nil {
			return nil, fmt.Errorf("device %q channels %q: %w", name, chName, err)
		}
	}

	return d, nil
}

// Build constructs every device the file defines, keyed by device name.
func (f *File) Build() (map[string]*device.Device, error) {
	devices := make(map[string]*device.Device, len(f.Devices))
	for name := range f.Devices {
		d, err := f.BuildDevice(name)
		if err != nil {
			return nil, err
		}
		devices[name] = d
	}
	return devices, nil
}

// BuildResources constructs one device instance per declared resource, keyed
// by resource name, with the terminator pair for each resource class already
// selected.
func (f *File) BuildResources() (map[string]*device.Device, error) {
	resources := make(map[string]*device.Device, len(f.Resources))
	for resourceName, res := range f.Resources {
		d, err := f.BuildDevice(res.Device)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", resourceName, err)
		}
		if err := d.PrepareResource(resourceName); err != nil {
			return nil, fmt.Errorf("resource %q: %w", resourceName, err)
		}
		resources[resourceName] = d
	}
	return resources, nil
}

// componentTables is the table-population surface shared by Component and
// Channels.
type componentTables interface {
	AddProperty(name, defaultValue string, specs prop.Specs) error
	AddGetter(query, propName, template string) error
	AddSetter(propName, pattern string, resp, errResp device.Response) error
}

func buildProperties(c *device.Component, props Properties) error {
	return populate(c, props)
}

func buildChannelProperties(ch *device.Channels, props Properties) error {
	return populate(ch, props)
}

func populate(target componentTables, props Properties) error {
	for _, name := range props.Names() {
		def, _ := props.Get(name)

		if err := target.AddProperty(name, string(def.Default), propSpecs(def.Specs)); err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		if def.Getter != nil {
			if err := target.AddGetter(def.Getter.Query, name, def.Getter.Response); err != nil {
				return fmt.Errorf("property %q getter: %w", name, err)
			}
		}
		if def.Setter != nil {
			err := target.AddSetter(name, def.Setter.Query,
				textOrNoResponse(def.Setter.Response), errorResponse(def.Setter.Error))
			if err != nil {
				return fmt.Errorf("property %q setter: %w", name, err)
			}
		}
	}
	return nil
}

func propSpecs(specs *Specs) prop.Specs {
	if specs == nil {
		return prop.Specs{}
	}
	out := prop.Specs{Type: specs.Type}
	if specs.Min != nil {
		out.Min = prop.Bound(string(*specs.Min))
	}
	if specs.Max != nil {
		out.Max = prop.Bound(string(*specs.Max))
	}
	if specs.Valid != nil {
		out.Valid = specs.Valid.Set
		out.ValidDisplay = specs.Valid.Display
	}
	return out
}

// textOrNoResponse maps absent definition text to the explicit no-response
// sentinel.
func textOrNoResponse(text *string) device.Response {
	if text == nil {
		return device.NoResponse
	}
	return device.TextResponse(*text)
}

// errorResponse maps absent setter error text to the unset response, which
// makes Match fall back to the device's generic command error.
func errorResponse(text *string) device.Response {
	if text == nil {
		return device.Response{}
	}
	return device.TextResponse(*text)
}
