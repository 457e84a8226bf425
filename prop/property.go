// Package prop implements the named, typed, constrained scalar values that
// simulated instrument commands read and mutate.
//
// A Property commits to a Kind once at construction (declared explicitly, or
// inferred from its default value's literal form) and validates every write
// against its declared constraints before replacing the stored value, so the
// stored value always satisfies the constraints.
package prop

import "fmt"

// Specs declares the type and constraints of a property.
//
// All fields are optional and independently combinable. Min, Max and the
// valid values are given in text form and coerced to the property's kind at
// construction time.
type Specs struct {
	// Type is one of "float", "int" or "str". When empty, the kind is
	// inferred from the default value's literal form.
	Type string

	// Min and Max bound the accepted values. Nil means unbounded.
	Min *string
	Max *string

	// Valid restricts the accepted values to this set.
	Valid []string

	// ValidDisplay restricts the accepted wire values to the map keys and
	// maps each to a distinct display value returned by Read. Setting both
	// Valid and ValidDisplay is rejected by New.
	ValidDisplay map[string]string
}

// Bound returns a pointer to s, for populating the optional Specs bounds.
func Bound(s string) *string { return &s }

// Property holds one named, typed, constrained scalar value.
//
// Property is not internally synchronized; callers must serialize access to
// a property (in practice, to its whole owning component).
type Property struct {
	name     string
	kind     Kind
	min      Value
	max      Value
	hasMin   bool
	hasMax   bool
	valid    []Value  // allowed coerced values; empty means unconstrained
	displays []string // display value per valid entry; nil for plain sets
	value    Value
}

// New creates a property and validates defaultValue through the same path as
// any later write. It returns a ConversionError if the default, a bound or a
// valid entry cannot be coerced to the effective type, a ConstraintError if
// the default violates the declared constraints, or ErrConflictingValid if
// the specs declare both a valid set and a display mapping. Any failure makes
// the owning device definition invalid.
func New(name, defaultValue string, specs Specs) (*Property, error) {
	if len(specs.Valid) > 0 && len(specs.ValidDisplay) > 0 {
		return nil, fmt.Errorf("property %s: %w", name, ErrConflictingValid)
	}

	p := &Property{name: name}

	if specs.Type != "" {
		kind, err := KindOf(specs.Type)
		if err != nil {
			return nil, err
		}
		p.kind = kind
	} else {
		p.kind = InferKind(defaultValue)
	}

	if specs.Min != nil {
		v, err := Coerce(*specs.Min, p.kind)
		if err != nil {
			return nil, &ConversionError{Property: name, Raw: *specs.Min, Kind: p.kind, err: err}
		}
		p.min = v
		p.hasMin = true
	}
	if specs.Max != nil {
		v, err := Coerce(*specs.Max, p.kind)
		if err != nil {
			return nil, &ConversionError{Property: name, Raw: *specs.Max, Kind: p.kind, err: err}
		}
		p.max = v
		p.hasMax = true
	}

	for _, raw := range specs.Valid {
		v, err := Coerce(raw, p.kind)
		if err != nil {
			return nil, &ConversionError{Property: name, Raw: raw, Kind: p.kind, err: err}
		}
		p.valid = append(p.valid, v)
	}
	if len(specs.ValidDisplay) > 0 {
		p.displays = make([]string, 0, len(specs.ValidDisplay))
		for raw, display := range specs.ValidDisplay {
			v, err := Coerce(raw, p.kind)
			if err != nil {
				return nil, &ConversionError{Property: name, Raw: raw, Kind: p.kind, err: err}
			}
			p.valid = append(p.valid, v)
			p.displays = append(p.displays, display)
		}
	}

	if err := p.Write(defaultValue); err != nil {
		return nil, err
	}

	return p, nil
}

// Name returns the property name, unique within its owning component.
func (p *Property) Name() string { return p.name }

// Kind returns the effective type committed at construction.
func (p *Property) Kind() Kind { return p.kind }

// Read returns the stored coerced value. When the property carries a display
// mapping, the mapped display value is returned instead of the stored wire
// value. Read has no side effects.
func (p *Property) Read() Value {
	if p.displays != nil {
		for i, v := range p.valid {
			if v.Equal(p.value) {
				return StringValue(p.displays[i])
			}
		}
	}
	return p.value
}

// Write coerces raw to the property's kind and checks, in order, the min,
// max and valid constraints. On success the stored value is replaced; on any
// failure the stored value is unchanged and a ConversionError or
// ConstraintError is returned.
func (p *Property) Write(raw string) error {
	v, err := Coerce(raw, p.kind)
	if err != nil {
		return &ConversionError{Property: p.name, Raw: raw, Kind: p.kind, err: err}
	}

	if p.hasMin && v.Less(p.min) {
		return &ConstraintError{Property: p.name, Raw: raw, Reason: ReasonBelowMin}
	}
	if p.hasMax && p.max.Less(v) {
		return &ConstraintError{Property: p.name, Raw: raw, Reason: ReasonAboveMax}
	}
	if len(p.valid) > 0 && !p.allowed(v) {
		return &ConstraintError{Property: p.name, Raw: raw, Reason: ReasonNotAllowed}
	}

	p.value = v

	return nil
}

func (p *Property) allowed(v Value) bool {
	for _, candidate := range p.valid {
		if candidate.Equal(v) {
			return true
		}
	}
	return false
}
