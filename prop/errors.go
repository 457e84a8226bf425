package prop

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType indicates a declared property type that is none of
	// "float", "int" or "str".
	ErrUnknownType = errors.New("unknown property type")

	// ErrConflictingValid indicates specs declaring both a plain valid set
	// and a display mapping. A property carries one or the other.
	ErrConflictingValid = errors.New("valid set and display mapping are mutually exclusive")
)

// ConversionError records a raw value that cannot be coerced to a property's
// declared or inferred type. It occurs during property construction or on an
// explicit write, never during a read.
type ConversionError struct {
	Property string
	Raw      string
	Kind     Kind
	err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("property %s: cannot convert %q to %s: %v", e.Property, e.Raw, e.Kind, e.err)
}

func (e *ConversionError) Unwrap() error {
	return e.err
}

// Reason identifies which constraint a value violated.
type Reason int

const (
	// ReasonBelowMin indicates the coerced value is below the declared minimum.
	ReasonBelowMin Reason = iota
	// ReasonAboveMax indicates the coerced value is above the declared maximum.
	ReasonAboveMax
	// ReasonNotAllowed indicates the coerced value is not in the declared valid set.
	ReasonNotAllowed
)

func (r Reason) String() string {
	switch r {
	case ReasonBelowMin:
		return "below minimum"
	case ReasonAboveMax:
		return "above maximum"
	default:
		return "not an allowed value"
	}
}

// ConstraintError records a value that coerced to the right type but failed
// one of the property's min/max/valid constraints. The stored property value
// is unchanged when this error is returned.
type ConstraintError struct {
	Property string
	Raw      string
	Reason   Reason
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("property %s: value %q is %s", e.Property, e.Raw, e.Reason)
}
