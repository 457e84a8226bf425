package prop

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the value type a property holds. It is chosen once at
// construction time and never changes afterwards.
type Kind int

const (
	// KindFloat holds a 64-bit floating-point value.
	KindFloat Kind = iota
	// KindInt holds a 64-bit signed integer value.
	KindInt
	// KindString holds an uninterpreted text value.
	KindString
)

const (
	FloatType  = "float"
	IntType    = "int"
	StringType = "str"
)

// String returns the declaration name of the kind as used in device
// definitions.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return FloatType
	case KindInt:
		return IntType
	default:
		return StringType
	}
}

// KindOf maps a declared type name ("float", "int" or "str") to its Kind.
func KindOf(name string) (Kind, error) {
	switch name {
	case FloatType:
		return KindFloat, nil
	case IntType:
		return KindInt, nil
	case StringType:
		return KindString, nil
	default:
		return KindString, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}

// InferKind derives a Kind from the literal form of a default value:
// parseable as an integer yields KindInt, as a float KindFloat, anything
// else KindString.
func InferKind(literal string) Kind {
	s := strings.TrimSpace(literal)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return KindInt
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return KindFloat
	}
	return KindString
}
