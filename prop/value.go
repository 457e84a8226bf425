package prop

import "strconv"

// Value is a coerced scalar of a fixed Kind. The zero value is a float
// holding 0.
type Value struct {
	kind Kind
	f    float64
	i    int64
	s    string
}

// FloatValue creates a Value of KindFloat.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// IntValue creates a Value of KindInt.
func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// StringValue creates a Value of KindString.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// Coerce converts raw text into a Value of the given kind.
// The returned error is the underlying strconv failure; callers wrap it into
// a ConversionError with the owning property's context.
func Coerce(raw string, kind Kind) (Value, error) {
	switch kind {
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	case KindInt:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return IntValue(i), nil
	default:
		return StringValue(raw), nil
	}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Float returns the value as a float64. For KindInt the integer is widened;
// for KindString it returns 0.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Int returns the value as an int64, or 0 for non-integer kinds.
func (v Value) Int() int64 { return v.i }

// String renders the value in its canonical text form.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return v.s
	}
}

// Less reports whether v orders before o. Both values must share the same
// kind; string values compare lexicographically.
func (v Value) Less(o Value) bool {
	switch v.kind {
	case KindFloat:
		return v.f < o.f
	case KindInt:
		return v.i < o.i
	default:
		return v.s < o.s
	}
}

// Equal reports whether v and o hold the same kind and the same scalar.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFloat:
		return v.f == o.f
	case KindInt:
		return v.i == o.i
	default:
		return v.s == o.s
	}
}
