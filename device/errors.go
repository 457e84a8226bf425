package device

import "errors"

var (
	// ErrUnknownProperty indicates a getter or setter referencing a property
	// that was never added to the component. Table entries may only be
	// registered after the property they reference exists.
	ErrUnknownProperty = errors.New("property is not defined on the component")

	// ErrDuplicateProperty indicates an attempt to add a property under a
	// name that is already taken on the component.
	ErrDuplicateProperty = errors.New("property is already defined on the component")

	// ErrUnknownChannel indicates a channel id outside the group's id list.
	ErrUnknownChannel = errors.New("unknown channel id")

	// ErrNoTerminator indicates that no end-of-message terminator pair is
	// registered for the requested resource class.
	ErrNoTerminator = errors.New("no end-of-message terminator for resource class")

	// ErrEmptyTerminator indicates a terminator pair whose query side is
	// empty. Write splits queries on the query terminator, so an empty one
	// can never delimit anything.
	ErrEmptyTerminator = errors.New("query terminator must not be empty")
)
