// Package scanf implements the small format mini-language used by device
// definitions, in both directions.
//
// A Pattern is the reverse of a format string: "FREQ {:f}" compiles once
// into a sequence of literal and typed-placeholder tokens and can then
// extract the typed token from an incoming query such as "FREQ 2500".
// A structural mismatch is a clean non-match, never an error.
//
// A Template is the forward direction: "{:.2f}" compiles into a formatter
// that renders a property value into a response string.
//
// Placeholder syntax follows the familiar brace form: "{}", "{:d}", "{:f}",
// "{:.2f}", "{:05d}". Doubled braces ("{{", "}}") stand for literal braces.
// Malformed placeholders are rejected at compile time, so they surface while
// a device definition is being loaded rather than while queries are matched.
package scanf
