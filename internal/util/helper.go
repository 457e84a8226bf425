package util

import "strings"

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

var escapeReplacer = strings.NewReplacer(`\r`, "\r", `\n`, "\n")

// ExpandEscapes converts the two-character escape sequences `\r` and `\n`
// found in definition text into their single-byte control characters.
//
// Device definitions are written in plain text, so terminators appear as
// escapes; matching and responses operate on the raw control bytes.
func ExpandEscapes(s string) string {
	return escapeReplacer.Replace(s)
}
