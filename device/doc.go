// Package device implements simulated instrument devices: the query tables
// and ordered matching algorithm at the core of go-visim, plus the byte-level
// framing that turns a stream of written bytes into queries and queued
// responses.
//
// A Component owns three query tables, tried in a fixed order by Match:
// dialogues (exact query, canned response), getters (exact query, formatted
// property read) and setters (pattern query, validated property write).
// A Device wraps a Component with named error responses, per-resource-class
// message terminators and optional channel groups.
//
// Matching is synchronous and allocation-light; nothing in this package does
// I/O. A single Component must not be matched concurrently, but distinct
// devices are fully independent.
package device
