// Package simdef loads declarative device definitions and builds simulated
// devices from them.
//
// A definition file describes devices (terminators, error responses,
// dialogues, properties with getter/setter/specs, channel groups) and the
// resources that map VISA-style resource names onto those devices. The same
// definition structs decode from YAML and from TOML; Load dispatches on the
// file extension.
//
// Definitions are parsed and validated entirely at load time: malformed
// patterns, templates or property defaults abort the build, so a device that
// loaded successfully can never fail while matching queries.
package simdef
