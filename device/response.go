package device

import (
	"fmt"

	"github.com/instrlab/go-visim/internal/util"
)

type responseKind int

const (
	kindUnset responseKind = iota
	kindBytes
	kindNoResponse
	kindNoMatch
)

// Response is the tri-state outcome of a match: a byte payload, an explicit
// "match but emit nothing", or "no table matched". The zero value is unset,
// used for optional responses that were never configured; it is distinct
// from all three outcomes and from an empty byte payload.
type Response struct {
	kind responseKind
	data []byte
}

var (
	// NoResponse means the query matched but the device emits nothing.
	NoResponse = Response{kind: kindNoResponse}

	// NoMatch means none of the query tables matched. It is a normal,
	// reportable outcome, not an error; the transport layer decides how an
	// unmatched query surfaces.
	NoMatch = Response{kind: kindNoMatch}
)

// BytesResponse wraps a raw byte payload as a response. The payload may be
// empty, which is still distinct from NoResponse.
func BytesResponse(data []byte) Response {
	return Response{kind: kindBytes, data: data}
}

// TextResponse encodes definition text as a response, expanding the
// two-character `\r` and `\n` escapes into their control bytes first.
func TextResponse(text string) Response {
	return Response{kind: kindBytes, data: []byte(util.ExpandEscapes(text))}
}

// IsNoResponse reports whether the response is the explicit no-response
// sentinel.
func (r Response) IsNoResponse() bool { return r.kind == kindNoResponse }

// IsNoMatch reports whether the response is the no-match outcome.
func (r Response) IsNoMatch() bool { return r.kind == kindNoMatch }

// isSet reports whether the response was configured at all.
func (r Response) isSet() bool { return r.kind != kindUnset }

// Bytes returns a copy of the byte payload. It is nil unless the response
// carries bytes.
func (r Response) Bytes() []byte {
	if r.kind != kindBytes {
		return nil
	}
	return util.CloneSlice(r.data, 0)
}

// String renders the response for diagnostics.
func (r Response) String() string {
	switch r.kind {
	case kindBytes:
		return fmt.Sprintf("%q", r.data)
	case kindNoResponse:
		return "<no response>"
	case kindNoMatch:
		return "<no match>"
	default:
		return "<unset>"
	}
}
