package device

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/instrlab/go-visim/internal/util"
	"github.com/instrlab/go-visim/logger"
)

// CommandError is the error-response key consulted when a matched setter
// rejects its value and when a query matches no table at all.
const CommandError = "command_error"

// EOM is an end-of-message terminator pair: the terminator that ends an
// incoming query and the one appended to outgoing responses.
type EOM struct {
	Query    []byte
	Response []byte
}

// Device is one simulated instrument: a component of query tables plus named
// error responses, per-resource-class terminators, optional channel groups
// and the input/output byte buffering a transport talks to.
type Device struct {
	Component

	name     string
	eoms     map[string]EOM
	errs     map[string]Response
	channels []*Channels

	eom   EOM
	inbuf []byte
	out   []byte
}

// NewDevice creates a device with newline terminators in both directions.
// Call SetEOM / PrepareResource to install resource-class specific pairs.
func NewDevice(name string) *Device {
	return &Device{
		Component: *NewComponent(),
		name:      name,
		eoms:      make(map[string]EOM),
		errs:      make(map[string]Response),
		eom:       EOM{Query: []byte("\n"), Response: []byte("\n")},
	}
}

// Name returns the device name from the definition.
func (d *Device) Name() string { return d.name }

// SetLogger injects the diagnostic sink into the device, its component and
// all channel groups registered so far.
func (d *Device) SetLogger(l logger.Logger) {
	d.Component.SetLogger(l)
	for _, ch := range d.channels {
		ch.SetLogger(l)
	}
}

// SetEOM registers the terminator pair for a resource class such as
// "ASRL INSTR" or "USB INSTR". Escape sequences in both terminators are
// expanded. The empty class registers the fallback pair. The query
// terminator must not be empty: Write scans for it to split queries out of
// the input stream.
func (d *Device) SetEOM(resourceClass, query, response string) error {
	q := util.ExpandEscapes(query)
	if q == "" {
		return fmt.Errorf("%w: resource class %q", ErrEmptyTerminator, resourceClass)
	}
	d.eoms[resourceClass] = EOM{
		Query:    []byte(q),
		Response: []byte(util.ExpandEscapes(response)),
	}
	return nil
}

// PrepareResource selects the terminator pair matching the resource name the
// device is being opened under, e.g. "ASRL1::INSTR" picks the "ASRL INSTR"
// pair. It falls back to the empty-class pair and returns ErrNoTerminator
// when neither is registered.
func (d *Device) PrepareResource(resourceName string) error {
	if len(d.eoms) == 0 {
		// No pairs registered: keep the built-in newline terminators.
		return nil
	}
	class := ResourceClass(resourceName)
	if eom, ok := d.eoms[class]; ok {
		d.eom = eom
		return nil
	}
	if eom, ok := d.eoms[""]; ok {
		d.eom = eom
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNoTerminator, class)
}

// AddError registers a named error response, e.g. "command_error".
func (d *Device) AddError(kind string, resp Response) {
	d.errs[kind] = resp
	if kind == CommandError {
		d.SetCommandError(resp)
	}
}

// ErrorResponse returns the named error response, or NoResponse when the
// definition configured none under that name.
func (d *Device) ErrorResponse(kind string) Response {
	if resp, ok := d.errs[kind]; ok {
		return resp
	}
	return NoResponse
}

// Match tries the device's own tables first and then each channel group in
// registration order. It returns NoMatch when nothing matched; Write, by
// contrast, converts that into the command-error response because at the
// framing level an unmatched query must answer something.
func (d *Device) Match(query []byte) Response {
	if resp := d.Component.Match(query); !resp.IsNoMatch() {
		return resp
	}
	for _, ch := range d.channels {
		if resp := ch.Match(query); !resp.IsNoMatch() {
			return resp
		}
	}
	return NoMatch
}

// Write feeds raw bytes from the transport into the device. Whole queries,
// recognized by the query terminator, are matched immediately and their
// responses queued for Read. Partial trailing input stays buffered.
func (d *Device) Write(data []byte) {
	d.inbuf = append(d.inbuf, data...)

	for {
		idx := bytes.Index(d.inbuf, d.eom.Query)
		if idx < 0 {
			return
		}
		query := util.CloneSlice(d.inbuf[:idx], 0)
		d.inbuf = d.inbuf[idx+len(d.eom.Query):]
		d.process(query)
	}
}

// Read drains up to max queued response bytes.
func (d *Device) Read(max int) []byte {
	if max <= 0 || len(d.out) == 0 {
		return nil
	}
	if max > len(d.out) {
		max = len(d.out)
	}
	data := util.CloneSlice(d.out[:max], 0)
	d.out = d.out[max:]
	return data
}

// Pending returns the number of queued response bytes.
func (d *Device) Pending() int { return len(d.out) }

func (d *Device) process(query []byte) {
	resp := d.Match(query)
	if resp.IsNoMatch() {
		resp = d.ErrorResponse(CommandError)
	}
	if resp.IsNoResponse() {
		return
	}
	d.out = append(d.out, resp.Bytes()...)
	d.out = append(d.out, d.eom.Response...)
}

// ResourceClass extracts the "interface class" pair from a VISA-style
// resource name: "ASRL1::INSTR" yields "ASRL INSTR", "TCPIP0::1.2.3.4::5025::SOCKET"
// yields "TCPIP SOCKET". The class defaults to INSTR when the final segment
// does not name one.
func ResourceClass(resourceName string) string {
	parts := strings.Split(resourceName, "::")

	iface := parts[0]
	for i, r := range iface {
		if r >= '0' && r <= '9' {
			iface = iface[:i]
			break
		}
	}
	iface = strings.ToUpper(iface)

	class := "INSTR"
	if len(parts) > 1 {
		last := strings.ToUpper(parts[len(parts)-1])
		switch last {
		case "INSTR", "SOCKET", "RAW", "MEMACC", "BACKPLANE":
			class = last
		}
	}

	return iface + " " + class
}
