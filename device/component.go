package device

import (
	"errors"

	"github.com/instrlab/go-visim/internal/util"
	"github.com/instrlab/go-visim/logger"
	"github.com/instrlab/go-visim/prop"
	"github.com/instrlab/go-visim/scanf"
)

type getterEntry struct {
	propName string
	tmpl     *scanf.Template
}

type setterEntry struct {
	propName string
	pattern  *scanf.Pattern
	resp     Response
	errResp  Response
}

// Component holds the three query tables of a device part and the properties
// its getters and setters operate on.
//
// Tables are populated once during device construction and are never mutated
// afterwards; only property values change, through successful setter matches.
type Component struct {
	dialogues map[string]Response
	getters   map[string]getterEntry
	setters   []setterEntry
	props     map[string]*prop.Property
	cmdError  Response
	logger    logger.Logger
}

// NewComponent creates an empty component. Diagnostics are discarded until a
// logger is injected with SetLogger.
func NewComponent() *Component {
	return &Component{
		dialogues: make(map[string]Response),
		getters:   make(map[string]getterEntry),
		props:     make(map[string]*prop.Property),
		logger:    logger.Nop(),
	}
}

// SetLogger injects the sink for match diagnostics. The component only emits
// debug events through it; control flow never depends on the logger.
func (c *Component) SetLogger(l logger.Logger) {
	if l != nil {
		c.logger = l
	}
}

// SetCommandError sets the generic error response returned when a setter
// write fails and the setter has no byte-encoded error response of its own.
func (c *Component) SetCommandError(resp Response) {
	c.cmdError = resp
}

// AddDialogue registers an exact-match query/response pair. Escape sequences
// in the query are expanded before the byte-level comparison key is built.
func (c *Component) AddDialogue(query string, resp Response) {
	c.dialogues[util.ExpandEscapes(query)] = resp
}

// AddProperty creates a property on the component, validating the default
// value exactly like any later write. An invalid default or specs make the
// whole device definition invalid.
func (c *Component) AddProperty(name, defaultValue string, specs prop.Specs) error {
	if _, ok := c.props[name]; ok {
		return ErrDuplicateProperty
	}
	p, err := prop.New(name, defaultValue, specs)
	if err != nil {
		return err
	}
	c.props[name] = p
	return nil
}

// Property looks up a property by name.
func (c *Component) Property(name string) (*prop.Property, bool) {
	p, ok := c.props[name]
	return p, ok
}

// AddGetter registers an exact-match query that responds with the referenced
// property's current value rendered through template. The property must
// already exist.
func (c *Component) AddGetter(query, propName, template string) error {
	if _, ok := c.props[propName]; !ok {
		return ErrUnknownProperty
	}
	tmpl, err := scanf.CompileTemplate(template)
	if err != nil {
		return err
	}
	c.getters[util.ExpandEscapes(query)] = getterEntry{propName: propName, tmpl: tmpl}
	return nil
}

// AddSetter appends a pattern query that extracts one token and writes it to
// the referenced property. The property must already exist. errResp is the
// per-setter error response; pass the zero Response to fall back to the
// component's generic command error. Order matters: Match tries setters in
// registration order and the first structural match wins.
func (c *Component) AddSetter(propName, pattern string, resp, errResp Response) error {
	if _, ok := c.props[propName]; !ok {
		return ErrUnknownProperty
	}
	pat, err := scanf.Compile(util.ExpandEscapes(pattern))
	if err != nil {
		return err
	}
	c.setters = append(c.setters, setterEntry{
		propName: propName,
		pattern:  pat,
		resp:     resp,
		errResp:  errResp,
	})
	return nil
}

// Match finds the response for a raw query, trying the tables in fixed
// order: dialogues first (cheapest, most specific), then getters (also
// exact), then the setter patterns in registration order. It returns NoMatch
// when no table matches; the caller owns session-level handling of that.
func (c *Component) Match(query []byte) Response {
	if resp, ok := c.matchDialogue(query); ok {
		return resp
	}
	if resp, ok := c.matchGetters(query); ok {
		return resp
	}
	if resp, ok := c.matchSetters(query); ok {
		return resp
	}
	return NoMatch
}

func (c *Component) matchDialogue(query []byte) (Response, bool) {
	resp, ok := c.dialogues[string(query)]
	if !ok {
		return Response{}, false
	}
	c.logger.Debug("found response in dialogues", "query", string(query), "response", resp.String())
	return resp, true
}

func (c *Component) matchGetters(query []byte) (Response, bool) {
	entry, ok := c.getters[string(query)]
	if !ok {
		return Response{}, false
	}
	// The property always holds a validated value, so a read cannot fail.
	value := c.props[entry.propName].Read()
	c.logger.Debug("found response in getter", "property", entry.propName)
	return BytesResponse([]byte(entry.tmpl.Format(value))), true
}

func (c *Component) matchSetters(query []byte) (Response, bool) {
	q := string(query)
	for _, entry := range c.setters {
		raw, ok := entry.pattern.Match(q)
		if !ok {
			// Wrong literal text or an un-parseable token; not an error,
			// just not this setter.
			continue
		}
		c.logger.Debug("found response in setter", "property", entry.propName)

		err := c.props[entry.propName].Write(raw)
		if err == nil {
			return entry.resp, true
		}
		var constraintErr *prop.ConstraintError
		if !errors.As(err, &constraintErr) {
			c.logger.Debug("setter write rejected", "property", entry.propName, "error", err.Error())
		}
		return c.errorResponse(entry), true
	}
	return Response{}, false
}

// errorResponse picks the response for a failed setter write: the setter's
// own error response when it is byte-encoded, the generic command error
// otherwise. An unset command error degrades to NoResponse.
func (c *Component) errorResponse(entry setterEntry) Response {
	if entry.errResp.kind == kindBytes {
		return entry.errResp
	}
	if c.cmdError.isSet() {
		return c.cmdError
	}
	return NoResponse
}
