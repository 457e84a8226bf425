package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/instrlab/go-visim/internal/util"
	"github.com/instrlab/go-visim/logger"
	"github.com/instrlab/go-visim/prop"
	"github.com/instrlab/go-visim/scanf"
)

// ChannelID is the placeholder that query, response and pattern text in a
// channel definition use to reference the channel id. It is substituted per
// id at registration time, before any pattern or template is compiled.
const ChannelID = "{ch_id}"

type chDialogue struct {
	id   string
	resp Response
}

type chGetter struct {
	id       string
	propName string
	tmpl     *scanf.Template
}

type chSetter struct {
	id       string
	propName string
	pattern  *scanf.Pattern
	resp     Response
	errResp  Response
}

// Channels is a group of identical device channels sharing one set of table
// definitions but holding independent property state per channel id.
//
// A selectable group answers only for the ids currently selected through
// Select; a non-selectable group answers for every id, relying on the
// ChannelID placeholder to make each query unambiguous.
type Channels struct {
	device    *Device
	name      string
	ids       []string
	canSelect bool
	selected  map[string]bool

	dialogues map[string]chDialogue
	getters   map[string]chGetter
	setters   []chSetter
	props     map[string]map[string]*prop.Property // property name -> channel id -> state

	logger logger.Logger
}

// NewChannels creates a channel group on d and registers it for matching
// after the device's own tables.
func NewChannels(d *Device, name string, ids []string, canSelect bool) *Channels {
	ch := &Channels{
		device:    d,
		name:      name,
		ids:       ids,
		canSelect: canSelect,
		selected:  make(map[string]bool),
		dialogues: make(map[string]chDialogue),
		getters:   make(map[string]chGetter),
		props:     make(map[string]map[string]*prop.Property),
		logger:    logger.Nop(),
	}
	d.channels = append(d.channels, ch)
	return ch
}

// Name returns the channel group name from the definition.
func (c *Channels) Name() string { return c.name }

// IDs returns the channel ids the group was defined with.
func (c *Channels) IDs() []string { return util.CloneSlice(c.ids, 0) }

// SetLogger injects the sink for match diagnostics.
func (c *Channels) SetLogger(l logger.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Select replaces the set of currently selected channel ids. It only applies
// to selectable groups; every id must be part of the group.
func (c *Channels) Select(ids ...string) error {
	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !c.hasID(id) {
			return fmt.Errorf("%w: %q", ErrUnknownChannel, id)
		}
		next[id] = true
	}
	c.selected = next
	return nil
}

func (c *Channels) hasID(id string) bool {
	for _, known := range c.ids {
		if known == id {
			return true
		}
	}
	return false
}

// answers reports whether entries registered for id participate in matching.
func (c *Channels) answers(id string) bool {
	if !c.canSelect {
		return true
	}
	return c.selected[id]
}

func (c *Channels) expand(text, id string) string {
	return strings.ReplaceAll(text, ChannelID, id)
}

// AddDialogue registers an exact-match pair per channel id, substituting the
// ChannelID placeholder in both the query and the response text.
func (c *Channels) AddDialogue(query string, resp Response) {
	for _, id := range c.ids {
		r := resp
		if resp.kind == kindBytes {
			r = BytesResponse([]byte(c.expand(string(resp.data), id)))
		}
		c.dialogues[util.ExpandEscapes(c.expand(query, id))] = chDialogue{id: id, resp: r}
	}
}

// AddProperty creates an independent property instance for every channel id,
// each validated with the same default value and specs.
func (c *Channels) AddProperty(name, defaultValue string, specs prop.Specs) error {
	if _, ok := c.props[name]; ok {
		return ErrDuplicateProperty
	}
	perID := make(map[string]*prop.Property, len(c.ids))
	for _, id := range c.ids {
		p, err := prop.New(name, defaultValue, specs)
		if err != nil {
			return err
		}
		perID[id] = p
	}
	c.props[name] = perID
	return nil
}

// Property looks up the property state of one channel id.
func (c *Channels) Property(name, id string) (*prop.Property, bool) {
	perID, ok := c.props[name]
	if !ok {
		return nil, false
	}
	p, ok := perID[id]
	return p, ok
}

// AddGetter registers an exact-match read query per channel id.
func (c *Channels) AddGetter(query, propName, template string) error {
	if _, ok := c.props[propName]; !ok {
		return ErrUnknownProperty
	}
	for _, id := range c.ids {
		tmpl, err := scanf.CompileTemplate(c.expand(template, id))
		if err != nil {
			return err
		}
		key := util.ExpandEscapes(c.expand(query, id))
		c.getters[key] = chGetter{id: id, propName: propName, tmpl: tmpl}
	}
	return nil
}

// AddSetter appends a pattern write query per channel id, preserving
// registration order across ids.
func (c *Channels) AddSetter(propName, pattern string, resp, errResp Response) error {
	if _, ok := c.props[propName]; !ok {
		return ErrUnknownProperty
	}
	for _, id := range c.ids {
		pat, err := scanf.Compile(util.ExpandEscapes(c.expand(pattern, id)))
		if err != nil {
			return err
		}
		r := resp
		if resp.kind == kindBytes {
			r = BytesResponse([]byte(c.expand(string(resp.data), id)))
		}
		c.setters = append(c.setters, chSetter{
			id:       id,
			propName: propName,
			pattern:  pat,
			resp:     r,
			errResp:  errResp,
		})
	}
	return nil
}

// Match runs the same dialogue, getter, setter order as Component.Match over
// the per-id expanded tables, skipping ids the group does not answer for.
func (c *Channels) Match(query []byte) Response {
	key := string(query)

	if entry, ok := c.dialogues[key]; ok && c.answers(entry.id) {
		c.logger.Debug("found response in channel dialogues", "channels", c.name, "id", entry.id)
		return entry.resp
	}

	if entry, ok := c.getters[key]; ok && c.answers(entry.id) {
		value := c.props[entry.propName][entry.id].Read()
		c.logger.Debug("found response in channel getter",
			"channels", c.name, "id", entry.id, "property", entry.propName)
		return BytesResponse([]byte(entry.tmpl.Format(value)))
	}

	for _, entry := range c.setters {
		if !c.answers(entry.id) {
			continue
		}
		raw, ok := entry.pattern.Match(key)
		if !ok {
			continue
		}
		c.logger.Debug("found response in channel setter",
			"channels", c.name, "id", entry.id, "property", entry.propName)

		err := c.props[entry.propName][entry.id].Write(raw)
		if err == nil {
			return entry.resp
		}
		var constraintErr *prop.ConstraintError
		if !errors.As(err, &constraintErr) {
			c.logger.Debug("channel setter write rejected",
				"channels", c.name, "id", entry.id, "error", err.Error())
		}
		if entry.errResp.kind == kindBytes {
			return entry.errResp
		}
		return c.device.ErrorResponse(CommandError)
	}

	return NoMatch
}
