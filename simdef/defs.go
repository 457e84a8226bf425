package simdef

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// File is one parsed definition file.
type File struct {
	Spec      string              `yaml:"spec" toml:"spec"`
	Devices   map[string]Device   `yaml:"devices" toml:"devices"`
	Resources map[string]Resource `yaml:"resources" toml:"resources"`
}

// Device describes one simulated instrument.
type Device struct {
	EOM        map[string]EOM     `yaml:"eom" toml:"eom"`
	Error      map[string]*string `yaml:"error" toml:"error"`
	Dialogues  []Dialogue         `yaml:"dialogues" toml:"dialogues"`
	Properties Properties         `yaml:"properties" toml:"properties"`
	Channels   map[string]Channel `yaml:"channels" toml:"channels"`
}

// EOM is the terminator pair for one resource class, in escaped text form.
type EOM struct {
	Query    string `yaml:"q" toml:"q"`
	Response string `yaml:"r" toml:"r"`
}

// Dialogue is an exact query/response pair. A nil response means the device
// matches the query but emits nothing.
type Dialogue struct {
	Query    string  `yaml:"q" toml:"q"`
	Response *string `yaml:"r" toml:"r"`
}

// Getter is the read side of a property: an exact query answered with the
// response template formatted with the property's current value.
type Getter struct {
	Query    string `yaml:"q" toml:"q"`
	Response string `yaml:"r" toml:"r"`
}

// Setter is the write side of a property. Response and Error may be nil:
// a nil Response emits nothing on success, a nil Error falls back to the
// device's generic command error.
type Setter struct {
	Query    string  `yaml:"q" toml:"q"`
	Response *string `yaml:"r" toml:"r"`
	Error    *string `yaml:"e" toml:"e"`
}

// Specs declares a property's type and constraints in text form.
type Specs struct {
	Type  string  `yaml:"type" toml:"type"`
	Min   *Scalar `yaml:"min" toml:"min"`
	Max   *Scalar `yaml:"max" toml:"max"`
	Valid *Valid  `yaml:"valid" toml:"valid"`
}

// Property declares one property with its default value and optional
// getter, setter and specs.
type Property struct {
	Default Scalar  `yaml:"default" toml:"default"`
	Getter  *Getter `yaml:"getter" toml:"getter"`
	Setter  *Setter `yaml:"setter" toml:"setter"`
	Specs   *Specs  `yaml:"specs" toml:"specs"`
}

// Channel describes a channel group: the ids it spans, whether it carries
// selection state, and the tables every channel of the group shares.
type Channel struct {
	IDs        []Scalar   `yaml:"ids" toml:"ids"`
	CanSelect  bool       `yaml:"can_select" toml:"can_select"`
	Dialogues  []Dialogue `yaml:"dialogues" toml:"dialogues"`
	Properties Properties `yaml:"properties" toml:"properties"`
}

// Resource binds a VISA-style resource name to a device definition.
type Resource struct {
	Device string `yaml:"device" toml:"device"`
}

// Scalar keeps the literal spelling of a scalar definition value. Decoding
// "default: 100.0" into a plain string would either fail or lose the decimal
// form the type-inference rules depend on.
//
// Only YAML preserves the spelling. The TOML decoder hands over already
// typed values, so a TOML float like 100.0 re-renders as "100" and would be
// inferred as an int; TOML-loaded properties should declare specs.type
// explicitly rather than rely on inference.
type Scalar string

func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	*s = Scalar(node.Value)
	return nil
}

func (s *Scalar) UnmarshalTOML(v any) error {
	text, err := scalarText(v)
	if err != nil {
		return err
	}
	*s = Scalar(text)
	return nil
}

func scalarText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("expected a scalar value, got %T", v)
	}
}

// Valid is the valid-values constraint of a property: either a sequence of
// allowed values, or a mapping from accepted wire values to the display
// values getters return.
type Valid struct {
	Set     []string
	Display map[string]string
}

func (v *Valid) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		v.Set = make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: valid entries must be scalars", item.Line)
			}
			v.Set = append(v.Set, item.Value)
		}
		return nil
	case yaml.MappingNode:
		v.Display = make(map[string]string, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode || val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: valid mapping entries must be scalars", key.Line)
			}
			v.Display[key.Value] = val.Value
		}
		return nil
	default:
		return fmt.Errorf("line %d: valid must be a sequence or a mapping", node.Line)
	}
}

func (v *Valid) UnmarshalTOML(raw any) error {
	switch t := raw.(type) {
	case []any:
		v.Set = make([]string, 0, len(t))
		for _, item := range t {
			text, err := scalarText(item)
			if err != nil {
				return err
			}
			v.Set = append(v.Set, text)
		}
		return nil
	case map[string]any:
		v.Display = make(map[string]string, len(t))
		for key, item := range t {
			text, err := scalarText(item)
			if err != nil {
				return err
			}
			v.Display[key] = text
		}
		return nil
	default:
		return fmt.Errorf("valid must be an array or a table, got %T", raw)
	}
}

// Properties is an insertion-ordered property map. Order matters because
// setters are matched first-pattern-wins in registration order, and the
// definition file's own order is the one device authors reason about.
type Properties struct {
	names []string
	byMap map[string]Property
}

// Names returns the property names in definition order.
func (p *Properties) Names() []string { return p.names }

// Get looks up one property definition by name.
func (p *Properties) Get(name string) (Property, bool) {
	def, ok := p.byMap[name]
	return def, ok
}

// Len returns the number of declared properties.
func (p *Properties) Len() int { return len(p.names) }

func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", node.Line)
	}
	p.byMap = make(map[string]Property, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return err
		}
		var def Property
		if err := node.Content[i+1].Decode(&def); err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		p.names = append(p.names, name)
		p.byMap[name] = def
	}
	return nil
}

// UnmarshalTOML decodes a property table. TOML decoding surfaces tables as
// plain Go maps, so definition order is unavailable; property names are
// ordered lexicographically instead to keep builds deterministic. Scalar
// values also lose their literal spelling here, see Scalar.
func (p *Properties) UnmarshalTOML(raw any) error {
	table, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("properties must be a table, got %T", raw)
	}

	data, err := toml.Marshal(table)
	if err != nil {
		return err
	}
	p.byMap = make(map[string]Property, len(table))
	if err := toml.Unmarshal(data, &p.byMap); err != nil {
		return err
	}

	p.names = make([]string, 0, len(p.byMap))
	for name := range p.byMap {
		p.names = append(p.names, name)
	}
	sort.Strings(p.names)

	return nil
}
