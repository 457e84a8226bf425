package scanf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/instrlab/go-visim/prop"
)

// Template is a compiled forward-format expression used to render a property
// value into a response string, e.g. "{:.2f}" or "FREQ {:.2f} HZ".
//
// Every placeholder in the template renders the same value; getter responses
// carry exactly one property.
type Template struct {
	src    string
	tokens []token
}

// CompileTemplate parses template into a Template, rejecting malformed
// placeholders at definition-load time.
func CompileTemplate(template string) (*Template, error) {
	tokens, err := tokenize(template)
	if err != nil {
		return nil, err
	}
	return &Template{src: template, tokens: tokens}, nil
}

// MustCompileTemplate is like CompileTemplate but panics on malformed input.
func MustCompileTemplate(template string) *Template {
	t, err := CompileTemplate(template)
	if err != nil {
		panic(err)
	}
	return t
}

// Format renders v through the template.
func (t *Template) Format(v prop.Value) string {
	var out strings.Builder
	for _, tok := range t.tokens {
		if tok.ph == nil {
			out.WriteString(tok.literal)
			continue
		}
		out.WriteString(formatValue(tok.ph, v))
	}
	return out.String()
}

// String returns the original template text.
func (t *Template) String() string { return t.src }

func formatValue(ph *placeholder, v prop.Value) string {
	if ph.verb == 0 {
		// "{}" renders the canonical text form, padded if a width was given.
		return pad(ph, v.String())
	}

	var spec strings.Builder
	spec.WriteByte('%')
	if ph.sign == '+' || ph.sign == ' ' {
		spec.WriteByte(ph.sign)
	}
	if ph.zeroPad {
		spec.WriteByte('0')
	}
	if ph.hasWidth {
		spec.WriteString(strconv.Itoa(ph.width))
	}
	if ph.hasPrec {
		spec.WriteByte('.')
		spec.WriteString(strconv.Itoa(ph.prec))
	}
	verb := ph.verb
	if verb == 'F' {
		verb = 'f' // Go's fmt spells the fixed-point verb in lowercase only
	}
	spec.WriteByte(verb)

	switch ph.class {
	case classInt:
		return fmt.Sprintf(spec.String(), v.Int())
	case classFloat:
		return fmt.Sprintf(spec.String(), v.Float())
	default:
		return fmt.Sprintf(spec.String(), v.String())
	}
}

func pad(ph *placeholder, s string) string {
	if !ph.hasWidth || len(s) >= ph.width {
		return s
	}
	return strings.Repeat(" ", ph.width-len(s)) + s
}
