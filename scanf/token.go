package scanf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax indicates a malformed pattern or template expression.
var ErrSyntax = errors.New("malformed format expression")

// class groups placeholder verbs by the token shape they accept.
type class int

const (
	classString class = iota
	classInt
	classFloat
)

// token is either a run of literal text or one typed placeholder.
type token struct {
	literal string
	ph      *placeholder
}

// placeholder describes one brace expression after compilation.
type placeholder struct {
	name     string // optional field name; retained for diagnostics only
	sign     byte   // '+', '-' or ' ', 0 when absent
	zeroPad  bool
	width    int
	prec     int
	hasWidth bool
	hasPrec  bool
	verb     byte // 0 for "{}" (default rendering)
	class    class
}

// tokenize splits src into literal and placeholder tokens. Doubled braces
// are unescaped into literal braces.
func tokenize(src string) ([]token, error) {
	var tokens []token
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch c {
		case '{':
			if i+1 < len(src) && src[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(src[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed placeholder in %q", ErrSyntax, src)
			}
			ph, err := parsePlaceholder(src[i+1 : i+end])
			if err != nil {
				return nil, err
			}
			flushLiteral()
			tokens = append(tokens, token{ph: ph})
			i += end + 1
		case '}':
			if i+1 < len(src) && src[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, fmt.Errorf("%w: unmatched '}' in %q", ErrSyntax, src)
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flushLiteral()

	return tokens, nil
}

// parsePlaceholder parses the text between braces: an optional field name,
// then an optional ":" followed by [sign][0][width][.precision][verb].
func parsePlaceholder(body string) (*placeholder, error) {
	ph := &placeholder{}

	spec := ""
	if idx := strings.IndexByte(body, ':'); idx >= 0 {
		ph.name = body[:idx]
		spec = body[idx+1:]
	} else {
		ph.name = body
	}

	if spec == "" {
		return ph, nil
	}

	i := 0
	if spec[i] == '+' || spec[i] == '-' || spec[i] == ' ' {
		ph.sign = spec[i]
		i++
	}
	if i < len(spec) && spec[i] == '0' {
		ph.zeroPad = true
		i++
	}
	start := i
	for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
		i++
	}
	if i > start {
		ph.width, _ = strconv.Atoi(spec[start:i])
		ph.hasWidth = true
	}
	if i < len(spec) && spec[i] == '.' {
		i++
		start = i
		for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
			i++
		}
		if i == start {
			return nil, fmt.Errorf("%w: missing precision digits in {%s}", ErrSyntax, body)
		}
		ph.prec, _ = strconv.Atoi(spec[start:i])
		ph.hasPrec = true
	}
	if i < len(spec) {
		if i != len(spec)-1 {
			return nil, fmt.Errorf("%w: trailing characters in {%s}", ErrSyntax, body)
		}
		ph.verb = spec[i]
		switch ph.verb {
		case 'd', 'b', 'o', 'x', 'X':
			ph.class = classInt
		case 'f', 'F', 'e', 'E', 'g', 'G':
			ph.class = classFloat
		case 's':
			ph.class = classString
		default:
			return nil, fmt.Errorf("%w: unsupported verb %q in {%s}", ErrSyntax, ph.verb, body)
		}
	}

	return ph, nil
}
