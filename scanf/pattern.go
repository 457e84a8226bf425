package scanf

import (
	"regexp"
	"strconv"
	"strings"
)

// Pattern is a compiled reverse-format expression: it extracts the typed
// token captured by a format-style placeholder out of free-form input.
//
// Compilation happens once, at definition-load time; matching replays the
// literal/placeholder token sequence against the input and fails cleanly on
// a structural mismatch.
type Pattern struct {
	src       string
	re        *regexp.Regexp
	numFields int
	bases     []int // numeric base per capture; 0 for non-integer captures
}

const (
	intExpr   = `[-+]?\d+`
	floatExpr = `[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`
)

// Compile parses pattern into a Pattern. It returns an error wrapping
// ErrSyntax when the pattern text is malformed; this is a configuration-time
// failure, never hit during matching.
func Compile(pattern string) (*Pattern, error) {
	tokens, err := tokenize(pattern)
	if err != nil {
		return nil, err
	}

	var expr strings.Builder
	expr.WriteString(`\A`)
	var bases []int
	for i, tok := range tokens {
		if tok.ph == nil {
			expr.WriteString(regexp.QuoteMeta(tok.literal))
			continue
		}
		bases = append(bases, captureBase(tok.ph))
		expr.WriteByte('(')
		expr.WriteString(captureExpr(tok.ph, i == len(tokens)-1))
		expr.WriteByte(')')
	}
	expr.WriteString(`\z`)

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, err
	}

	return &Pattern{src: pattern, re: re, numFields: len(bases), bases: bases}, nil
}

// MustCompile is like Compile but panics on a malformed pattern.
// It simplifies registration of patterns known to be valid.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// captureBase returns the numeric base of an integer placeholder's token,
// or 0 for float and text placeholders.
func captureBase(ph *placeholder) int {
	if ph.class != classInt {
		return 0
	}
	switch ph.verb {
	case 'b':
		return 2
	case 'o':
		return 8
	case 'x', 'X':
		return 16
	default:
		return 10
	}
}

// captureExpr returns the regular expression accepting one placeholder token.
// Width and precision do not constrain matching, only the token's shape does.
func captureExpr(ph *placeholder, last bool) string {
	switch ph.class {
	case classInt:
		switch ph.verb {
		case 'b':
			return `[-+]?[01]+`
		case 'o':
			return `[-+]?[0-7]+`
		case 'x', 'X':
			return `[-+]?[0-9a-fA-F]+`
		default:
			return intExpr
		}
	case classFloat:
		return floatExpr
	default:
		// Free text: non-greedy so a following literal can anchor the
		// capture, greedy when the placeholder ends the pattern.
		if last {
			return `.+`
		}
		return `.+?`
	}
}

// Match replays the compiled token sequence against input. It returns the
// captured token and true on a structural match, and "" and false otherwise.
// When the pattern holds several placeholders the last capture wins. Binary,
// octal and hex captures come back in decimal form, so the caller never
// needs to know the placeholder's base.
func (p *Pattern) Match(input string) (string, bool) {
	groups := p.re.FindStringSubmatch(input)
	if groups == nil {
		return "", false
	}
	if len(groups) == 1 {
		// Pure literal pattern; a match carries no captured value.
		return "", true
	}
	raw := groups[len(groups)-1]
	if base := p.bases[len(p.bases)-1]; base != 0 && base != 10 {
		if n, err := strconv.ParseInt(raw, base, 64); err == nil {
			raw = strconv.FormatInt(n, 10)
		}
	}
	return raw, true
}

// NumFields returns the number of placeholders in the pattern.
func (p *Pattern) NumFields() int { return p.numFields }

// String returns the original pattern text.
func (p *Pattern) String() string { return p.src }
