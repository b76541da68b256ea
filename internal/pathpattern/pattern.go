package pathpattern

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPattern is wrapped by every error returned from Compile.
var ErrInvalidPattern = errors.New("invalid path pattern")

// Params holds the values captured by a match, keyed by parameter name.
type Params map[string]string

type segmentKind int

const (
	literalSegment segmentKind = iota
	paramSegment
	wildcardSegment
)

type segment struct {
	kind  segmentKind
	value string
}

// Pattern is a compiled path pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	raw      string
	segments []segment
}

// Compile parses pattern.
func Compile(pattern string) (*Pattern, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w %q: must start with '/'", ErrInvalidPattern, pattern)
	}

	parts := splitPath(pattern)
	segments := make([]segment, 0, len(parts))

	for i, part := range parts {
		if !strings.HasPrefix(part, ":") {
			segments = append(segments, segment{kind: literalSegment, value: part})
			continue
		}

		name := strings.TrimPrefix(part, ":")
		kind := paramSegment
		if strings.HasSuffix(name, "*") {
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w %q: wildcard %q must be the last segment", ErrInvalidPattern, pattern, part)
			}
			name = strings.TrimSuffix(name, "*")
			kind = wildcardSegment
		}

		if name == "" || strings.ContainsAny(name, ":*") {
			return nil, fmt.Errorf("%w %q: bad parameter name in %q", ErrInvalidPattern, pattern, part)
		}

		segments = append(segments, segment{kind: kind, value: name})
	}

	return &Pattern{raw: pattern, segments: segments}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source text of the pattern.
func (p *Pattern) String() string {
	return p.raw
}

// Match reports whether path matches the pattern and returns the captured
// parameters. path should be the escaped form (url.URL.EscapedPath); captures
// are returned exactly as they appear in it, percent-encoding included.
func (p *Pattern) Match(path string) (Params, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	if !strings.HasPrefix(path, "/") {
		return nil, false
	}

	parts := splitPath(path)
	params := Params{}

	for i, seg := range p.segments {
		switch seg.kind {
		case wildcardSegment:
			params[seg.value] = strings.Join(parts[i:], "/")
			return params, true
		case paramSegment:
			if i >= len(parts) || parts[i] == "" {
				return nil, false
			}
			params[seg.value] = parts[i]
		default:
			if i >= len(parts) || parts[i] != seg.value {
				return nil, false
			}
		}
	}

	if len(parts) != len(p.segments) {
		return nil, false
	}

	return params, true
}

// Expand substitutes params into template. A ":name*" token whose capture is
// empty is removed together with the slash in front of it, so "/api/:path*"
// expands to "/api" rather than "/api/". Tokens without a value are left as
// they are.
func Expand(template string, params Params) string {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		if template[i] != ':' || !isTokenStart(template, i) {
			b.WriteByte(template[i])
			i++
			continue
		}

		end := i + 1
		for end < len(template) && isNameChar(template[end]) {
			end++
		}
		wildcard := end < len(template) && template[end] == '*'
		name := template[i+1 : end]
		if wildcard {
			end++
		}

		value, ok := params[name]
		switch {
		case !ok || name == "":
			b.WriteString(template[i:end])
		case wildcard && value == "":
			s := b.String()
			if strings.HasSuffix(s, "/") {
				b.Reset()
				b.WriteString(strings.TrimSuffix(s, "/"))
			}
		default:
			b.WriteString(value)
		}
		i = end
	}

	return b.String()
}

// splitPath drops the leading slash and splits on '/'. "/" yields [""].
func splitPath(path string) []string {
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}

// isTokenStart reports whether the ':' at i opens a parameter, as opposed to
// the one in "http://" or before a port number.
func isTokenStart(s string, i int) bool {
	if i == 0 || s[i-1] != '/' {
		return false
	}
	return i+1 < len(s) && isNameChar(s[i+1]) && !isDigit(s[i+1])
}

func isNameChar(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
