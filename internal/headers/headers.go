// Package headers applies resolved header rules to HTTP responses.
package headers

import (
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"

	"github.com/angeloszaimis/bingo-gateway/internal/pathpattern"
	"github.com/angeloszaimis/bingo-gateway/internal/resolver"
)

type compiledRule struct {
	pattern *pathpattern.Pattern
	headers []resolver.HeaderEntry
}

// Applier sets response headers for the rules whose source matches the
// request path.
type Applier struct {
	rules []compiledRule
}

// New compiles rules. Header keys must be valid HTTP field names.
func New(rules []resolver.HeaderRule) (*Applier, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for _, r := range rules {
		p, err := pathpattern.Compile(r.Source)
		if err != nil {
			return nil, fmt.Errorf("header source: %w", err)
		}

		for _, h := range r.Headers {
			if !httpguts.ValidHeaderFieldName(h.Key) {
				return nil, fmt.Errorf("header rule %q: invalid header name %q", r.Source, h.Key)
			}
		}

		compiled = append(compiled, compiledRule{pattern: p, headers: r.Headers})
	}

	return &Applier{rules: compiled}, nil
}

// Apply writes the headers of every rule matching path into h. A later rule
// overrides an earlier one for the same key.
func (a *Applier) Apply(h http.Header, path string) {
	for _, r := range a.rules {
		if _, ok := r.pattern.Match(path); !ok {
			continue
		}
		for _, e := range r.headers {
			h.Set(e.Key, e.Value)
		}
	}
}

// Middleware applies the headers before handing the request to next.
func (a *Applier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.Apply(w.Header(), r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
