// Package rewrite evaluates resolved rewrite rules against inbound request
// URLs.
package rewrite

import (
	"fmt"
	"net/url"

	"github.com/angeloszaimis/bingo-gateway/internal/pathpattern"
	"github.com/angeloszaimis/bingo-gateway/internal/resolver"
)

type compiledRule struct {
	rule    resolver.RewriteRule
	pattern *pathpattern.Pattern
}

// Table is an ordered, read-only set of rewrite rules.
type Table struct {
	rules []compiledRule
}

// Match is the outcome of a successful lookup.
type Match struct {
	Rule        resolver.RewriteRule
	Destination *url.URL
}

// New compiles rules in order. Every destination must be an absolute URL.
func New(rules []resolver.RewriteRule) (*Table, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for _, r := range rules {
		p, err := pathpattern.Compile(r.Source)
		if err != nil {
			return nil, fmt.Errorf("rewrite source: %w", err)
		}

		u, err := url.Parse(r.Destination)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("rewrite destination %q must be an absolute URL", r.Destination)
		}

		compiled = append(compiled, compiledRule{rule: r, pattern: p})
	}

	return &Table{rules: compiled}, nil
}

// Lookup returns the destination for u according to the first rule whose
// source matches u's escaped path. Captured segments keep their escaping, so
// an encoded '?', '#' or '/' reaches the destination as it arrived. The query
// of u is carried over unchanged. An error means the first matching rule
// expanded to something that is not a URL.
func (t *Table) Lookup(u *url.URL) (Match, bool, error) {
	for _, cr := range t.rules {
		params, ok := cr.pattern.Match(u.EscapedPath())
		if !ok {
			continue
		}

		expanded := pathpattern.Expand(cr.rule.Destination, params)
		dest, err := url.Parse(expanded)
		if err != nil {
			return Match{}, false, fmt.Errorf("rewrite %q: expanded destination %q: %w", cr.rule.Source, expanded, err)
		}
		if u.RawQuery != "" {
			if dest.RawQuery != "" {
				dest.RawQuery += "&" + u.RawQuery
			} else {
				dest.RawQuery = u.RawQuery
			}
		}

		return Match{Rule: cr.rule, Destination: dest}, true, nil
	}

	return Match{}, false, nil
}

// Rules returns a copy of the rules in evaluation order.
func (t *Table) Rules() []resolver.RewriteRule {
	out := make([]resolver.RewriteRule, len(t.rules))
	for i, cr := range t.rules {
		out[i] = cr.rule
	}
	return out
}
