// Package resolver turns a backend origin into the configuration consumed by
// the frontend's dev server and bundler: path-rewrite rules, CORS response
// headers and the bundler externals list.
//
// All functions are pure. Resolve is meant to be called once during process
// startup; the returned Resolved value is immutable and may be shared freely.
package resolver
