// Package handler implements the read-only HTTP endpoints that publish the
// resolved configuration and let operators dry-run the rewrite table.
package handler
