// Package pathpattern implements the route pattern syntax used by rewrite and
// header rules.
//
// A pattern is a slash separated list of segments. Each segment is either a
// literal, a named parameter ":name" capturing exactly one segment, or a
// trailing ":name*" capturing zero or more remaining segments verbatim:
//
//	/sanctum/csrf-cookie   literal path
//	/users/:id             one segment
//	/api/:path*            /api, /api/ and everything below it
//
// Matching is done on the escaped URL path only. A query string or fragment
// on the input is ignored and never becomes part of a capture, while encoded
// characters such as %3F, %23 and %2F stay inside the segment they belong to.
package pathpattern
