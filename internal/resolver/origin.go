package resolver

import (
	"net/url"
	"strconv"

	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ValidateOrigin checks that origin is an absolute http(s) URL made of a
// scheme, a host and an optional port, with nothing else attached.
func ValidateOrigin(origin string) error {
	if origin == "" {
		return &InvalidOriginError{Origin: origin, Reason: "origin cannot be empty"}
	}

	u, err := url.Parse(origin)
	if err != nil {
		return &InvalidOriginError{Origin: origin, Reason: "must be a valid URL"}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return &InvalidOriginError{Origin: origin, Reason: "scheme must be http or https"}
	}

	if u.Opaque != "" || u.Host == "" || u.Hostname() == "" {
		return &InvalidOriginError{Origin: origin, Reason: "host cannot be empty"}
	}

	if err := is.Host.Validate(u.Hostname()); err != nil {
		return &InvalidOriginError{Origin: origin, Reason: "invalid host"}
	}

	if port := u.Port(); port != "" || u.Host[len(u.Host)-1] == ':' {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return &InvalidOriginError{Origin: origin, Reason: "port must be a number between 1 and 65535"}
		}
	}

	switch {
	case u.User != nil:
		return &InvalidOriginError{Origin: origin, Reason: "userinfo is not allowed"}
	case u.Path != "" || u.RawPath != "":
		return &InvalidOriginError{Origin: origin, Reason: "path is not allowed"}
	case u.RawQuery != "" || u.ForceQuery:
		return &InvalidOriginError{Origin: origin, Reason: "query is not allowed"}
	case u.Fragment != "":
		return &InvalidOriginError{Origin: origin, Reason: "fragment is not allowed"}
	}

	return nil
}
