package resolver

import (
	"errors"
	"fmt"
)

// ErrInvalidOrigin is matched by every *InvalidOriginError via errors.Is.
var ErrInvalidOrigin = errors.New("invalid backend origin")

// InvalidOriginError reports a backend origin that is not a bare
// scheme://host[:port] URL.
type InvalidOriginError struct {
	Origin string
	Reason string
}

func (e *InvalidOriginError) Error() string {
	return fmt.Sprintf("invalid backend origin %q: %s", e.Origin, e.Reason)
}

func (e *InvalidOriginError) Is(target error) bool {
	return target == ErrInvalidOrigin
}
