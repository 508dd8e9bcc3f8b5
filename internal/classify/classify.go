// Package classify turns fetched page content into an availability Result.
//
// Two upstream schemes exist: the legacy package page, recognized by regex
// markers on the visible page text, and the direct ticketing system,
// recognized by literal substrings in the raw HTML. Both sit behind the
// availability.Classifier port with a variant tag so the rest of the system
// never branches on the scheme.
package classify

import (
	"fmt"

	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

const (
	VariantLegacy = "legacy"
	VariantDirect = "direct"
)

// New returns the classifier for the configured upstream variant.
func New(variant string) (availability.Classifier, error) {
	switch variant {
	case VariantLegacy, "":
		return Legacy{}, nil
	case VariantDirect:
		return Direct{}, nil
	default:
		return nil, fmt.Errorf("unknown upstream variant %q", variant)
	}
}
