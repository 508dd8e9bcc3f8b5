package classify

import (
	"strings"
	"time"

	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

// Literal substrings rendered by the direct ticketing system. Sold-out
// markers are checked before checkout markers so a "choose another date"
// page with a stale order summary still reads as sold out.
var (
	directSoldOut = []string{
		"SOLDOUT!",
		"There are no available times",
		"Please choose another date",
	}
	directCheckout = []string{
		"Order Summary",
		"Proceed to Checkout",
	}
)

// Direct classifies the direct ticketing-system page.
type Direct struct{}

func (Direct) Variant() string { return VariantDirect }

func (Direct) Classify(content string, key availability.Key, pageURL string, now time.Time) availability.Result {
	res := availability.Result{
		Date:      key.Date,
		Status:    availability.StatusUnknown,
		Message:   "Ambiguous page layout",
		CheckedAt: now.UnixMilli(),
		URL:       pageURL,
		Party:     key.Party,
	}

	for _, m := range directSoldOut {
		if strings.Contains(content, m) {
			res.Status = availability.StatusSoldOut
			res.Message = "Sold Out"
			return res
		}
	}

	for _, m := range directCheckout {
		if strings.Contains(content, m) {
			res.Status = availability.StatusAvailable
			res.Message = "Available! Book Now!"
			return res
		}
	}

	return res
}
