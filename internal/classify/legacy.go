package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

// Marker patterns shown on the legacy package page. Matched
// case-insensitively against the whitespace-collapsed visible text, in
// strict priority order: a sold-out marker wins even when an availability
// marker appears elsewhere on the page.
var (
	legacySoldOut   = regexp.MustCompile(`(?i)SOLDOUT! Please choose another date!`)
	legacyLowCount  = regexp.MustCompile(`(?i)Limited Availability! Book Now! ([1-5]) tickets left`)
	legacyAvailable = regexp.MustCompile(`(?i)Tickets available\. Book Now!`)
	legacyLimited   = regexp.MustCompile(`(?i)Limited Availability! Book Now!`)
)

// Legacy classifies the legacy package page.
type Legacy struct{}

func (Legacy) Variant() string { return VariantLegacy }

func (Legacy) Classify(content string, key availability.Key, pageURL string, now time.Time) availability.Result {
	res := availability.Result{
		Date:      key.Date,
		Status:    availability.StatusUnknown,
		Message:   "Status text not found on page",
		CheckedAt: now.UnixMilli(),
		URL:       pageURL,
		Party:     key.Party,
	}

	text := VisibleText(content)

	if legacySoldOut.MatchString(text) {
		res.Status = availability.StatusSoldOut
		res.Message = "Sold Out"
		return res
	}

	if m := legacyLowCount.FindStringSubmatch(text); m != nil {
		left, _ := strconv.Atoi(m[1])
		res.TicketsLeft = &left
		need := key.Party.Size()
		// ticketsLeft == party size is still enough; only strictly fewer
		// tickets than people is insufficient.
		if left < need {
			res.Status = availability.StatusLimitedLow
			res.Message = fmt.Sprintf("Only %d ticket(s) left (Need %d)", left, need)
		} else {
			res.Status = availability.StatusLimitedHigh
			res.Message = fmt.Sprintf("Available - %d tickets left!", left)
		}
		return res
	}

	if legacyAvailable.MatchString(text) {
		res.Status = availability.StatusAvailable
		res.Message = "Available! Book Now!"
		return res
	}

	// A limited marker without a count means more than the largest count the
	// page ever shows, so the party fits.
	if legacyLimited.MatchString(text) {
		res.Status = availability.StatusLimitedHigh
		res.Message = "Limited Availability (Likely enough)"
		return res
	}

	return res
}
