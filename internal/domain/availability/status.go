package availability

// Status is the closed availability taxonomy. Values are ordered roughly by
// urgency for display purposes; business logic must compare by identity or
// through Actionable, never by order.
type Status string

const (
	StatusIdle        Status = "IDLE"
	StatusChecking    Status = "CHECKING"
	StatusAvailable   Status = "AVAILABLE"
	StatusLimitedHigh Status = "LIMITED_HIGH"
	StatusLimitedLow  Status = "LIMITED_LOW"
	StatusSoldOut     Status = "SOLD_OUT"
	StatusUnknown     Status = "UNKNOWN"
	StatusError       Status = "ERROR"
)

// Actionable reports whether the status should trigger an alert and a
// booking link: the requested party can actually book.
func (s Status) Actionable() bool {
	return s == StatusAvailable || s == StatusLimitedHigh
}

func (s Status) String() string { return string(s) }
