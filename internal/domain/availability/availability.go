package availability

import "fmt"

// Party is the requested party composition. The upstream booking form
// distinguishes adults from children; the legacy UI only knows a headcount,
// which maps to adults.
type Party struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// Size is the headcount used for sufficiency comparison. A zero party is
// treated as a single visitor.
func (p Party) Size() int {
	n := p.Adults + p.Children
	if n < 1 {
		return 1
	}
	return n
}

func (p Party) String() string {
	return fmt.Sprintf("%d adult(s), %d child(ren)", p.Adults, p.Children)
}

// Key identifies one cache entry: a calendar date in the upstream MM/DD/YYYY
// format plus the party composition. Distinct parties for the same date are
// independent entries.
type Key struct {
	Date  string `json:"date"`
	Party Party  `json:"party"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%da%dc", k.Date, k.Party.Adults, k.Party.Children)
}

// Result is one classified availability observation. A new check produces a
// new Result; results are never mutated in place.
type Result struct {
	Date        string `json:"date"`
	Status      Status `json:"status"`
	Message     string `json:"message"`
	TicketsLeft *int   `json:"ticketsLeft,omitempty"`
	CheckedAt   int64  `json:"checkedAt"` // epoch millis
	URL         string `json:"url"`
	Party       Party  `json:"party"`
}

func (r Result) Key() Key {
	return Key{Date: r.Date, Party: r.Party}
}
