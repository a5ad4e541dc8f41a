package reservation

// DefaultUserName is used when the caller does not say who the booking is for.
const DefaultUserName = "Customer"

// Request holds what could be pulled out of a free-text scheduling request.
// Optional fields are nil when nothing matched.
type Request struct {
	UserName     string `json:"userName"`
	OriginalText string `json:"originalText"`

	PhoneNumber *string `json:"phoneNumber"`
	VenueName   *string `json:"venueName"`
	PartySize   *int    `json:"partySize"`
	Date        *string `json:"date"` // verbatim, e.g. "tonight" or "next friday"
	Time        *string `json:"time"` // e.g. "7:30 PM"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Venue returns the venue name or "".
func (r Request) Venue() string { return deref(r.VenueName) }

// Phone returns the extracted phone number or "".
func (r Request) Phone() string { return deref(r.PhoneNumber) }

// DateText returns the matched date text or "".
func (r Request) DateText() string { return deref(r.Date) }

// TimeText returns the matched time text or "".
func (r Request) TimeText() string { return deref(r.Time) }
