package reservation

import (
	"regexp"
	"strings"
)

var phonePatterns = []*regexp.Regexp{
	// North American, optional leading 1 or bare "+". The separator after
	// the country code only counts when the 1 is present, so a match never
	// starts on whitespace in front of an 11-digit number.
	regexp.MustCompile(`(?:\+?1[-.\s]?|\+)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`),
	// international-looking
	regexp.MustCompile(`\+?([0-9]{1,4})[-.\s]?([0-9]{3,4})[-.\s]?([0-9]{3,4})[-.\s]?([0-9]{4})`),
}

// ExtractPhoneNumber returns the first phone-shaped substring of text
// reduced to digits and "+". A 10-digit number gets "+1", an 11-digit
// number starting with 1 gets "+"; anything else is returned as matched.
func ExtractPhoneNumber(text string) (string, bool) {
	for _, re := range phonePatterns {
		m := re.FindString(text)
		if m == "" {
			continue
		}
		return normalizePhone(m), true
	}
	return "", false
}

func normalizePhone(raw string) string {
	phone := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, raw)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	switch {
	case len(phone) == 10:
		return "+1" + phone
	case len(phone) == 11 && phone[0] == '1':
		return "+" + phone
	}
	return phone
}
