package reservation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const venueChars = `[A-Za-z0-9'\s&.,-]`

var (
	leadingArticle = regexp.MustCompile(`(?i)^(the|a|an)\s+`)
	venueSuffix    = regexp.MustCompile(`(?i)\s+(restaurant|cafe|pizza|grill|bistro|bar|diner)$`)
)

var venueRules = []rule{
	{regexp.MustCompile(`(?i)^call\s+(` + venueChars + `+?)(?:\s+at\s+[\+\(]?\d)`), venueName},
	{regexp.MustCompile(`(?i)table\s+for\s+\d+\s+at\s+(` + venueChars + `+?)(?:\s+(?:tonight|today|tomorrow|on|for)|\s*$)`), venueName},
	{regexp.MustCompile(`(?i)reservation\s+at\s+(` + venueChars + `+?)(?:\s+(?:for|on|at|tonight|today|tomorrow)|\s*$)`), venueName},
	{regexp.MustCompile(`(?i)\bat\s+(` + venueChars + `+?)(?:\s+(?:tonight|today|tomorrow|on|for)|\s*$)`), venueName},
}

var partySizePattern = regexp.MustCompile(`(?i)(?:for|table for|party of|group of|reservation for)\s+(\d+)`)

var timeRules = []rule{
	{regexp.MustCompile(`(?i)(\d{1,2}:\d{2})\s*(am|pm)`), withMeridiem},
	{regexp.MustCompile(`(?i)(\d{1,2})\s*(am|pm)`), withMeridiem},
	{regexp.MustCompile(`(\d{1,2}:\d{2})`), group(1)},
	{regexp.MustCompile(`(?i)around\s+(\d{1,2}(?::\d{2})?)\s*(am|pm)?`), withMeridiem},
}

const weekdays = `(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`

var dateRules = []rule{
	{regexp.MustCompile(`(?i)(today|tonight|this evening)`), group(0)},
	{regexp.MustCompile(`(?i)(tomorrow|tomorrow night|tomorrow evening)`), group(0)},
	{regexp.MustCompile(`(?i)` + weekdays + `(?:\s+night|\s+evening)?`), group(0)},
	{regexp.MustCompile(`(?i)(this|next)\s+` + weekdays), group(0)},
	{regexp.MustCompile(`(?i)(this|next)\s+(weekend|week)`), group(0)},
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`), group(0)},
	{regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})`), group(0)},
}

// Parse pulls venue, party size, time and date out of text. Each field is
// extracted independently; a field with no matching rule is left nil.
func Parse(text, userName string) Request {
	if strings.TrimSpace(userName) == "" {
		userName = DefaultUserName
	}
	req := Request{
		UserName:     userName,
		OriginalText: text,
	}
	if p, ok := ExtractPhoneNumber(text); ok {
		req.PhoneNumber = &p
	}
	if v, ok := firstMatch(venueRules, text); ok {
		req.VenueName = &v
	}
	if n, ok := partySize(text); ok {
		req.PartySize = &n
	}
	if v, ok := firstMatch(timeRules, text); ok {
		req.Time = &v
	}
	if v, ok := firstMatch(dateRules, text); ok {
		req.Date = &v
	}
	return req
}

func venueName(m []string) (string, bool) {
	v := strings.TrimSpace(m[1])
	v = leadingArticle.ReplaceAllString(v, "")
	v = venueSuffix.ReplaceAllString(v, "")
	if utf8.RuneCountInString(v) < 3 {
		return "", false
	}
	return v, true
}

func partySize(text string) (int, bool) {
	m := partySizePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func withMeridiem(m []string) (string, bool) {
	if len(m) > 2 && m[2] != "" {
		return m[1] + " " + strings.ToUpper(m[2]), true
	}
	return m[1], true
}
