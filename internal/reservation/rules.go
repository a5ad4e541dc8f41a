package reservation

import "regexp"

// rule pairs a pattern with an extractor over its submatches. extract may
// reject a match by returning false, in which case the next rule is tried.
type rule struct {
	re      *regexp.Regexp
	extract func(m []string) (string, bool)
}

// firstMatch runs rules in order. Earlier rules win ties.
func firstMatch(rules []rule, text string) (string, bool) {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := r.extract(m); ok {
			return v, true
		}
	}
	return "", false
}

func group(n int) func(m []string) (string, bool) {
	return func(m []string) (string, bool) {
		if n >= len(m) || m[n] == "" {
			return "", false
		}
		return m[n], true
	}
}
