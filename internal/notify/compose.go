package notify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/example/callsched/internal/vapi"
)

const (
	likelySuccessLine  = "✅ **Likely Success**: Booking language detected"
	noAnswerSuggestion = "💡 **Suggestion**: Try calling back later or check if the number is correct"
	busySuggestion     = "💡 **Suggestion**: The line was busy - try again soon"
	maxKeyPhrases      = 3
	minKeyPhraseLength = 10
)

var (
	bookingWords  = []string{"confirmed", "booked", "reservation"}
	timeShaped    = regexp.MustCompile(`(?i)\d{1,2}:\d{2}|\d{1,2}\s*(am|pm)`)
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
)

// Compose renders a terminal call record as a markdown message for the user.
func Compose(rec vapi.CallRecord, userName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🤖 **Call Complete** - %s\n\n", userName)
	fmt.Fprintf(&b, "📞 **Status**: %s\n", rec.Status)
	fmt.Fprintf(&b, "⏱️ **Duration**: %ds\n", rec.DurationSeconds)

	if rec.Status == vapi.StatusEnded {
		fmt.Fprintf(&b, "🎯 **Result**: %s\n", orDefault(rec.EndedReason, "completed"))
		if rec.Summary != nil {
			fmt.Fprintf(&b, "\n📋 **Summary**: %s\n", *rec.Summary)
		}
		if rec.SuccessEvaluation != nil {
			fmt.Fprintf(&b, "🧠 **AI Assessment**: %s\n", *rec.SuccessEvaluation)
		}
		if rec.Transcript != nil {
			t := *rec.Transcript
			if LikelyBooked(t) {
				b.WriteString("\n" + likelySuccessLine + "\n")
			}
			fmt.Fprintf(&b, "\n💬 **Key Conversation**: \"%s\"\n", KeyPhrases(t))
		}
	} else {
		fmt.Fprintf(&b, "\n❌ **Issue**: %s\n", orDefault(rec.EndedReason, "Call was not successful"))
		switch rec.Status {
		case vapi.StatusNoAnswer:
			b.WriteString(noAnswerSuggestion + "\n")
		case vapi.StatusBusy:
			b.WriteString(busySuggestion + "\n")
		}
	}

	fmt.Fprintf(&b, "\n🔗 **Call ID**: %s", rec.ID)
	return b.String()
}

// LikelyBooked reports whether a transcript mentions a booking word and
// something shaped like a time.
func LikelyBooked(transcript string) bool {
	lower := strings.ToLower(transcript)
	booked := false
	for _, w := range bookingWords {
		if strings.Contains(lower, w) {
			booked = true
			break
		}
	}
	return booked && timeShaped.MatchString(transcript)
}

// KeyPhrases joins the first few substantial sentences of a transcript.
func KeyPhrases(transcript string) string {
	var sentences []string
	for _, s := range sentenceSplit.Split(transcript, -1) {
		s = strings.TrimSpace(s)
		if len(s) > minKeyPhraseLength {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= maxKeyPhrases {
		return strings.Join(sentences, ". ")
	}
	return strings.Join(sentences[:maxKeyPhrases], ". ") + "..."
}

func orDefault(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
