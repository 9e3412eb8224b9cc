// Package classifier assigns a severity label to free-text issue reports.
package classifier

import (
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
)

var highKeywords = []string{
	"urgent", "down", "failure", "can't", "cannot", "not working",
	"error", "critical", "unable", "crash", "data loss",
}

var mediumKeywords = []string{
	"slow", "delay", "intermittent", "performance", "lag", "warning",
}

// Classify maps issue text to a priority using case-insensitive substring
// matching. Any high keyword wins over medium keywords.
func Classify(issue string) domain.TicketPriority {
	text := strings.ToLower(issue)
	if containsAny(text, highKeywords) {
		return domain.TicketPriorityHigh
	}
	if containsAny(text, mediumKeywords) {
		return domain.TicketPriorityMedium
	}
	return domain.TicketPriorityLow
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
