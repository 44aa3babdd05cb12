package service

import (
	"strings"

	"github.com/psds-microservice/contact-service/internal/model"
	"github.com/samber/lo"
)

// Keywords that escalate a new message to high priority when found anywhere
// in the subject or body.
var priorityKeywords = []string{"urgent", "emergency", "complaint", "problem", "issue", "error"}

// AutoPriority computes the initial priority of an inbound message. An empty
// result means no rule fired and the store default applies.
func AutoPriority(subject, body string, category model.MessageCategory) model.MessagePriority {
	text := strings.ToLower(subject + " " + body)
	hit := lo.SomeBy(priorityKeywords, func(kw string) bool {
		return strings.Contains(text, kw)
	})
	if hit || category == model.CategoryComplaint {
		return model.PriorityHigh
	}
	if category == model.CategorySales || category == model.CategoryPartnership {
		return model.PriorityMedium
	}
	return ""
}
