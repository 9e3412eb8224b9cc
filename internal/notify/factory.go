package notify

import (
	"github.com/spec-kit/support-desk/internal/config"
)

// FromConfig builds the set of notifiers enabled by cfg. An empty Multi means
// notifications are disabled.
func FromConfig(cfg config.NotificationConfig) Multi {
	var out Multi
	if email := NewEmailNotifier(cfg); email != nil {
		out = append(out, email)
	}
	if hook := NewWebhookNotifier(cfg.WebhookURL); hook != nil {
		out = append(out, hook)
	}
	return out
}
