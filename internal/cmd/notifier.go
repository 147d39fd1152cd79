package cmd

import (
	"github.com/roastkit/plus-cli/internal/plus"
	"github.com/roastkit/plus-cli/internal/ui"
)

// uiNotifier renders client events on stderr, keeping stdout free for data.
type uiNotifier struct {
	ui *ui.UI
}

func (n *uiNotifier) UpdateLimits(limits plus.UsageLimits) {
	n.ui.Info("account usage: %.0f of %.0f roasts", limits.Used, limits.Limit)
}

func (n *uiNotifier) UpdateProfile(profile plus.AccountProfile) {
	if profile.Subscription != "" && profile.PaidUntil != nil {
		n.ui.Info("subscription: %s (paid until %s)", profile.Subscription, profile.PaidUntil.Format("2006-01-02"))
	}
	if profile.ReadOnly {
		n.ui.Warning("account is read-only")
	}
}

func (n *uiNotifier) Message(msg string) {
	// Server-supplied wording is forwarded unchanged.
	n.ui.Warning("%s", msg)
}
