package plus

// Notifier receives the events the client publishes to the surrounding
// application: usage-limit updates, the account profile after login, and
// server-supplied human-readable error messages. Implementations decide
// how to render them; the client has no UI dependency.
type Notifier interface {
	UpdateLimits(limits UsageLimits)
	UpdateProfile(profile AccountProfile)
	Message(msg string)
}

// NopNotifier discards all events. Useful for embedding and tests.
type NopNotifier struct{}

func (NopNotifier) UpdateLimits(UsageLimits)     {}
func (NopNotifier) UpdateProfile(AccountProfile) {}
func (NopNotifier) Message(string)               {}
