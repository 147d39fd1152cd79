package plus

import (
	"encoding/json"
	"time"
)

// UsageLimits is the server-reported quota pair for the account.
type UsageLimits struct {
	Limit float64
	Used  float64
}

// AccountProfile is the user/account data extracted from a successful
// authentication response. It is handed to the application via the
// Notifier and not retained by the client.
type AccountProfile struct {
	Nickname     string
	Language     string
	Subscription string
	PaidUntil    *time.Time
	ReadOnly     bool
}

// authRequest is the login payload. Never logged.
type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the wire shape of the authentication endpoint reply.
type AuthResponse struct {
	Success bool        `json:"success"`
	Result  *AuthResult `json:"result"`
	Error   string      `json:"error"`
}

// AuthResult wraps the user object of an authentication reply.
type AuthResult struct {
	User *AuthUser `json:"user"`
}

// AuthUser carries the token and profile fields. ReadOnly is kept raw
// because the server occasionally sends non-boolean values there; anything
// that is not a JSON boolean counts as false.
type AuthUser struct {
	Token    string          `json:"token"`
	Nickname string          `json:"nickname"`
	Language string          `json:"language"`
	ReadOnly json.RawMessage `json:"readonly"`
	Account  *AuthAccount    `json:"account"`
}

// AuthAccount is the subscription sub-object of an authentication reply.
// Limit is kept raw so a malformed quota never fails the login.
type AuthAccount struct {
	ID           string          `json:"_id"`
	Subscription string          `json:"subscription"`
	PaidUntil    string          `json:"paidUntil"`
	Limit        json.RawMessage `json:"limit"`
}

// user returns the nested user object, or nil for any missing layer.
func (r *AuthResponse) user() *AuthUser {
	if r.Result == nil {
		return nil
	}
	return r.Result.User
}

// orDefault implements the "present, non-empty string, else default"
// extraction rule for profile fields.
func orDefault(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

// readonlyFlag decodes the raw readonly field, defaulting to false when
// it is absent or not a boolean.
func readonlyFlag(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// parsePaidUntil parses the ISO-8601 paidUntil value, accepting full
// timestamps and bare dates.
func parsePaidUntil(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z07:00",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// dateDiffDays returns a.date - b.date in whole calendar days.
// Time-of-day is deliberately ignored.
func dateDiffDays(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ad.Sub(bd).Hours() / 24)
}
