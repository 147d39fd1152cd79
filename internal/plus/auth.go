package plus

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	clierrors "github.com/roastkit/plus-cli/internal/errors"
)

// Authenticate performs the login exchange and updates the session.
//
// It returns (false, nil) for the expected negative outcomes: no account
// configured, no password available, wrong credentials, or a subscription
// expired beyond the grace window. Transport failures are returned as
// errors without clearing credentials; a malformed response clears the
// credentials and returns the decode error.
func (c *Client) Authenticate(ctx context.Context) (bool, error) {
	slog.Info("authenticate")
	account := strings.TrimSpace(c.cfg.Account)
	if account == "" {
		return false, nil
	}

	password := c.session.Password()
	if password == "" && c.store != nil {
		stored, err := c.store.GetPassword(account)
		if err != nil {
			slog.Error("reading password from secret store failed", "error", err)
		}
		password = stored
		if password != "" {
			c.session.SetPassword(password)
		}
	}
	if password == "" {
		slog.Debug("password not found")
		c.session.Clear(true)
		return false, nil
	}

	slog.Debug("authenticating", "account", account)
	// The service answers 404 for an unknown account and 401 for a wrong
	// password; both fall through the shape check below as a failed login.
	resp, err := c.SubmitWithCompression(ctx, c.authURL, authRequest{Email: account, Password: password}, false, false)
	if err != nil {
		slog.Error("authentication request failed", "error", err)
		return false, err
	}
	slog.Debug("authentication reply", "status", resp.StatusCode)

	var body AuthResponse
	if err := resp.JSON(&body); err != nil {
		slog.Error("malformed authentication response", "error", err)
		c.session.Clear(true)
		return false, clierrors.WrapContext(http.MethodPost, c.authURL, resp.StatusCode, err)
	}

	user := body.user()
	if !body.Success || user == nil || user.Token == "" {
		slog.Debug("authentication failed")
		c.rejectLogin(body.Error)
		return false, nil
	}
	slog.Debug("authenticated, token received")

	profile := AccountProfile{
		Nickname: user.Nickname,
		Language: orDefault(user.Language, "en"),
		ReadOnly: readonlyFlag(user.ReadOnly),
	}
	if acct := user.Account; acct != nil {
		profile.Subscription = acct.Subscription
		if acct.PaidUntil != "" {
			if paidUntil, err := parsePaidUntil(acct.PaidUntil); err != nil {
				slog.Error("parsing paidUntil failed", "error", err)
			} else {
				profile.PaidUntil = &paidUntil
			}
		}
		if limit, used, ok := decodeLimits(acct.Limit); ok {
			c.notify.UpdateLimits(UsageLimits{Limit: limit, Used: used})
		}
	}

	// A token was issued, but a subscription expired beyond the grace
	// window still counts as a failed login.
	if profile.PaidUntil != nil &&
		dateDiffDays(*profile.PaidUntil, c.now()) < -c.cfg.ExpiredSubscriptionMaxDays {
		slog.Debug("authentication failed due to long expired subscription")
		c.rejectLogin(body.Error)
		return false, nil
	}

	c.notify.UpdateProfile(profile)
	c.session.SetToken(user.Token, user.Nickname)
	if acct := user.Account; acct != nil && acct.ID != "" {
		c.session.SetAccountID(acct.ID)
		slog.Debug("account", "id", acct.ID)
	}
	return true, nil
}

// rejectLogin forwards the server's own error wording (never invented
// here) and clears the credentials.
func (c *Client) rejectLogin(serverError string) {
	if serverError != "" {
		c.notify.Message(serverError)
	}
	c.session.Clear(true)
}
