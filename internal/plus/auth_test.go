package plus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newAuthServer returns a server answering the auth endpoint with the
// given status and body.
func newAuthServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST to auth endpoint, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login must be unauthorized, got Authorization %q", auth)
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func successBody(user map[string]any) map[string]any {
	return map[string]any{
		"success": true,
		"result":  map[string]any{"user": user},
	}
}

func TestAuthenticate_NoAccountConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Account = ""
	client := testClient(cfg, newFakeStore(), nil)

	ok, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected false with no account configured")
	}
}

func TestAuthenticate_NoPasswordAvailable(t *testing.T) {
	store := newFakeStore()
	client := testClient(nil, store, nil)

	ok, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected false with no password available")
	}
	if state := client.Session().Snapshot(); state != (SessionState{}) {
		t.Errorf("expected empty session, got %+v", state)
	}
	if store.deleteCount() == 0 {
		t.Error("expected credentials cleared including stored secret")
	}
}

func TestAuthenticate_PasswordFromSecretStore(t *testing.T) {
	server := newAuthServer(t, http.StatusOK, successBody(map[string]any{"token": "tok-9"}))
	defer server.Close()

	store := newFakeStore()
	store.passwords["roaster@example.com"] = "secret"
	client := testClient(nil, store, nil).WithAuthURL(server.URL)

	ok, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected successful authentication")
	}
	if got := client.Session().Token(); got != "tok-9" {
		t.Errorf("expected token stored, got %q", got)
	}
	if got := client.Session().Password(); got != "secret" {
		t.Errorf("expected password cached in session, got %q", got)
	}
}

func TestAuthenticate_MissingTokenClearsCredentials(t *testing.T) {
	server := newAuthServer(t, http.StatusOK, map[string]any{
		"success": true,
		"result":  map[string]any{"user": map[string]any{"nickname": "x"}},
	})
	defer server.Close()

	notify := &recordingNotifier{}
	client := testClient(nil, newFakeStore(), notify).WithAuthURL(server.URL)
	client.Session().SetPassword("secret")

	ok, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected false for a response without a token")
	}
	if state := client.Session().Snapshot(); state != (SessionState{}) {
		t.Errorf("expected credentials cleared, got %+v", state)
	}
}

func TestAuthenticate_WrongPasswordForwardsServerMessage(t *testing.T) {
	// 401 signals a wrong password; the server's own wording is forwarded.
	server := newAuthServer(t, http.StatusUnauthorized, map[string]any{
		"success": false,
		"error":   "wrong email or password",
	})
	defer server.Close()

	notify := &recordingNotifier{}
	client := testClient(nil, newFakeStore(), notify).WithAuthURL(server.URL)
	client.Session().SetPassword("bad")

	ok, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected false for rejected login")
	}
	if len(notify.messages) != 1 || notify.messages[0] != "wrong email or password" {
		t.Errorf("expected the server error forwarded, got %v", notify.messages)
	}
}

func TestAuthenticate_UnknownAccountFoldsIntoFailure(t *testing.T) {
	// 404 signals an unknown account; same boolean outcome as 401.
	server := newAuthServer(t, http.StatusNotFound, map[string]any{"success": false})
	defer server.Close()

	client := testClient(nil, newFakeStore(), nil).WithAuthURL(server.URL)
	client.Session().SetPassword("secret")

	ok, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected false for unknown account")
	}
}

func TestAuthenticate_LongExpiredSubscriptionRejected(t *testing.T) {
	paidUntil := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	server := newAuthServer(t, http.StatusOK, successBody(map[string]any{
		"token": "tok-2",
		"account": map[string]any{
			"subscription": "pro",
			"paidUntil":    paidUntil.Format(time.RFC3339),
		},
	}))
	defer server.Close()

	client := testClient(nil, newFakeStore(), nil).WithAuthURL(server.URL)
	client.Session().SetPassword("secret")
	client.now = func() time.Time { return paidUntil.AddDate(0, 0, 60) }

	ok, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected false for a long expired subscription despite the token")
	}
	if got := client.Session().Token(); got != "" {
		t.Errorf("expected session cleared, got token %q", got)
	}
}

func TestAuthenticate_ExpiryWithinGraceWindowAccepted(t *testing.T) {
	paidUntil := time.Date(2023, 1, 15, 23, 59, 0, 0, time.UTC)
	server := newAuthServer(t, http.StatusOK, successBody(map[string]any{
		"token": "tok-3",
		"account": map[string]any{
			"paidUntil": paidUntil.Format(time.RFC3339),
		},
	}))
	defer server.Close()

	client := testClient(nil, newFakeStore(), nil).WithAuthURL(server.URL)
	client.Session().SetPassword("secret")
	// 10 days past expiry with a 30 day grace window. The comparison is
	// date-only, so time-of-day must not matter.
	client.now = func() time.Time { return paidUntil.AddDate(0, 0, 10) }

	ok, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected success within the grace window")
	}
}

func TestAuthenticate_ProfileDefaults(t *testing.T) {
	server := newAuthServer(t, http.StatusOK, successBody(map[string]any{
		"token":    "tok-4",
		"nickname": "",
		"language": "",
		"readonly": "yes", // non-boolean, must default to false
	}))
	defer server.Close()

	notify := &recordingNotifier{}
	client := testClient(nil, newFakeStore(), notify).WithAuthURL(server.URL)
	client.Session().SetPassword("secret")

	ok, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected successful authentication")
	}
	if len(notify.profiles) != 1 {
		t.Fatalf("expected 1 profile event, got %d", len(notify.profiles))
	}
	profile := notify.profiles[0]
	if profile.Language != "en" {
		t.Errorf("expected language default 'en', got %q", profile.Language)
	}
	if profile.Nickname != "" {
		t.Errorf("expected empty nickname to stay the default, got %q", profile.Nickname)
	}
	if profile.ReadOnly {
		t.Error("expected non-boolean readonly to default to false")
	}
}

func TestAuthenticate_PublishesAccountLimits(t *testing.T) {
	server := newAuthServer(t, http.StatusOK, successBody(map[string]any{
		"token": "tok-5",
		"account": map[string]any{
			"_id":   "acct-77",
			"limit": map[string]any{"rlimit": 250.0, "rused": 42.0},
		},
	}))
	defer server.Close()

	notify := &recordingNotifier{}
	client := testClient(nil, newFakeStore(), notify).WithAuthURL(server.URL)
	client.Session().SetPassword("secret")

	ok, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected successful authentication")
	}
	if len(notify.limits) != 1 {
		t.Fatalf("expected 1 limits event, got %d", len(notify.limits))
	}
	if notify.limits[0] != (UsageLimits{Limit: 250, Used: 42}) {
		t.Errorf("unexpected limits %+v", notify.limits[0])
	}
	if got := client.Session().AccountID(); got != "acct-77" {
		t.Errorf("expected account id persisted, got %q", got)
	}
}

func TestAuthenticate_MalformedResponseClearsAndErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := testClient(nil, newFakeStore(), nil).WithAuthURL(server.URL)
	client.Session().SetPassword("secret")

	ok, err := client.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if ok {
		t.Error("expected false on parse failure")
	}
	if state := client.Session().Snapshot(); state != (SessionState{}) {
		t.Errorf("expected credentials cleared, got %+v", state)
	}
}

func TestAuthenticate_TransportErrorKeepsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := testClient(nil, newFakeStore(), nil).WithAuthURL(server.URL)
	client.Session().SetPassword("secret")

	ok, err := client.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if ok {
		t.Error("expected false on transport failure")
	}
	if got := client.Session().Password(); got != "secret" {
		t.Error("expected cached password kept on transport failure")
	}
}
