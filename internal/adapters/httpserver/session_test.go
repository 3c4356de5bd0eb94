package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func cookieRequest(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestUserSessionCookieRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	in := &sessionUser{UID: uuid.NewString(), Email: "a@b.test", Name: "A"}
	writeUserSession(rec, in)

	out := readUserSession(cookieRequest(t, rec))
	if out == nil {
		t.Fatalf("expected a session back")
	}
	if out.UID != in.UID || out.Email != in.Email || out.Name != in.Name {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestUserSessionRejectsTamperedCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	writeUserSession(rec, &sessionUser{UID: uuid.NewString(), Email: "a@b.test"})
	req := cookieRequest(t, rec)

	c, err := req.Cookie("sess")
	if err != nil {
		t.Fatalf("cookie: %v", err)
	}
	parts := strings.SplitN(c.Value, ".", 2)
	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(&http.Cookie{Name: "sess", Value: parts[0] + "x." + parts[1]})
	if readUserSession(forged) != nil {
		t.Fatalf("expected tampered signature rejected")
	}

	garbage := httptest.NewRequest(http.MethodGet, "/", nil)
	garbage.AddCookie(&http.Cookie{Name: "sess", Value: "not-a-session"})
	if readUserSession(garbage) != nil {
		t.Fatalf("expected malformed cookie rejected")
	}
}

func TestWriteUserSessionNilClearsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	writeUserSession(rec, nil)
	cs := rec.Result().Cookies()
	if len(cs) != 1 || cs[0].Name != "sess" || cs[0].MaxAge != -1 {
		t.Fatalf("expected an expiring sess cookie, got %+v", cs)
	}
}

func TestAnonymousSessionIDParsesCookie(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: id.String()})
	got := anonymousSessionID(req)
	if got == nil || *got != id {
		t.Fatalf("expected %s, got %v", id, got)
	}

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.AddCookie(&http.Cookie{Name: sessionCookie, Value: "nope"})
	if anonymousSessionID(bad) != nil {
		t.Fatalf("expected nil for a bad cookie value")
	}
	if anonymousSessionID(httptest.NewRequest(http.MethodGet, "/", nil)) != nil {
		t.Fatalf("expected nil without a cookie")
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	s := &Server{
		adminSecret:  []byte("secret"),
		adminAllowed: map[string]struct{}{"ops@vastra.test": {}},
	}
	tok, _, err := s.issueAdminToken("ops@vastra.test", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	email, err := s.verifyAdminToken(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if email != "ops@vastra.test" {
		t.Fatalf("expected issued email back, got %q", email)
	}

	other := &Server{adminSecret: []byte("other"), adminAllowed: s.adminAllowed}
	if _, err := other.verifyAdminToken(tok); err == nil {
		t.Fatalf("expected token rejected with a different key")
	}
	if _, err := s.verifyAdminToken(tok + "x"); err == nil {
		t.Fatalf("expected altered token rejected")
	}
	if _, err := s.verifyAdminToken("a.b"); err == nil {
		t.Fatalf("expected malformed token rejected")
	}
}

func TestAdminTokenExpiry(t *testing.T) {
	s := &Server{
		adminSecret:  []byte("secret"),
		adminAllowed: map[string]struct{}{"ops@vastra.test": {}},
	}
	tok, _, err := s.issueAdminToken("ops@vastra.test", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.verifyAdminToken(tok); err == nil {
		t.Fatalf("expected expired token rejected")
	}
}

func TestAdminTokenEmailMustBeAllowed(t *testing.T) {
	s := &Server{
		adminSecret:  []byte("secret"),
		adminAllowed: map[string]struct{}{"ops@vastra.test": {}},
	}
	tok, _, err := s.issueAdminToken("intruder@vastra.test", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.verifyAdminToken(tok); err == nil {
		t.Fatalf("expected unlisted email rejected")
	}
}
