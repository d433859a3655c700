package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("123456")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "123456" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !h.Check(hash, "123456") {
		t.Error("expected matching password to verify")
	}
	if h.Check(hash, "WRONG_PASSWORD") {
		t.Error("expected wrong password to fail")
	}
	if h.Check("not-a-hash", "123456") {
		t.Error("expected garbage hash to fail")
	}
}

func TestHasherCostClamped(t *testing.T) {
	// out-of-range costs fall back to the bcrypt default instead of failing
	h := NewHasher(99)
	hash, err := h.Hash("123456")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if cost, err := bcrypt.Cost([]byte(hash)); err != nil || cost != bcrypt.DefaultCost {
		t.Errorf("expected default cost, got %d (%v)", cost, err)
	}
}

// requestWithCookies carries Set-Cookie headers from a recorder onto a
// fresh request, standing in for a browser between round trips
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return req
}

func TestSessionLifecycle(t *testing.T) {
	sm := NewSessionManager("warbler_session")

	rec := httptest.NewRecorder()
	token := sm.Login(rec, 42)
	if token == "" {
		t.Fatal("expected a session token")
	}

	req := requestWithCookies(t, rec)
	userID, ok := sm.UserID(req)
	if !ok || userID != 42 {
		t.Fatalf("expected session to resolve to user 42, got %d (%v)", userID, ok)
	}

	// anonymous request resolves to nothing
	if _, ok := sm.UserID(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Error("expected no user for a cookieless request")
	}

	// logout destroys the session server-side
	logoutRec := httptest.NewRecorder()
	sm.Logout(logoutRec, req)
	if _, ok := sm.UserID(req); ok {
		t.Error("expected session gone after logout")
	}
}

func TestSessionRevoke(t *testing.T) {
	sm := NewSessionManager("warbler_session")

	recA := httptest.NewRecorder()
	sm.Login(recA, 7)
	recB := httptest.NewRecorder()
	sm.Login(recB, 7)
	recC := httptest.NewRecorder()
	sm.Login(recC, 8)

	sm.Revoke(7)

	if _, ok := sm.UserID(requestWithCookies(t, recA)); ok {
		t.Error("expected first session of user 7 revoked")
	}
	if _, ok := sm.UserID(requestWithCookies(t, recB)); ok {
		t.Error("expected second session of user 7 revoked")
	}
	if userID, ok := sm.UserID(requestWithCookies(t, recC)); !ok || userID != 8 {
		t.Error("expected user 8's session to survive")
	}
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Flash(rec, req, "Access unauthorized.")

	next := requestWithCookies(t, rec)
	nextRec := httptest.NewRecorder()
	flashes := PopFlashes(nextRec, next)
	if len(flashes) != 1 || flashes[0] != "Access unauthorized." {
		t.Fatalf("expected the flashed notice back, got %v", flashes)
	}

	// popping clears the cookie
	cleared := false
	for _, c := range nextRec.Result().Cookies() {
		if c.Name == "warbler_flash" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected flash cookie cleared after pop")
	}
}

func TestFlashAccumulates(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Flash(rec, req, "first notice")

	// second flash within the same response sees the pending cookie
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		second.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	secondRec := httptest.NewRecorder()
	Flash(secondRec, second, "second notice")

	final := requestWithCookies(t, secondRec)
	flashes := PopFlashes(httptest.NewRecorder(), final)
	if len(flashes) != 2 {
		t.Fatalf("expected 2 notices, got %v", flashes)
	}
	if strings.Join(flashes, "|") != "first notice|second notice" {
		t.Errorf("unexpected notices %v", flashes)
	}
}
