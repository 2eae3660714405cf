package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SpiritX-2025-CodeChefs/auth-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn  func(ctx context.Context, username, password string) (ports.AuthResult, error)
	loginFn     func(ctx context.Context, username, password string) (ports.AuthResult, error)
	validateFn  func(ctx context.Context, token string) (ports.SessionResult, error)
	availableFn func(ctx context.Context, username string) (bool, error)
	logoutFn    func(ctx context.Context, token string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (ports.AuthResult, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (ports.AuthResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) ValidateSession(ctx context.Context, token string) (ports.SessionResult, error) {
	return s.validateFn(ctx, token)
}

func (s *stubAuthService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	return s.availableFn(ctx, username)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func newTestContext(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestAuthHandler_Register_SetsSessionCookie(t *testing.T) {
	expiry := time.Now().Add(365 * 24 * time.Hour).UTC().Truncate(time.Second)
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (ports.AuthResult, error) {
			if username != "alice_wonder" || password != "Sup3r!pass" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return ports.AuthResult{Success: true, Token: "abc123", Expiry: expiry}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/register", `{"username":"alice_wonder","password":"Sup3r!pass"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp baseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Message != "" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	ck := findCookie(t, rec, "session")
	if ck == nil {
		t.Fatalf("expected session cookie to be set")
	}
	if ck.Value != "abc123" {
		t.Fatalf("unexpected cookie value %q", ck.Value)
	}
	if !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie attributes wrong: %+v", ck)
	}
	if !ck.Expires.Equal(expiry) {
		t.Fatalf("cookie expires %v, want %v", ck.Expires, expiry)
	}
}

func TestAuthHandler_Register_BusinessFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (ports.AuthResult, error) {
			return ports.AuthResult{Message: "username already taken"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/register", `{"username":"alice_wonder","password":"Sup3r!pass"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("business failures are 200 envelopes, got %d", rec.Code)
	}

	var resp baseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Success || resp.Message != "username already taken" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if findCookie(t, rec, "session") != nil {
		t.Fatalf("no cookie should be set on failure")
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return ports.AuthResult{}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/register", "not-json")
	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return ports.AuthResult{}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/register", `{"username":"alice_wonder"}`)
	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	expiry := time.Now().Add(365 * 24 * time.Hour).UTC().Truncate(time.Second)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (ports.AuthResult, error) {
			return ports.AuthResult{Success: true, Token: "tok456", Expiry: expiry}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/login", `{"username":"alice_wonder","password":"Sup3r!pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	ck := findCookie(t, rec, "session")
	if ck == nil || ck.Value != "tok456" {
		t.Fatalf("expected session cookie, got %+v", ck)
	}
}

func TestAuthHandler_Login_GenericFailure(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (ports.AuthResult, error) {
			return ports.AuthResult{Message: "invalid username or password"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/login", `{"username":"alice_wonder","password":"bad"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp baseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Success || resp.Message != "invalid username or password" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if findCookie(t, rec, "session") != nil {
		t.Fatalf("no cookie should be set on failure")
	}
}

func TestAuthHandler_ValidateSession_Success(t *testing.T) {
	stub := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (ports.SessionResult, error) {
			if token != "tok789" {
				t.Fatalf("unexpected token %q", token)
			}
			return ports.SessionResult{Success: true, Username: "alice_wonder"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/validate-session", "")
	c.Request().AddCookie(&http.Cookie{Name: "session", Value: "tok789"})

	if err := h.ValidateSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Username != "alice_wonder" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if findCookie(t, rec, "session") != nil {
		t.Fatalf("cookie must not be touched on success")
	}
}

func TestAuthHandler_ValidateSession_FailureClearsCookie(t *testing.T) {
	stub := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (ports.SessionResult, error) {
			return ports.SessionResult{}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/validate-session", "")
	c.Request().AddCookie(&http.Cookie{Name: "session", Value: "stale"})

	if err := h.ValidateSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Success || resp.Username != "" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	ck := findCookie(t, rec, "session")
	if ck == nil || ck.MaxAge != -1 || ck.Value != "" {
		t.Fatalf("expected cleared cookie, got %+v", ck)
	}
}

func TestAuthHandler_ValidateSession_NoCookie(t *testing.T) {
	stub := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (ports.SessionResult, error) {
			if token != "" {
				t.Fatalf("expected empty token, got %q", token)
			}
			return ports.SessionResult{}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/validate-session", "")
	if err := h.ValidateSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if ck := findCookie(t, rec, "session"); ck == nil || ck.MaxAge != -1 {
		t.Fatalf("expected cleared cookie, got %+v", ck)
	}
}

func TestAuthHandler_ValidateUsername(t *testing.T) {
	stub := &stubAuthService{
		availableFn: func(ctx context.Context, username string) (bool, error) {
			return username == "bob_builder", nil
		},
	}
	h := NewAuthHandler(stub)

	cases := []struct {
		username string
		want     bool
	}{
		{"bob_builder", true},
		{"alice_wonder", false},
	}

	for _, tc := range cases {
		c, rec := newTestContext(t, "/validate-username", `{"username":"`+tc.username+`"}`)
		if err := h.ValidateUsername(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}

		var resp availabilityResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if !resp.Success {
			t.Fatalf("availability check must always report success")
		}
		if resp.Available != tc.want {
			t.Fatalf("available = %v for %q, want %v", resp.Available, tc.username, tc.want)
		}
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	var deleted string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "session", Value: "tok789"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "tok789" {
		t.Fatalf("expected logout with token, got %q", deleted)
	}

	var resp baseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success {
		t.Fatalf("logout must always succeed")
	}
	if ck := findCookie(t, rec, "session"); ck == nil || ck.MaxAge != -1 {
		t.Fatalf("expected cleared cookie, got %+v", ck)
	}
}

func TestAuthHandler_Logout_WithoutCookie(t *testing.T) {
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			if token != "" {
				t.Fatalf("expected empty token, got %q", token)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, "/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp baseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success {
		t.Fatalf("logout without a session must still succeed")
	}
	if ck := findCookie(t, rec, "session"); ck == nil || ck.MaxAge != -1 {
		t.Fatalf("expected cleared cookie, got %+v", ck)
	}
}
