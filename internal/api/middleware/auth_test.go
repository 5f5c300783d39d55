package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fanmerch/storefront/internal/core/domain"
)

type stubVerifier struct {
	claims domain.TokenClaims
	err    error
	got    string
}

func (s *stubVerifier) VerifyToken(_ context.Context, token string) (domain.TokenClaims, error) {
	s.got = token
	return s.claims, s.err
}

func runAuth(t *testing.T, v TokenVerifier, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth(v)(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func mustNotReach(t *testing.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	v := &stubVerifier{claims: domain.TokenClaims{UserID: "u1", Email: "a@x.com"}}

	called := false
	rec := runAuth(t, v, "Bearer tok", func(c echo.Context) error {
		called = true
		if c.Get(CtxUserID) != "u1" {
			t.Fatalf("user_id not set")
		}
		if c.Get(CtxEmail) != "a@x.com" {
			t.Fatalf("email not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if v.got != "tok" {
		t.Fatalf("expected token to be forwarded, got %q", v.got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec := runAuth(t, &stubVerifier{}, "", mustNotReach(t))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	for _, h := range []string{"Token abc", "Bearer", "Bearer "} {
		rec := runAuth(t, &stubVerifier{}, h, mustNotReach(t))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", h, rec.Code)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec := runAuth(t, &stubVerifier{err: domain.ErrInvalidToken}, "Bearer not-a-token", mustNotReach(t))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminOnly(t *testing.T) {
	e := echo.New()
	mw := AdminOnly("boss@x.com", "")

	cases := map[string]int{
		"boss@x.com": http.StatusOK,
		"a@x.com":    http.StatusForbidden,
		"":           http.StatusForbidden,
	}
	for email, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(CtxEmail, email)

		err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		if err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != want {
			t.Fatalf("email %q: expected %d, got %d", email, want, rec.Code)
		}
	}
}
