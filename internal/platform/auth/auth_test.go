package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signToken(t *testing.T, key []byte, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	key := []byte("test-signing-key")
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "nurse-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		SystemID: "mercy",
		Roles:    []string{"census"},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, claims))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotRoles []string
	h := JWTMiddleware(JWTConfig{SigningKey: key})(func(c echo.Context) error {
		gotRoles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if len(gotRoles) != 1 || gotRoles[0] != "census" {
		t.Errorf("roles = %v, want [census]", gotRoles)
	}
	if sid, _ := c.Get("jwt_system_id").(string); sid != "mercy" {
		t.Errorf("jwt_system_id = %q, want mercy", sid)
	}
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTMiddleware(JWTConfig{SigningKey: []byte("k")})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	key := []byte("test-signing-key")
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "nurse-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, claims))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTMiddleware(JWTConfig{SigningKey: key})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func rolesContext(roles ...string) context.Context {
	return context.WithValue(context.Background(), UserRolesKey, roles)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		have     []string
		need     []string
		wantPass bool
	}{
		{"exact match", []string{"census"}, []string{"census"}, true},
		{"admin always passes", []string{"admin"}, []string{"staffing"}, true},
		{"no overlap", []string{"viewer"}, []string{"census"}, false},
		{"no roles", nil, []string{"census"}, false},
		{"one of several", []string{"staffing"}, []string{"census", "staffing"}, true},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(rolesContext(tt.have...))
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := RequireRole(tt.need...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			err := h(c)
			if tt.wantPass && err != nil {
				t.Errorf("expected pass, got %v", err)
			}
			if !tt.wantPass {
				he, ok := err.(*echo.HTTPError)
				if !ok || he.Code != http.StatusForbidden {
					t.Errorf("err = %v, want 403", err)
				}
			}
		})
	}
}
