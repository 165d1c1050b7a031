package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"worktrack/internal/auth"
	"worktrack/internal/model"
)

// fakeSessionStore resolves a single known cookie value to fixed claims.
type fakeSessionStore struct {
	cookieValue string
	claims      *auth.Claims
}

func (f *fakeSessionStore) Create(ctx context.Context, claims auth.Claims) (string, error) {
	return f.cookieValue, nil
}

func (f *fakeSessionStore) Get(ctx context.Context, cookieValue string) (*auth.Claims, error) {
	if cookieValue == f.cookieValue {
		return f.claims, nil
	}
	return nil, nil
}

func (f *fakeSessionStore) Destroy(ctx context.Context, cookieValue string) error {
	return nil
}

func (f *fakeSessionStore) UpdateName(ctx context.Context, cookieValue, name string) error {
	return nil
}

func doRequest(mw echo.MiddlewareFunc, cookieValue string) (*httptest.ResponseRecorder, *auth.Claims, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var handlerRan bool
	var seenClaims *auth.Claims
	handler := mw(func(c echo.Context) error {
		handlerRan = true
		seenClaims = ClaimsFrom(c)
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, seenClaims, handlerRan
}

func TestRequireAuth(t *testing.T) {
	store := &fakeSessionStore{
		cookieValue: "valid-cookie",
		claims:      &auth.Claims{UserID: 4, Name: "Jordan Smith", Role: model.RoleUser},
	}

	tests := []struct {
		name             string
		cookieValue      string
		expectHandlerRun bool
	}{
		{
			name:             "valid session reaches the handler",
			cookieValue:      "valid-cookie",
			expectHandlerRun: true,
		},
		{
			name:        "no cookie redirects to login",
			cookieValue: "",
		},
		{
			name:        "unknown cookie redirects to login",
			cookieValue: "forged-cookie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, claims, handlerRan := doRequest(RequireAuth(store), tt.cookieValue)

			if tt.expectHandlerRun {
				assert.True(t, handlerRan)
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.NotNil(t, claims)
				assert.Equal(t, uint(4), claims.UserID)
			} else {
				assert.False(t, handlerRan)
				assert.Equal(t, http.StatusFound, rec.Code)
				assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name             string
		store            auth.SessionStore
		cookieValue      string
		expectHandlerRun bool
		expectedCode     int
		expectedLocation string
		expectedBody     string
	}{
		{
			name: "admin session reaches the handler",
			store: &fakeSessionStore{
				cookieValue: "admin-cookie",
				claims:      &auth.Claims{UserID: 1, Role: model.RoleAdmin},
			},
			cookieValue:      "admin-cookie",
			expectHandlerRun: true,
			expectedCode:     http.StatusOK,
		},
		{
			name: "no session redirects to login",
			store: &fakeSessionStore{
				cookieValue: "admin-cookie",
				claims:      &auth.Claims{UserID: 1, Role: model.RoleAdmin},
			},
			cookieValue:      "",
			expectedCode:     http.StatusFound,
			expectedLocation: "/login",
		},
		{
			name: "non-admin session gets access denied",
			store: &fakeSessionStore{
				cookieValue: "user-cookie",
				claims:      &auth.Claims{UserID: 4, Role: model.RoleUser},
			},
			cookieValue:  "user-cookie",
			expectedCode: http.StatusForbidden,
			expectedBody: accessDeniedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, claims, handlerRan := doRequest(RequireAdmin(tt.store), tt.cookieValue)

			assert.Equal(t, tt.expectHandlerRun, handlerRan)
			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, rec.Header().Get(echo.HeaderLocation))
			}
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
			}
			if tt.expectHandlerRun {
				assert.NotNil(t, claims)
				assert.Equal(t, model.RoleAdmin, claims.Role)
			}
		})
	}
}
