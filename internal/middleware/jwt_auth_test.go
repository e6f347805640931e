package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/api_context"
	"github.com/golang-jwt/jwt/v4"
)

func TestWithJWTAuth(t *testing.T) {
	const secret = "s3cret"
	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	valid := jwt.MapClaims{"sub": "admin-1", "exp": time.Now().Add(time.Minute).Unix()}

	tests := []struct {
		name           string
		authHeader     string
		wantStatus     int
		expectNextCall bool
	}{
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong prefix", "Token abc", http.StatusUnauthorized, false},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized, false},
		{"wrong secret", "Bearer " + sign(jwt.SigningMethodHS256, []byte("other"), valid), http.StatusUnauthorized, false},
		{"wrong method", "Bearer " + sign(jwt.SigningMethodHS512, []byte(secret), valid), http.StatusUnauthorized, false},
		{"expired", "Bearer " + sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized, false},
		{"valid", "Bearer " + sign(jwt.SigningMethodHS256, []byte(secret), valid), http.StatusNoContent, true},
	}

	mw := WithJWTAuth(secret)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if sub, ok := api_context.AdminSubjectFromContext(r.Context()); ok {
					w.Header().Set("X-Subject", sub)
				}
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest("GET", "/records", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			mw(next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if nextCalled != tc.expectNextCall {
				t.Fatalf("nextCalled = %v; want %v", nextCalled, tc.expectNextCall)
			}
			if tc.expectNextCall && rec.Header().Get("X-Subject") != "admin-1" {
				t.Errorf("subject = %q; want admin-1", rec.Header().Get("X-Subject"))
			}
		})
	}
}

func TestWithJWTAuth_NoSecretPassesThrough(t *testing.T) {
	called := false
	h := WithJWTAuth("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/records", nil))
	if !called {
		t.Fatal("expected passthrough without a secret")
	}
}
