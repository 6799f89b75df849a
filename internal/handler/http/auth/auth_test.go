package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authservice "typoteka/internal/service/auth"
)

type stubVerifier struct {
	claims *authservice.Claims
}

func (s stubVerifier) VerifyToken(raw string) (*authservice.Claims, error) {
	switch raw {
	case "":
		return nil, authservice.ErrMissingToken
	case "Bearer good", "good":
		return s.claims, nil
	default:
		return nil, authservice.ErrInvalidToken
	}
}

func TestRequire(t *testing.T) {
	verifier := stubVerifier{claims: &authservice.Claims{UserID: 3, Role: "reader"}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   int64
	}{
		{"bearer token", "Bearer good", http.StatusOK, 3},
		{"raw token", "good", http.StatusOK, 3},
		{"missing", "", http.StatusUnauthorized, 0},
		{"invalid", "Bearer forged", http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser int64
			called := false
			h := Require(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				if c, ok := authservice.ClaimsFromContext(r.Context()); ok {
					gotUser = c.UserID
				}
			}))

			req := httptest.NewRequest(http.MethodPost, "/articles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("next called = %v", called)
			}
			if gotUser != tt.wantUser {
				t.Errorf("user = %d, want %d", gotUser, tt.wantUser)
			}
		})
	}
}

type stubLogin struct {
	err error
}

func (s stubLogin) Login(_ context.Context, creds authservice.Credentials) (*authservice.AccessToken, error) {
	if s.err != nil {
		return nil, s.err
	}
	if creds.Email != "anna@example.com" || creds.Password != "s3cret-pass" {
		return nil, authservice.ErrInvalidCredentials
	}
	return &authservice.AccessToken{Token: "signed", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func TestTokenHandler(t *testing.T) {
	tests := []struct {
		name       string
		svc        stubLogin
		body       string
		wantStatus int
	}{
		{"success", stubLogin{}, `{"email":"anna@example.com","password":"s3cret-pass"}`, http.StatusOK},
		{"wrong password", stubLogin{}, `{"email":"anna@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"malformed body", stubLogin{}, `{"email":`, http.StatusBadRequest},
		{"store failure", stubLogin{err: errors.New("connection refused")}, `{"email":"a@b.c","password":"x"}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			TokenHandler(tt.svc).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var token authservice.AccessToken
			if err := json.NewDecoder(rr.Body).Decode(&token); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if token.Token != "signed" || token.ExpiresAt.Year() != 2030 {
				t.Errorf("token = %+v", token)
			}
		})
	}
}
