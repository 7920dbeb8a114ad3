package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"surveyforge/internal/model"
)

type fakeValidator struct{}

func (fakeValidator) ValidateHostToken(token string) (*model.HostClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &model.HostClaims{HostID: "host-1"}, nil
}

func TestRequireHost(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetHostID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := NewAuthMiddleware(fakeValidator{}).RequireHost(next)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid", "Bearer bad", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"case insensitive scheme", "bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest("GET", "/v1/surveys", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "host-1", seen)
			}
		})
	}
}

func TestRequireHostLetsPreflightThrough(t *testing.T) {
	called := false
	h := NewAuthMiddleware(fakeValidator{}).RequireHost(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("OPTIONS", "/v1/surveys", nil))

	assert.True(t, called)
}

func TestGetHostIDWithoutValue(t *testing.T) {
	assert.Empty(t, GetHostID(httptest.NewRequest("GET", "/", nil).Context()))
}
