package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestHandler_Login(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		body     string
		wantCode int
		wantBody string
	}{
		{name: "ok", secret: "test-secret", body: `{"email":"packer@farm.example","password":"correct-horse"}`, wantCode: http.StatusOK, wantBody: `"token_type":"Bearer"`},
		{name: "wrong password", secret: "test-secret", body: `{"email":"packer@farm.example","password":"nope"}`, wantCode: http.StatusUnauthorized, wantBody: "invalid credentials"},
		{name: "bad json", secret: "test-secret", body: `{`, wantCode: http.StatusBadRequest},
		{name: "disabled", secret: "", body: `{"email":"packer@farm.example","password":"correct-horse"}`, wantCode: http.StatusNotImplemented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuth(t, tt.secret)
			r := chi.NewRouter()
			NewHandler(svc).RegisterRoutes(r)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
