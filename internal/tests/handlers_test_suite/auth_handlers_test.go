package handlers_test_suite

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rogerio-castellano/inventory-system/internal/http/router"
)

func TestLoginHandler(t *testing.T) {
	r := router.NewRouter()

	tests := []struct {
		name       string
		body       string
		expectCode int
	}{
		{"valid credentials", `{"username":"admin","password":"secret"}`, http.StatusOK},
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"ghost","password":"secret"}`, http.StatusUnauthorized},
		{"missing password", `{"username":"admin"}`, http.StatusBadRequest},
		{"malformed body", `{"username":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Errorf("expected status %d, got %d", tt.expectCode, w.Code)
			}
		})
	}
}
