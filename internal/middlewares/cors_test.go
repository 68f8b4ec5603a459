package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JoachimHamraoui/bibliomania/internal/middlewares"
)

func TestCors(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantOrigin string
		wantStatus int
	}{
		{"allowed origin", []string{"http://localhost:8081"}, "http://localhost:8081", http.MethodGet, "http://localhost:8081", http.StatusOK},
		{"unknown origin", []string{"http://localhost:8081"}, "http://evil.test", http.MethodGet, "", http.StatusOK},
		{"wildcard", []string{"*"}, "http://app.test", http.MethodGet, "http://app.test", http.StatusOK},
		{"preflight", []string{"*"}, "http://app.test", http.MethodOptions, "http://app.test", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/group/1", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			}
			rec := httptest.NewRecorder()

			middlewares.Cors(tt.allowed)(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
