package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
)

func TestMiddleware(t *testing.T) {
	tm, err := auth.NewTokenManager([]byte(testSecret), time.Hour)
	require.NoError(t, err)

	var reached bool
	var seenUser string
	handler := auth.Middleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		claims, err := auth.GetUserClaimsFromContext(r.Context())
		require.NoError(t, err)
		seenUser = claims.UserID
		w.WriteHeader(http.StatusOK)
	}))

	valid, err := tm.GenerateJWT(testUserID, testRole)
	require.NoError(t, err)
	expired, err := tm.GenerateWithTTL(testUserID, testRole, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectReached  bool
	}{
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, false},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, false},
		{"garbage token", "Bearer nope", http.StatusForbidden, false},
		{"expired token", "Bearer " + expired, http.StatusForbidden, false},
		{"valid token", "Bearer " + valid, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			seenUser = ""

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectReached, reached)
			if tt.expectReached {
				assert.Equal(t, testUserID, seenUser)
			}
		})
	}
}

func TestUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := auth.UserIDFromContext(req.Context())
	assert.ErrorIs(t, err, auth.ErrNoClaims)

	ctx := auth.WithClaims(req.Context(), &auth.Claims{UserID: testUserID})
	id, err := auth.UserIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id.String())
}
