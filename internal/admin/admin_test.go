package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker("secret")

	tok, err := tm.New("ops@example.com", RoleAdmin, time.Hour)
	require.NoError(t, err)

	c, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", c.Subject)
	assert.Equal(t, RoleAdmin, c.Role)
	assert.Equal(t, Issuer, c.Issuer)
	assert.NotEmpty(t, c.ID)
}

func TestTokenMaker_Rejects(t *testing.T) {
	tm := NewTokenMaker("secret")

	other, err := NewTokenMaker("other").New("x", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = tm.Parse(other)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	past := NewTokenMaker("secret")
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := past.New("x", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = tm.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	foreign := NewTokenMaker("secret")
	foreign.issuer = "someone-else"
	tok, err := foreign.New("x", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = tm.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "issuer")

	_, err = tm.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequire(t *testing.T) {
	tm := NewTokenMaker("secret")
	adminTok, err := tm.New("ops", RoleAdmin, time.Hour)
	require.NoError(t, err)
	viewerTok, err := tm.New("intern", "viewer", time.Hour)
	require.NoError(t, err)

	var seen Claims
	h := Require(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc", want: http.StatusUnauthorized},
		{name: "non admin", header: "Bearer " + viewerTok, want: http.StatusForbidden},
		{name: "admin", header: "Bearer " + adminTok, want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/catalog/invalidate", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, "ops", seen.Subject)
}
