package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newGoogleStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(GoogleUserInfo{ID: "g-1", Email: "asha@example.com", VerifiedEmail: true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(srv *httptest.Server) *GoogleOAuthService {
	return NewGoogleOAuthService(GoogleOAuthConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/api/v1/auth/google/callback",
		FrontendURL:  "http://localhost:3000",
		Endpoint:     &oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"},
		UserInfoURL:  srv.URL + "/userinfo",
	})
}

func TestGoogleOAuth_ExchangeAndUserInfo(t *testing.T) {
	svc := newTestService(newGoogleStub(t))
	ctx := context.Background()

	assert.True(t, svc.IsConfigured())
	assert.Contains(t, svc.GetAuthURL("st-1"), "state=st-1")

	token, err := svc.ExchangeCode(ctx, "good")
	require.NoError(t, err)

	info, err := svc.GetUserInfo(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.ID)
	assert.True(t, info.VerifiedEmail)

	_, err = svc.ExchangeCode(ctx, "bad")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = svc.GetUserInfo(ctx, &oauth2.Token{AccessToken: "other", TokenType: "Bearer"})
	assert.ErrorIs(t, err, ErrFailedToGetUser)
}

func TestGoogleOAuth_Redirects(t *testing.T) {
	svc := NewGoogleOAuthService(GoogleOAuthConfig{FrontendURL: "http://app.test"})
	assert.False(t, svc.IsConfigured())

	success := svc.SuccessRedirect("a b", "r")
	require.True(t, strings.HasPrefix(success, "http://app.test/auth/callback#"))
	fragment, err := url.ParseQuery(strings.SplitN(success, "#", 2)[1])
	require.NoError(t, err)
	assert.Equal(t, "a b", fragment.Get("access_token"))
	assert.Equal(t, "r", fragment.Get("refresh_token"))

	assert.Equal(t, "http://app.test/login?error=access_denied", svc.ErrorRedirect("access_denied"))
}
