package controllers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/meinhoongagan/ignite-call/db"
	"github.com/meinhoongagan/ignite-call/models"
	"github.com/meinhoongagan/ignite-call/utils"
)

const calendarScope = "https://www.googleapis.com/auth/calendar"

func googleToken(scope string) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1", TokenType: "Bearer"}
	return tok.WithExtra(map[string]interface{}{"scope": scope, "id_token": "id-token-1"})
}

func useFakeOAuth(scope string) *fakeOAuth {
	f := &fakeOAuth{
		token: googleToken(scope),
		profile: &utils.GoogleProfile{
			ID:      "google-jane",
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Picture: "https://lh3.example.com/jane.png",
		},
	}
	utils.OAuth = f
	return f
}

func callback(state string, cookies ...*http.Cookie) (string, []*http.Cookie) {
	q := url.Values{"state": {state}, "code": {"auth-code"}}
	return "/api/auth/callback/google?" + q.Encode(), cookies
}

func TestGoogleSignInRedirects(t *testing.T) {
	app := newTestApp(t)

	resp := request(t, app, http.MethodGet, "/api/auth/google", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	useFakeOAuth(calendarScope)
	resp = request(t, app, http.MethodGet, "/api/auth/google", nil)
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)

	state := findCookie(resp, utils.OAuthStateCookie)
	require.NotNil(t, state)
	assert.True(t, strings.HasSuffix(resp.Header.Get("Location"), "state="+state.Value))
}

func TestGoogleCallbackLinksRegisteredUser(t *testing.T) {
	app := newTestApp(t)
	useFakeOAuth("openid email profile " + calendarScope)
	user := createUser(t, "jane", "")

	path, cookies := callback("state-1",
		&http.Cookie{Name: utils.OAuthStateCookie, Value: "state-1"},
		&http.Cookie{Name: utils.RegistrationCookie, Value: user.ID},
	)
	resp := request(t, app, http.MethodGet, path, nil, cookies...)
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000/register/connect-calendar", resp.Header.Get("Location"))

	session := findCookie(resp, utils.SessionCookie)
	require.NotNil(t, session)
	claims, err := utils.ParseSession(session.Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	var account models.Account
	require.NoError(t, db.DB.First(&account, "provider_account_id = ?", "google-jane").Error)
	assert.Equal(t, user.ID, account.UserID)
	assert.True(t, account.HasScope(calendarScope))
	assert.Equal(t, "refresh-1", account.Token().RefreshToken)
	require.NotNil(t, account.IDToken)
	assert.Equal(t, "id-token-1", *account.IDToken)

	var reloaded models.User
	require.NoError(t, db.DB.First(&reloaded, "id = ?", user.ID).Error)
	require.NotNil(t, reloaded.Email)
	assert.Equal(t, "jane@example.com", *reloaded.Email)
	require.NotNil(t, reloaded.AvatarURL)

	// signing in again reuses the linked account
	path, cookies = callback("state-2", &http.Cookie{Name: utils.OAuthStateCookie, Value: "state-2"})
	resp = request(t, app, http.MethodGet, path, nil, cookies...)
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	require.NotNil(t, findCookie(resp, utils.SessionCookie))

	var count int64
	require.NoError(t, db.DB.Model(&models.Account{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	resp = request(t, app, http.MethodGet, "/api/auth/session", nil, findCookie(resp, utils.SessionCookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		User models.SessionUser `json:"user"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "jane", body.User.Username)
}

func TestGoogleCallbackRejects(t *testing.T) {
	app := newTestApp(t)

	t.Run("state mismatch", func(t *testing.T) {
		useFakeOAuth(calendarScope)
		path, cookies := callback("forged", &http.Cookie{Name: utils.OAuthStateCookie, Value: "state-1"})
		resp := request(t, app, http.MethodGet, path, nil, cookies...)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("calendar permission missing", func(t *testing.T) {
		useFakeOAuth("openid email profile")
		path, cookies := callback("state-1", &http.Cookie{Name: utils.OAuthStateCookie, Value: "state-1"})
		resp := request(t, app, http.MethodGet, path, nil, cookies...)
		require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
		assert.Equal(t, "http://localhost:3000/register/connect-calendar?error=permissions", resp.Header.Get("Location"))
		assert.Nil(t, findCookie(resp, utils.SessionCookie))
	})

	t.Run("not registered", func(t *testing.T) {
		useFakeOAuth(calendarScope)
		path, cookies := callback("state-1", &http.Cookie{Name: utils.OAuthStateCookie, Value: "state-1"})
		resp := request(t, app, http.MethodGet, path, nil, cookies...)
		require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
		assert.Equal(t, "http://localhost:3000/register?error=not-registered", resp.Header.Get("Location"))
	})
}

func TestSignOut(t *testing.T) {
	app := newTestApp(t)

	resp := request(t, app, http.MethodPost, "/api/auth/signout", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	cookie := findCookie(resp, utils.SessionCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)

	resp = request(t, app, http.MethodGet, "/api/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
