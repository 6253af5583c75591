package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/meinhoongagan/ignite-call/config"
	"github.com/meinhoongagan/ignite-call/db"
	"github.com/meinhoongagan/ignite-call/db/dbtest"
	"github.com/meinhoongagan/ignite-call/models"
	"github.com/meinhoongagan/ignite-call/redis"
	"github.com/meinhoongagan/ignite-call/routes"
	"github.com/meinhoongagan/ignite-call/utils"
)

const testSecret = "test-secret"

// brt has no DST so tests do not depend on tzdata.
var brt = time.FixedZone("BRT", -3*60*60)

// testNow is Sunday 2024-03-10 12:00 in brt.
var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, brt)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	dbtest.UseTestDB(t)

	prevCfg := config.Cfg
	prevNow, prevLoc := utils.Now, utils.Location
	prevOAuth, prevCal, prevMail, prevAvatars := utils.OAuth, utils.Calendar, utils.Mail, utils.Avatars
	prevRedis := redis.Client

	config.Cfg = &config.Config{
		Env:                "development",
		AppURL:             "http://localhost:3000",
		JWTSecret:          testSecret,
		SessionTTL:         time.Hour,
		Location:           brt,
		CacheTTL:           time.Minute,
		RateLimitPerMinute: 6000,
		ReminderCron:       "* * * * *",
		CORSOrigins:        "*",
	}
	utils.Now = func() time.Time { return testNow }
	utils.Location = brt
	utils.OAuth, utils.Calendar, utils.Mail, utils.Avatars = nil, nil, nil, nil
	redis.Client = nil

	t.Cleanup(func() {
		config.Cfg = prevCfg
		utils.Now, utils.Location = prevNow, prevLoc
		utils.OAuth, utils.Calendar, utils.Mail, utils.Avatars = prevOAuth, prevCal, prevMail, prevAvatars
		redis.Client = prevRedis
	})

	return routes.NewApp(config.Cfg)
}

func createUser(t *testing.T, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Name: "Jane Doe"}
	if email != "" {
		user.Email = &email
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

// createIntervals offers mondays 08:00-12:00 and wednesdays 10:00-12:00.
func createIntervals(t *testing.T, user *models.User) {
	t.Helper()
	intervals := []models.UserTimeInterval{
		{UserID: user.ID, WeekDay: models.Monday, StartTimeInMinutes: 480, EndTimeInMinutes: 720},
		{UserID: user.ID, WeekDay: models.Wednesday, StartTimeInMinutes: 600, EndTimeInMinutes: 720},
	}
	require.NoError(t, db.DB.Create(&intervals).Error)
}

func createScheduling(t *testing.T, user *models.User, at time.Time) {
	t.Helper()
	require.NoError(t, db.DB.Create(&models.Scheduling{
		UserID: user.ID,
		Date:   at,
		Name:   "John Guest",
		Email:  "john@example.com",
	}).Error)
}

func sessionCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, _, err := utils.IssueSession(user, testSecret, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookie, Value: token}
}

func request(t *testing.T, app *fiber.App, method, path string, body interface{}, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

// waitFor blocks until done is closed by work the handler left running.
func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for background work")
	}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type calendarMock struct {
	mock.Mock
}

func (m *calendarMock) CreateEvent(ctx context.Context, tok *oauth2.Token, ev utils.CalendarEvent) (string, *oauth2.Token, error) {
	args := m.Called(ctx, tok, ev)
	var refreshed *oauth2.Token
	if v := args.Get(1); v != nil {
		refreshed = v.(*oauth2.Token)
	}
	return args.String(0), refreshed, args.Error(2)
}

type mailerMock struct {
	mock.Mock
}

func (m *mailerMock) Send(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// fakeOAuth stands in for Google in the sign in flow.
type fakeOAuth struct {
	token   *oauth2.Token
	profile *utils.GoogleProfile
}

func (f *fakeOAuth) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (f *fakeOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return f.token, nil
}

func (f *fakeOAuth) Profile(ctx context.Context, tok *oauth2.Token) (*utils.GoogleProfile, error) {
	return f.profile, nil
}

func (f *fakeOAuth) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return oauth2.StaticTokenSource(tok)
}
