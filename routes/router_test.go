package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tenco/blog/config"
	"github.com/tenco/blog/models"
	"github.com/tenco/blog/utils"
)

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	engine http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	utils.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { utils.PasswordCost = bcrypt.DefaultCost })

	db, err := gorm.Open(sqlite.Open(":memory:"), config.NewGormConfig("silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db, &models.User{}, &models.Board{}, &models.Reply{}))

	engine, err := SetupRouter(db, utils.NewMemorySessionStore(time.Hour))
	require.NoError(t, err)
	return &testApp{t: t, db: db, engine: engine}
}

func (a *testApp) do(method, path string, form url.Values, session *http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != nil {
		req.AddCookie(session)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// signUp joins and logs in, returning the session cookie.
func (a *testApp) signUp(username string) *http.Cookie {
	a.t.Helper()
	w := a.do(http.MethodPost, "/join", url.Values{"username": {username}, "password": {"pw1234"}}, nil)
	require.Equal(a.t, http.StatusFound, w.Code, w.Body.String())
	require.Equal(a.t, "/login-form", w.Header().Get("Location"))

	w = a.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {"pw1234"}}, nil)
	require.Equal(a.t, http.StatusFound, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			return c
		}
	}
	a.t.Fatal("login did not set a session cookie")
	return nil
}

func (a *testApp) latestBoardID() uint {
	a.t.Helper()
	var b models.Board
	require.NoError(a.t, a.db.Order("id DESC").First(&b).Error)
	return b.ID
}

func TestAnonymousBrowsing(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts yet.")
	assert.Contains(t, w.Body.String(), `href="/login-form"`)

	for _, path := range []string{"/board/save-form", "/board/1/board-update"} {
		w = app.do(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login-form", w.Header().Get("Location"), path)
	}

	w = app.do(http.MethodPost, "/board/save", url.Values{"title": {"x"}, "content": {"y"}}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login-form", w.Header().Get("Location"))
	var n int64
	require.NoError(t, app.db.Model(&models.Board{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestBadBoardIDsAreNotFound(t *testing.T) {
	app := newTestApp(t)
	for _, id := range []string{"0", "-1", "abc", "999"} {
		w := app.do(http.MethodGet, "/board/"+id, nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, id)
	}
	w := app.do(http.MethodGet, "/no/such/page", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBoardFlow(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp("alice")
	bob := app.signUp("bob")

	w := app.do(http.MethodPost, "/board/save", url.Values{"title": {"Hello world"}, "content": {"<p>first body</p>"}}, alice)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))
	id := app.latestBoardID()
	boardPath := fmt.Sprintf("/board/%d", id)

	w = app.do(http.MethodGet, "/", nil, nil)
	assert.Contains(t, w.Body.String(), "Hello world")
	assert.Contains(t, w.Body.String(), "alice")

	w = app.do(http.MethodGet, boardPath, nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<p>first body</p>")
	assert.Contains(t, w.Body.String(), boardPath+"/board-update")

	w = app.do(http.MethodGet, boardPath, nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), boardPath+"/board-update")

	w = app.do(http.MethodGet, boardPath+"/board-update", nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(http.MethodGet, boardPath+"/board-update", nil, alice)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Hello world"`)

	w = app.do(http.MethodPost, boardPath+"/update-form", url.Values{"title": {"Hijacked"}, "content": {"x"}}, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodPost, boardPath+"/update-form", url.Values{"title": {"Hello again"}, "content": {"second body"}}, alice)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, boardPath, w.Header().Get("Location"))

	w = app.do(http.MethodPost, "/reply/save", url.Values{"boardId": {fmt.Sprint(id)}, "comment": {"bob was here"}}, bob)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, boardPath, w.Header().Get("Location"))

	w = app.do(http.MethodGet, boardPath, nil, nil)
	assert.Contains(t, w.Body.String(), "Hello again")
	assert.Contains(t, w.Body.String(), "bob was here")
	assert.NotContains(t, w.Body.String(), "/delete")

	w = app.do(http.MethodPost, boardPath+"/delete", nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodPost, boardPath+"/delete", nil, alice)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = app.do(http.MethodGet, boardPath, nil, alice)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var replies int64
	require.NoError(t, app.db.Model(&models.Reply{}).Count(&replies).Error)
	assert.Zero(t, replies)
}

func TestReplyDeleteRedirectsToBoard(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp("alice")

	w := app.do(http.MethodPost, "/board/save", url.Values{"title": {"T"}, "content": {"C"}}, alice)
	require.Equal(t, http.StatusFound, w.Code)
	id := app.latestBoardID()

	w = app.do(http.MethodPost, "/reply/save", url.Values{"boardId": {fmt.Sprint(id)}, "comment": {"mine"}}, alice)
	require.Equal(t, http.StatusFound, w.Code)
	var reply models.Reply
	require.NoError(t, app.db.First(&reply).Error)

	w = app.do(http.MethodPost, fmt.Sprintf("/reply/%d/delete", reply.ID), nil, alice)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/board/%d", id), w.Header().Get("Location"))

	w = app.do(http.MethodPost, "/reply/save", url.Values{"boardId": {"999"}, "comment": {"lost"}}, alice)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidationErrorsAreBadRequest(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp("alice")

	w := app.do(http.MethodPost, "/board/save", url.Values{"title": {"   "}, "content": {"C"}}, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.do(http.MethodPost, "/board/save", url.Values{"title": {"T"}}, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.do(http.MethodPost, "/reply/save", url.Values{"boardId": {"1"}, "comment": {strings.Repeat("x", 501)}}, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/join", url.Values{"username": {"alice"}, "password": {"pw1234"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already taken")
}

func TestPaddedCommentAtLimitIsAccepted(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp("alice")

	w := app.do(http.MethodPost, "/board/save", url.Values{"title": {"T"}, "content": {"C"}}, alice)
	require.Equal(t, http.StatusFound, w.Code)
	id := app.latestBoardID()

	comment := strings.Repeat("x", 500)
	w = app.do(http.MethodPost, "/reply/save", url.Values{"boardId": {fmt.Sprint(id)}, "comment": {"   " + comment + "   "}}, alice)
	require.Equal(t, http.StatusFound, w.Code)

	var reply models.Reply
	require.NoError(t, app.db.First(&reply).Error)
	assert.Equal(t, comment, reply.Comment)
}

func TestLoginAndLogout(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp("alice")

	w := app.do(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodGet, "/board/save-form", nil, alice)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/board/save-form", nil, alice)
	assert.Contains(t, w.Body.String(), `action="/logout" method="post"`)

	// a plain link cannot end the session
	w = app.do(http.MethodGet, "/logout", nil, alice)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = app.do(http.MethodGet, "/board/save-form", nil, alice)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodPost, "/logout", nil, alice)
	assert.Equal(t, http.StatusFound, w.Code)

	w = app.do(http.MethodGet, "/board/save-form", nil, alice)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login-form", w.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.Contains(t, w.Body.String(), `"sessions":"ok"`)
}
