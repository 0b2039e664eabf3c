package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/auth"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/router"
)

// setupTest wires the real router to a fresh in-memory database. The database
// name is derived from the test name so cases stay isolated while the shared
// cache keeps GORM's pooled connections on the same store.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	db.DB = gdb

	require.NoError(t, db.MigrateDatabase())

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return router.NewRouter()
}

// testClient replays session cookies across requests, acting as one
// signed-in browser.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T, r *gin.Engine) *testClient {
	return &testClient{t: t, router: r, cookies: make(map[string]*http.Cookie)}
}

func (c *testClient) do(method string, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		c.cookies[cookie.Name] = cookie
	}

	return w
}

// register signs up a user and returns an authenticated client plus the new
// user's ID.
func register(t *testing.T, r *gin.Engine, name string, email string) (*testClient, uint) {
	t.Helper()

	c := newTestClient(t, r)

	w := c.do(http.MethodPost, "/api/auth/register", gin.H{
		"name":     name,
		"email":    email,
		"password": "password-123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return c, resp.User.ID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// createProject makes a project through the API and returns its ID.
func createProject(t *testing.T, c *testClient, title string, abbrv string) uint {
	t.Helper()

	w := c.do(http.MethodPost, "/api/projects", gin.H{
		"title":        title,
		"description":  "d",
		"abbreviation": abbrv,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp.ID
}

func loadProject(t *testing.T, id uint) models.Project {
	t.Helper()

	var project models.Project
	require.NoError(t, db.DB.First(&project, id).Error)
	return project
}

func loadTask(t *testing.T, id uint) models.Task {
	t.Helper()

	var task models.Task
	require.NoError(t, db.DB.First(&task, id).Error)
	return task
}
