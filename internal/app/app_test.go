package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopadmin/internal/config"
	"shopadmin/internal/session"
	"shopadmin/pkg/log"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// backend fakes /shopAccount/info, accepting only "Bearer good"
func backend(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	r := gin.New()
	r.GET("/shopAccount/info", func(c *gin.Context) {
		atomic.AddInt32(hits, 1)
		if c.GetHeader("Authorization") != "Bearer good" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "token invalid"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": gin.H{
			"id":          1,
			"shopAccount": gin.H{"username": "owner", "nickname": "Owner", "role": "shop"},
		}})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.API.BaseURL = baseURL
	cfg.API.AuthScheme = "Bearer"
	cfg.Session.Driver = "memory"
	cfg.Metrics.Enabled = true
	cfg.SetDefaults()
	return cfg
}

func call(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApp_LoginFlow(t *testing.T) {
	var hits int32
	srv := backend(t, &hits)
	ctx := context.Background()

	a, err := New(ctx, testConfig(srv.URL))
	require.NoError(t, err)
	defer a.Close(ctx)
	router := a.Router()

	// nothing is sent without a token
	w := call(router, http.MethodGet, "/api/user/info", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))

	require.Equal(t, http.StatusOK, call(router, http.MethodPost, "/api/session", `{"token":"good"}`).Code)
	w = call(router, http.MethodGet, "/api/user/info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"nickname":"Owner"`)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	require.Equal(t, http.StatusOK, call(router, http.MethodDelete, "/api/session", "").Code)
	assert.False(t, a.Session.LoggedIn(ctx))
}

func TestApp_RejectedTokenLogsOut(t *testing.T) {
	var hits int32
	srv := backend(t, &hits)
	ctx := context.Background()

	a, err := New(ctx, testConfig(srv.URL))
	require.NoError(t, err)
	defer a.Close(ctx)
	router := a.Router()

	require.NoError(t, a.Session.Login(ctx, "stale"))

	w := call(router, http.MethodGet, "/api/user/info", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token invalid")

	_, err = a.Session.Token(ctx)
	assert.ErrorIs(t, err, session.ErrNoToken)

	// the second call fails locally
	call(router, http.MethodGet, "/api/user/info", "")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestApp_RedisSession(t *testing.T) {
	mr := miniredis.RunT(t)
	var hits int32
	srv := backend(t, &hits)
	ctx := context.Background()

	var err error
	cfg := testConfig(srv.URL)
	cfg.Session.Driver = "redis"
	host, port, ok := strings.Cut(mr.Addr(), ":")
	require.True(t, ok)
	cfg.Redis.Host = host
	cfg.Redis.Port, err = strconv.Atoi(port)
	require.NoError(t, err)

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close(ctx)

	require.NoError(t, a.Session.Login(ctx, "good"))
	stored, err := mr.Get(cfg.Session.KeyPrefix + session.StorageAuthorizeKey)
	require.NoError(t, err)
	assert.Equal(t, "good", stored)

	w := call(a.Router(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)
}

func TestApp_RedisUnavailable(t *testing.T) {
	cfg := testConfig("http://localhost:3000")
	cfg.Session.Driver = "redis"
	cfg.Redis.Host = "127.0.0.1"
	cfg.Redis.Port = 1

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestApp_Routes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	file := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(file, []byte("version: 7\nroutes:\n  - path: /home\n    meta:\n      title: Home\n"), 0o644))

	cfg := testConfig("http://localhost:3000")
	cfg.Routes.File = file
	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close(ctx)
	assert.Equal(t, 7, a.Routes().Version())

	// a broken edit keeps the table in use
	require.NoError(t, os.WriteFile(file, []byte("version: 8\nroutes:\n  - meta: {title: x}\n"), 0o644))
	assert.Error(t, a.ReloadRoutes(cfg.Routes))
	assert.Equal(t, 7, a.Routes().Version())

	require.NoError(t, a.ReloadRoutes(config.RoutesConfig{}))
	assert.Equal(t, 2, a.Routes().Version())
	w := call(a.Router(), http.MethodGet, "/api/menu", "")
	assert.Contains(t, w.Body.String(), `"version":2`)

	cfg.Routes.File = filepath.Join(dir, "missing.yaml")
	_, err = New(ctx, cfg)
	assert.Error(t, err)
}
