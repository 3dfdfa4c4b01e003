package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"shopadmin/internal/config"
	"shopadmin/internal/monitor"
	"shopadmin/pkg/log"
	"shopadmin/pkg/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := serve(r, http.MethodGet, "/id", nil)
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	w = serve(r, http.MethodGet, "/id", http.Header{RequestIDHeader: {"req-42"}})
	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestCustomLogger(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	r := gin.New()
	r.Use(RequestID(), CustomLogger())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	tests := []struct {
		path  string
		level string
	}{
		{"/ok?page=1", "level=info"},
		{"/missing", "level=warning"},
		{"/boom", "level=error"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			serve(r, http.MethodGet, tt.path, http.Header{RequestIDHeader: {"abc"}})
			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, "request_id=abc")
		})
	}
	assert.Contains(t, func() string {
		buf.Reset()
		serve(r, http.MethodGet, "/ok?page=1", nil)
		return buf.String()
	}(), "page=1")
}

func TestRecovery(t *testing.T) {
	log.SetOutput(&bytes.Buffer{})
	defer log.SetOutput(os.Stderr)

	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("test panic") })

	w := serve(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		credentials bool
		origin      string
		wantAllow   string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "http://a.example", wantAllow: "*"},
		{name: "wildcard with credentials echoes origin", origins: []string{"*"}, credentials: true, origin: "http://a.example", wantAllow: "http://a.example"},
		{name: "listed origin", origins: []string{"http://admin.example"}, origin: "http://admin.example", wantAllow: "http://admin.example"},
		{name: "unlisted origin", origins: []string{"http://admin.example"}, origin: "http://evil.example", wantAllow: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sec config.SecurityConfig
			sec.CORS.AllowOrigins = tt.origins
			sec.CORS.AllowCredentials = tt.credentials
			sec.CORS.MaxAge = 600

			r := gin.New()
			r.Use(CORS(sec))
			r.GET("/api/menu", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodOptions, "/api/menu", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantAllow != "" {
				assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(20 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/handled", func(c *gin.Context) {
		<-c.Request.Context().Done()
		utils.ErrorResponse(c, http.StatusBadGateway, "backend unreachable")
	})
	r.GET("/fast", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusGatewayTimeout, serve(r, http.MethodGet, "/slow", nil).Code)
	assert.Equal(t, http.StatusBadGateway, serve(r, http.MethodGet, "/handled", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/fast", nil).Code)
}

func TestRateLimit(t *testing.T) {
	log.SetOutput(&bytes.Buffer{})
	defer log.SetOutput(os.Stderr)

	r := gin.New()
	r.Use(RateLimitWithConfig(RateLimitConfig{
		Rate:     0.001,
		Burst:    2,
		SkipFunc: func(c *gin.Context) bool { return c.Request.URL.Path == "/health" },
	}))
	r.GET("/api/menu", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/menu", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/menu", nil).Code)

	w := serve(r, http.MethodGet, "/api/menu", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	req.RemoteAddr = "10.0.0.2:4000"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", nil).Code)
	}
}

func TestMetrics(t *testing.T) {
	mc := monitor.NewMetricsCollector("shopadmin", nil)

	r := gin.New()
	r.Use(Metrics(mc))
	r.GET("/api/goods/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/api/goods/1", nil)
	serve(r, http.MethodGet, "/api/goods/2", nil)
	serve(r, http.MethodGet, "/nowhere", nil)

	w := httptest.NewRecorder()
	mc.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `shopadmin_console_http_request_total{method="GET",path="/api/goods/:id",status="200"} 2`))
	assert.True(t, strings.Contains(body, `shopadmin_console_http_request_total{method="GET",path="unmatched",status="404"} 1`))
}

func TestTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer func() { _ = provider.Shutdown(context.Background()) }()
	tr := monitor.NewTracerFromProvider("test", provider)

	var innerTrace string
	r := gin.New()
	r.Use(Tracing(tr))
	r.GET("/api/orders/:id", func(c *gin.Context) {
		innerTrace = tr.TraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	r.GET("/api/user/info", func(c *gin.Context) {
		utils.APIErrorResponse(c, utils.NewAuthError(http.StatusUnauthorized, "login required", nil))
	})

	parent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	serve(r, http.MethodGet, "/api/orders/7", http.Header{"Traceparent": {parent}})
	serve(r, http.MethodGet, "/api/user/info", nil)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /api/orders/:id", spans[0].Name())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", innerTrace)
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
