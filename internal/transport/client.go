package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"shopadmin/internal/config"
	"shopadmin/internal/monitor"
	"shopadmin/internal/session"
	"shopadmin/pkg/breaker"
	"shopadmin/pkg/log"
	"shopadmin/pkg/utils"
)

// RequestIDHeader carries the per-call id
const RequestIDHeader = "X-Request-ID"

// maxBodySize caps how much of a reply is read
const maxBodySize = 8 << 20

// Doer is what the contract modules call. Paths are relative to the base
// URL and already escaped; query and body are sent as given.
type Doer interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
}

// Client talks JSON over HTTP to the shop backend. It is safe for
// concurrent use.
type Client struct {
	baseURL      *url.URL
	httpClient   *http.Client
	tokens       session.TokenReader
	authHeader   string
	authScheme   string
	userAgent    string
	limiter      *rate.Limiter
	breaker      *breaker.CircuitBreaker
	metrics      *monitor.MetricsCollector
	tracer       *monitor.Tracer
	onAuthError  func(ctx context.Context, err *utils.APIError)
	newRequestID func() string
	logger       *logrus.Entry
}

var _ Doer = (*Client)(nil)

// New creates a Client for baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", baseURL)
	}

	c := &Client{
		baseURL:      u,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		authHeader:   "Authorization",
		newRequestID: uuid.NewString,
		logger:       log.Component("transport"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer, _ = monitor.NewTracer(monitor.TracerConfig{})
	}
	return c, nil
}

// NewFromConfig wires a Client from the api config section
func NewFromConfig(cfg config.APIConfig, opts ...Option) (*Client, error) {
	base := []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithAuthHeader(cfg.AuthHeader, cfg.AuthScheme),
		WithUserAgent(cfg.UserAgent),
	}
	if cfg.RateLimit.Enabled {
		base = append(base, WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	c, err := New(cfg.BaseURL, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	// an explicit WithBreaker wins over the config one
	if cfg.CircuitBreak.Enabled && c.breaker == nil {
		c.breaker = NewBreaker(cfg.CircuitBreak, c.metrics)
	}
	return c, nil
}

// NewBreaker builds the breaker the client uses. Only network failures
// and 5xx replies count against the backend.
func NewBreaker(cfg config.CircuitBreakConfig, mc *monitor.MetricsCollector) *breaker.CircuitBreaker {
	return breaker.NewCircuitBreaker("shop-api", breaker.Config{
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		ReadyToTrip:  breaker.ConsecutiveFailures(cfg.ConsecutiveFailures),
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to breaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
			if mc != nil {
				mc.SetBreakerState(name, int(to))
			}
		},
	})
}

func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	apiErr, ok := utils.AsAPIError(err)
	if !ok {
		return false
	}
	switch apiErr.Kind {
	case utils.KindNetwork:
		return false
	case utils.KindHTTPStatus:
		return apiErr.Status < http.StatusInternalServerError
	}
	return true
}

// Get sends a GET with query appended to path
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends body as JSON
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete sends a DELETE
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	start := time.Now()
	route := routeFromContext(ctx, path)

	status, err := c.send(ctx, method, path, route, query, body, out)

	var apiErr *utils.APIError
	if err != nil {
		var ok bool
		if apiErr, ok = utils.AsAPIError(err); !ok {
			apiErr = utils.NewNetworkError(err)
		}
		apiErr.WithRequest(method, path)
		err = apiErr
	}

	c.observe(method, route, status, time.Since(start), apiErr)

	if apiErr != nil && apiErr.Kind == utils.KindAuth && c.onAuthError != nil {
		c.onAuthError(ctx, apiErr)
	}
	return err
}

// send performs the call and returns the HTTP status seen, if any
func (c *Client) send(ctx context.Context, method, path, route string, query url.Values, body, out interface{}) (int, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return 0, err
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return 0, authTokenError(err)
		}
		c.setAuth(req, token)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, utils.NewNetworkError(err)
		}
	}

	ctx, span := c.tracer.StartClientSpan(req.Context(), req, route)
	req = req.WithContext(ctx)

	var status int
	call := func() error {
		var callErr error
		status, callErr = c.roundTrip(req, out)
		return callErr
	}

	if c.breaker != nil {
		err = c.breaker.Execute(ctx, call)
		if breaker.IsCircuitBreakerError(err) {
			err = utils.NewNetworkError(err)
		}
	} else {
		err = call()
	}

	c.tracer.EndHTTPSpan(span, status, err)
	return status, err
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, utils.NewValidationError(0, fmt.Sprintf("encode request body: %v", err), nil)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set(RequestIDHeader, c.newRequestID())
	return req, nil
}

func (c *Client) setAuth(req *http.Request, token string) {
	if c.authScheme != "" && !strings.HasPrefix(token, c.authScheme+" ") {
		token = c.authScheme + " " + token
	}
	req.Header.Set(c.authHeader, token)
}

func (c *Client) roundTrip(req *http.Request, out interface{}) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, utils.NewNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, utils.NewNetworkError(fmt.Errorf("read response: %w", err))
	}
	return resp.StatusCode, decodeResponse(resp.StatusCode, data, out)
}

func authTokenError(err error) *utils.APIError {
	switch {
	case errors.Is(err, session.ErrTokenExpired):
		return utils.NewAuthError(0, "token expired", err)
	case errors.Is(err, session.ErrNoToken):
		return utils.NewAuthError(0, "not logged in", err)
	}
	// the store itself failed; nothing was sent
	return utils.NewAuthError(0, "token unavailable", err)
}

func (c *Client) observe(method, route string, status int, elapsed time.Duration, apiErr *utils.APIError) {
	outcome := monitor.OutcomeSuccess
	if apiErr != nil {
		outcome = apiErr.Kind.String()
	}
	if c.metrics != nil {
		c.metrics.RecordAPIRequest(method, route, outcome, elapsed)
	}

	entry := c.logger.WithFields(logrus.Fields{
		"method":      method,
		"route":       route,
		"status":      status,
		"duration_ms": elapsed.Milliseconds(),
		"has_token":   c.tokens != nil,
	})
	switch {
	case apiErr == nil:
		entry.Debug("Backend call succeeded")
	case apiErr.Kind == utils.KindNetwork || status >= http.StatusInternalServerError:
		entry.WithError(apiErr).Error("Backend call failed")
	default:
		entry.WithError(apiErr).Warn("Backend call rejected")
	}
}
