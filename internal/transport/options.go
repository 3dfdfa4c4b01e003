package transport

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"

	"shopadmin/internal/monitor"
	"shopadmin/internal/session"
	"shopadmin/pkg/breaker"
	"shopadmin/pkg/utils"
)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenReader attaches the auth token source. Without one, requests
// carry no credentials.
func WithTokenReader(tokens session.TokenReader) Option {
	return func(c *Client) { c.tokens = tokens }
}

// WithAuthHeader sets the header name and scheme the token is sent with.
// An empty scheme sends the bare token.
func WithAuthHeader(header, scheme string) Option {
	return func(c *Client) {
		if header != "" {
			c.authHeader = header
		}
		c.authScheme = scheme
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit paces outgoing calls to rps with the given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBreaker guards calls with cb
func WithBreaker(cb *breaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithMetrics records every call on mc
func WithMetrics(mc *monitor.MetricsCollector) Option {
	return func(c *Client) { c.metrics = mc }
}

// WithTracer opens a client span per call
func WithTracer(t *monitor.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithOnAuthError registers fn to run whenever a call fails with an auth error
func WithOnAuthError(fn func(ctx context.Context, err *utils.APIError)) Option {
	return func(c *Client) { c.onAuthError = fn }
}

// WithRequestIDFunc overrides the X-Request-ID generator
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) { c.newRequestID = fn }
}

type routeKey struct{}

// WithRoute labels the call made with ctx by a route template such as
// /goods/{id}, used for metrics and span names instead of the raw path.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFromContext(ctx context.Context, path string) string {
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return path
}
