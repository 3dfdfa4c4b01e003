package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"shopadmin/pkg/log"
)

var (
	// ErrNoToken means nobody is logged in
	ErrNoToken = errors.New("session: no auth token")
	// ErrTokenExpired means the stored JWT is past its exp claim
	ErrTokenExpired = errors.New("session: auth token expired")
	// ErrEmptyToken rejects a blank login
	ErrEmptyToken = errors.New("session: token must not be empty")
)

// TokenReader is the read-only view the transport gets
type TokenReader interface {
	Token(ctx context.Context) (string, error)
}

// Recorder observes session operations
type Recorder interface {
	RecordSessionOperation(operation string, err error)
}

// Session is the only writer of the auth token
type Session struct {
	store    Store
	now      func() time.Time
	recorder Recorder
	logger   *logrus.Entry
}

// Option configures a Session
type Option func(*Session)

// WithClock overrides the clock used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRecorder reports operations to r
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// New creates a Session over store
func New(store Store, opts ...Option) *Session {
	s := &Session{
		store:  store,
		now:    time.Now,
		logger: log.Component("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login stores token, replacing any previous one
func (s *Session) Login(ctx context.Context, token string) (err error) {
	defer s.record("login", &err)

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.store.Set(ctx, StorageAuthorizeKey, token); err != nil {
		return err
	}
	s.logger.Debug("Token stored")
	return nil
}

// Logout clears the token. Logging out twice is not an error.
func (s *Session) Logout(ctx context.Context) (err error) {
	defer s.record("logout", &err)

	if err := s.store.Delete(ctx, StorageAuthorizeKey); err != nil {
		return err
	}
	s.logger.Debug("Token cleared")
	return nil
}

// Token returns the stored token. A JWT whose exp has passed yields
// ErrTokenExpired; tokens that are not JWTs are returned as is.
func (s *Session) Token(ctx context.Context) (token string, err error) {
	defer s.record("token", &err)

	token, err = s.store.Get(ctx, StorageAuthorizeKey)
	if errors.Is(err, ErrNotFound) || (err == nil && token == "") {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}

	if exp, ok := expiry(token); ok && !s.now().Before(exp) {
		return "", ErrTokenExpired
	}
	return token, nil
}

// LoggedIn reports whether a usable token is stored
func (s *Session) LoggedIn(ctx context.Context) bool {
	_, err := s.Token(ctx)
	return err == nil
}

func (s *Session) record(operation string, err *error) {
	if s.recorder != nil {
		s.recorder.RecordSessionOperation(operation, *err)
	}
}

// expiry reads the exp claim without verifying the signature; the
// backend stays the authority on validity.
func expiry(token string) (time.Time, bool) {
	token = strings.TrimPrefix(token, "Bearer ")
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
