// Package session carries the caller's identity explicitly through request handling.
package session

import (
	"context"
	"net/http"
	"strings"
)

// Header names read by FromRequest.
const (
	HeaderUserID        = "X-User-ID"
	HeaderAuthorization = "Authorization"
)

// Session identifies the shopper making a request.
type Session struct {
	UserID string
	Token  string
}

// Authenticated reports whether the session carries a user identity.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// FromRequest reads the session from the request headers. Missing headers yield
// an anonymous session.
func FromRequest(r *http.Request) Session {
	s := Session{UserID: strings.TrimSpace(r.Header.Get(HeaderUserID))}

	auth := strings.TrimSpace(r.Header.Get(HeaderAuthorization))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		s.Token = strings.TrimSpace(auth[7:])
	}
	return s
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by WithSession, or an anonymous session.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(contextKey{}).(Session)
	return s
}
