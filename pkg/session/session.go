// Package session identifies the owner of saved drafts.
//
// There are no accounts. A browser is identified by a random UUID kept in
// the "user_id" cookie for one year; the first request without a valid
// cookie gets a new one. The CLI uses an owner ID stored in its config
// directory, see [CLIOwner].
//
// # Usage
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    owner := session.Ensure(w, r)
//	    names, err := drafts.Names(r.Context(), store, owner)
//	    ...
//	}
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/topicsheet/pkg/errors"
)

const (
	// CookieName is the cookie holding the owner ID.
	CookieName = "user_id"

	// CookieMaxAge is the cookie lifetime.
	CookieMaxAge = 365 * 24 * time.Hour

	// LocalOwner is the owner used by the CLI when no owner file exists.
	LocalOwner = "local"
)

// NewOwnerID returns a random owner ID.
func NewOwnerID() string {
	return uuid.NewString()
}

// FromRequest returns the owner ID carried by r, or "" when the cookie is
// missing or does not hold a valid ID.
func FromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	if err := errors.ValidateOwnerID(c.Value); err != nil || c.Value == LocalOwner {
		return ""
	}
	return c.Value
}

// SetCookie writes the owner cookie.
func SetCookie(w http.ResponseWriter, r *http.Request, owner string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    owner,
		Path:     "/",
		MaxAge:   int(CookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// Ensure returns the request's owner ID, issuing a new cookie when the
// request has none.
func Ensure(w http.ResponseWriter, r *http.Request) string {
	if owner := FromRequest(r); owner != "" {
		return owner
	}
	owner := NewOwnerID()
	SetCookie(w, r, owner)
	return owner
}

type ownerKey struct{}

// WithOwner returns a copy of ctx carrying owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFromContext returns the owner stored by WithOwner, or "".
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// Middleware ensures every request has an owner and stores it in the
// request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := Ensure(w, r)
		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}
