package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	domsession "example.com/localspark/app/internal/domain/session"
	domuser "example.com/localspark/app/internal/domain/user"
)

const sessionCookie = "sid"

type ctxKey int

const (
	ctxUserKey ctxKey = iota
	ctxSessionKey
)

var (
	errUnauthenticated = errors.New("unauthenticated")
	errForbidden       = errors.New("forbidden")
)

type authUser struct {
	UserID   string
	RoleCode domuser.RoleCode
	Username string
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func (a *API) parseUser(token string) (*authUser, error) {
	claims, err := a.tokenSvc.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &authUser{
		UserID:   claims.UserID,
		RoleCode: claims.RoleCode,
		Username: claims.Username,
	}, nil
}

func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}
		user, err := a.parseUser(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches the user when a token is present. Browsers cannot set
// headers on websocket upgrades, so the token may also arrive as ?token=.
func (a *API) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := a.parseUser(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) requireRoles(roles ...domuser.RoleCode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := getAuthUser(r.Context())
			if user == nil {
				respondError(w, http.StatusUnauthorized, errUnauthenticated)
				return
			}
			for _, role := range roles {
				if user.RoleCode == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, errForbidden)
		})
	}
}

// sessionMiddleware resolves the sid cookie for anonymous callers, issuing a
// fresh session when it is missing or expired.
func (a *API) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if getAuthUser(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		var id string
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
		sess, created, err := a.sessionSvc.Resolve(r.Context(), id)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sess.ID,
				Path:     "/",
				Expires:  sess.ExpiresAt,
				HttpOnly: true,
				Secure:   a.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getAuthUser(ctx context.Context) *authUser {
	if user, ok := ctx.Value(ctxUserKey).(*authUser); ok {
		return user
	}
	return nil
}

func getSession(ctx context.Context) *domsession.Session {
	if sess, ok := ctx.Value(ctxSessionKey).(*domsession.Session); ok {
		return sess
	}
	return nil
}

// ownerID is the key for session-scoped data: the user when signed in,
// otherwise the guest session.
func ownerID(ctx context.Context) string {
	if user := getAuthUser(ctx); user != nil {
		return user.UserID
	}
	if sess := getSession(ctx); sess != nil {
		return sess.Owner()
	}
	return ""
}

func guestOwnerID(ctx context.Context) string {
	if sess := getSession(ctx); sess != nil {
		return sess.Owner()
	}
	return ""
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			a.logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
