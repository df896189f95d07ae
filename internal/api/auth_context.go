package api

import (
	"context"
	"net/http"
	"strings"

	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// sessionKey is the context key for the authenticated session.
const sessionKey ctxKey = "session"

// Authenticator resolves bearer tokens to sessions.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Session, error)
}

// GetSession returns the authenticated session from context.
// Returns an UNAUTHENTICATED error if the request carried no valid token.
func GetSession(ctx context.Context) (*service.Session, error) {
	session, ok := ctx.Value(sessionKey).(*service.Session)
	if !ok || session == nil {
		return nil, domainerrors.Unauthenticated("authentication required")
	}
	return session, nil
}

// GetUserID returns the authenticated user ID from context.
func GetUserID(ctx context.Context) (int64, error) {
	session, err := GetSession(ctx)
	if err != nil {
		return 0, err
	}
	return session.User.ID, nil
}

// optionalUserID returns the viewer's user ID when the request is
// authenticated, nil otherwise.
func optionalUserID(ctx context.Context) *int64 {
	session, err := GetSession(ctx)
	if err != nil {
		return nil
	}
	userID := session.User.ID
	return &userID
}

func setSession(ctx context.Context, session *service.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// authMiddleware validates Bearer tokens and stores the session in context.
// Requests without a valid token continue anonymously; handlers that need a
// user call GetSession.
func authMiddleware(auth Authenticator, logger interface{ Debug(msg string, args ...any) }) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			session, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.Debug("ignoring invalid bearer token", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setSession(r.Context(), session)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
