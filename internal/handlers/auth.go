package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/KC-426/aeonaxy/internal/auth"
)

// TokenCookie is the cookie that carries the user token set at login.
const TokenCookie = "token"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Subject, error)
}

var errMissingToken = errors.New("missing token")

// RequireAuth verifies the request token and injects its subject into the
// context. A missing token is 401; an invalid or expired one is 403.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := requestToken(r)
			if errors.Is(err, errMissingToken) {
				writeError(w, http.StatusUnauthorized, "unauthorized: token missing")
				return
			}
			if err != nil {
				writeError(w, http.StatusForbidden, "invalid authorization header")
				return
			}

			subject, err := tokens.Verify(tokenString)
			if err != nil {
				writeError(w, http.StatusForbidden, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), subject)))
		})
	}
}

// RequireRole rejects subjects whose token was not issued for role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := subjectFromContext(r.Context())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if subject.Role != role {
				writeError(w, http.StatusForbidden, role+" access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireSelf only lets a user reach resources under their own userID.
func requireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := subjectFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		userID, err := parseIDParam(r, "userID")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if subject.ID != userID {
			writeError(w, http.StatusForbidden, "you can only access your own account")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestToken reads the bearer token from the Authorization header and
// falls back to the login cookie.
func requestToken(r *http.Request) (string, error) {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", errors.New("invalid authorization")
		}
		if token := strings.TrimSpace(parts[1]); token != "" {
			return token, nil
		}
		return "", errors.New("invalid authorization")
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", errMissingToken
}
