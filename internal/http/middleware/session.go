package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/powerwise-backend/internal/services"
)

const (
	ctxKeyUserID  = "userID"
	ctxKeySession = "session"
)

// SessionVerifier validates bearer tokens.
type SessionVerifier interface {
	Verify(token string) (*services.Session, error)
}

// Session attaches the caller's session when a valid bearer token is
// presented. Missing or invalid tokens are not an error here; routes that
// need a session add RequireSession. A nil verifier disables sessions.
func Session(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			c.Next()
			return
		}
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		s, err := v.Verify(token)
		if err != nil {
			LoggerFrom(c).Debug().Err(err).Msg("session: token rejected")
			c.Next()
			return
		}
		c.Set(ctxKeySession, s)
		c.Set(ctxKeyUserID, s.AccountID)
		c.Next()
	}
}

// RequireSession rejects requests without a session with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionFrom(c); ok {
			c.Next()
			return
		}
		c.Header("WWW-Authenticate", `Bearer realm="powerwise"`)
		abortError(c, http.StatusUnauthorized, "unauthorized", "sign in required")
	}
}

// RequireAdmin admits only sessions whose email is on allow and rejects the
// rest with 403. An empty allowlist admits every session. Install it after
// RequireSession.
func RequireAdmin(allow []string) gin.HandlerFunc {
	admins := make(map[string]struct{}, len(allow))
	for _, e := range allow {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}
	return func(c *gin.Context) {
		if len(admins) == 0 {
			c.Next()
			return
		}
		if s, ok := SessionFrom(c); ok {
			if _, ok := admins[strings.ToLower(s.Email)]; ok {
				c.Next()
				return
			}
		}
		abortError(c, http.StatusForbidden, "forbidden", "admin access required")
	}
}

// SessionFrom returns the session attached by Session.
func SessionFrom(c *gin.Context) (*services.Session, bool) {
	v, ok := c.Get(ctxKeySession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*services.Session)
	return s, ok && s != nil
}

func bearerToken(h string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
