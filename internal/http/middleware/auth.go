// README: Firebase auth middleware. Requests without a token are priced as anonymous callers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"skyfare/internal/infra"
)

const callerKey = "skyfare.caller"

// Auth verifies a Bearer token when one is sent. A missing Authorization header passes
// through anonymously; a malformed or rejected token is a 401. A nil verifier treats every
// caller as anonymous.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || verifier == nil {
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		caller, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerUID returns the verified uid, or "" for anonymous callers.
func CallerUID(c *gin.Context) string {
	v, ok := c.Get(callerKey)
	if !ok {
		return ""
	}
	caller, _ := v.(*infra.Caller)
	if caller == nil {
		return ""
	}
	return caller.UID
}
