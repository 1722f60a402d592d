package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key holding the verified token claims.
const ClaimsKey = "claims"

// Token is a verified token that can decode its claims.
type Token interface {
	Claims(v interface{}) error
}

// Verifier checks a raw bearer token. Operator HMAC tokens and Keycloak ID
// tokens both implement it.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// AuthMiddleware rejects requests without a bearer token accepted by one of the
// verifiers. Verifiers are tried in order; the first success wins.
func AuthMiddleware(verifiers ...Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		var lastErr error
		for _, ver := range verifiers {
			if ver == nil {
				continue
			}
			tok, err := ver.Verify(c.Request.Context(), raw)
			if err != nil {
				lastErr = err
				continue
			}
			var claims map[string]interface{}
			if err := tok.Claims(&claims); err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
				return
			}
			c.Set(ClaimsKey, claims)
			c.Next()
			return
		}

		resp := gin.H{"error": "invalid token"}
		if lastErr != nil {
			resp["details"] = lastErr.Error()
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
	}
}

// Subject returns the `sub` claim of the authenticated caller, or "".
func Subject(c *gin.Context) string {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return ""
	}
	cm, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := cm["sub"].(string)
	return sub
}
