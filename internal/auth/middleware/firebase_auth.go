package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// FirebaseAuthMiddleware validates Firebase ID tokens and rejects requests
// that carry none. The uid and email land in the gin context.
func FirebaseAuthMiddleware(authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		setIdentity(c, decoded)
		c.Next()
	}
}

// OptionalFirebaseAuth resolves an identity when a valid token is present but
// lets anonymous requests through. The public project pages use it: the same
// route serves strangers and the owner previewing a private project.
func OptionalFirebaseAuth(authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			if decoded, err := authClient.VerifyIDToken(c.Request.Context(), token); err == nil {
				setIdentity(c, decoded)
			}
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, decoded *auth.Token) {
	c.Set("firebase_uid", decoded.UID)
	if email, ok := decoded.Claims["email"].(string); ok {
		c.Set("email", email)
	}
}

// extractToken extracts the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
