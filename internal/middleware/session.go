package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"commuter_bus/internal/session"
)

var secret = []byte(getSessionSecret())

func getSessionSecret() string {
	if val := os.Getenv("SESSION_SECRET"); val != "" {
		return val
	}
	return "supersecret" // fallback
}

var sessions *session.Store

// UseSessionStore hands the middleware the store it checks tokens against.
// Called once at boot.
func UseSessionStore(s *session.Store) {
	sessions = s
}

// GenerateToken mints the bearer token a login hands back. The token
// carries no expiry claim: the session it names lives until logout or
// failed validation removes it, and the store is the authority either way.
func GenerateToken(role session.Role, email, device string) (string, error) {
	claims := jwt.MapClaims{
		"role":      string(role),
		"email":     email,
		"device_id": device,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// RequireSession ensures the request carries a valid token naming a
// session that still exists in the store.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		role, _ := claims["role"].(string)
		email, _ := claims["email"].(string)
		device, _ := claims["device_id"].(string)
		if role == "" || email == "" || device == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		// The token only names the session; the store decides whether it
		// is still alive. A later login on the same device overwrites the
		// record, so a token minted for a different account is stale even
		// when the role and device line up.
		rec, alive, err := sessions.Lookup(c.Request.Context(), session.Role(role), device)
		if err != nil || !alive || rec.Email != email {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session no longer active"})
			return
		}

		c.Set("role", role)
		c.Set("email", email)
		c.Set("device_id", device)

		c.Next()
	}
}

// RequireSessionWithRole ensures a live session with a specific role.
func RequireSessionWithRole(required session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := RequireSession()
		req(c)
		if c.IsAborted() {
			return
		}

		roleIfc, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in token"})
			return
		}
		if role, ok := roleIfc.(string); !ok || role != string(required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}
