package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/auth"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

const principalKey = "principal"

// Auth validates the Bearer token and injects the principal into the gin
// context for downstream handlers.
func Auth(parser *auth.Parser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearer(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		principal, err := parser.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// MustPrincipal retrieves the principal injected by Auth.
func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}
