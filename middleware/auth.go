package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

const OperatorKeyHeader = "X-Operator-Key"

// OperatorAuth gates administrative endpoints. The caller presents either the
// static operator key or a short-lived operator token; anything else fails
// closed with a fixed message. The key comparison is exact and constant-time.
func OperatorAuth(operatorKey string, tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(OperatorKeyHeader)
		if key == "" {
			key = c.Request.FormValue("key")
		}
		if key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(operatorKey)) == 1 {
			c.Next()
			return
		}

		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") && tokens != nil {
			token := strings.TrimPrefix(auth, "Bearer ")
			if err := tokens.ValidateOperatorToken(token); err == nil {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"message": "UNAUTHORIZED_OPERATOR_ACCESS",
		})
	}
}
