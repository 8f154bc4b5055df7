package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery turns a handler panic into a 500 envelope instead of a
// dropped connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			log.Error().
				Str("request_id", c.GetString("request_id")).
				Str("path", c.Request.URL.Path).
				Interface("panic", r).
				Msg("Panic recovered")

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SYS_001",
					"message": "Internal server error",
				},
			})
		}()

		c.Next()
	}
}
