package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	valigo "github.com/reoring/valigo"
	"github.com/reoring/valigo/middleware"
)

// ValidateJSON parses the incoming JSON using schema s with opt (DefaultOptions when zero value),
// stores the output projected onto T in the request context, and on failure aborts with the
// status and payload of middleware.WriteError.
func ValidateJSON[T any](s valigo.Schema, opt middleware.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := middleware.Decode(c.Request.Context(), s, c.Request.Body, opt)
		if err != nil {
			c.AbortWithStatusJSON(middleware.Status(err), middleware.Body(err))
			return
		}
		v, err := valigo.Project[T](out)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// store decoded in request context
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), v))
		c.Next()
	}
}

// GetDecoded fetches the decoded T from gin.Context.
func GetDecoded[T any](c *gin.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}
