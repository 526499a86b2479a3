package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"
	valigo "github.com/reoring/valigo"
	"github.com/reoring/valigo/middleware"
)

// ValidateJSON parses request JSON via schema s, stores the output projected onto T in
// context on success, or answers with the status and payload of middleware.WriteError.
func ValidateJSON[T any](s valigo.Schema, opt middleware.Options) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			out, err := middleware.Decode(c.Request().Context(), s, c.Request().Body, opt)
			if err != nil {
				return c.JSON(middleware.Status(err), middleware.Body(err))
			}
			v, err := valigo.Project[T](out)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
			}
			ctx := middleware.ContextWithDecoded(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetDecoded fetches the decoded T from echo.Context.
func GetDecoded[T any](c echo.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request().Context())
}
