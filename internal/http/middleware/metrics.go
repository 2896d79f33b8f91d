package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
)

// Metrics records request count, latency and in-flight requests per route
// template. The error code of the rendered response is counted once.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.APIInflightInc()
		defer m.APIInflightDec()

		c.Next()

		// FullPath is the route template; unmatched paths report "" and
		// share one label.
		m.ObserveAPI(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
		if last := c.Errors.Last(); last != nil {
			if ae, ok := apierr.As(last.Err); ok {
				m.IncAPIError(ae.Code)
			}
		}
	}
}
