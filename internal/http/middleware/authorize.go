package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/http/response"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/policy"
)

// Authorize guards a route with the access table. The target id, when the
// route has one, is read from the :id path parameter.
func Authorize(engine *policy.Engine, log *logger.Logger, entity string, op policy.Op) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := policy.Request{
			Entity: entity,
			Op:     op,
			Actor:  policy.ActorFromContext(c.Request.Context()),
		}
		if id, err := uuid.Parse(c.Param("id")); err == nil {
			req.TargetID = id
		}
		if err := engine.Authorize(req); err != nil {
			response.RespondAPIError(c, log, err)
			return
		}
		c.Next()
	}
}
