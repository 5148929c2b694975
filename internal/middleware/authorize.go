package middleware

import (
	"github.com/gin-gonic/gin"

	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/metrics"
	"cemetery_api/internal/policy"
)

// Authorize applies the policy for entity and action before the handler
// runs. It must follow Authenticate.
func Authorize(entity policy.Entity, action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.Authorize(CurrentPrincipal(c), entity, action); err != nil {
			metrics.RecordDenial(string(entity), string(action), apperrors.Status(err))
			Abort(c, err)
			return
		}
		c.Next()
	}
}
