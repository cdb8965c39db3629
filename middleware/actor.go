package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorKey is where the resolved actor id lives in the request context.
const ActorKey = "actorID"

// Actor resolves who is performing the request. Session mechanics live in the
// frontend/gateway; here the id arrives as a header, with "system" as the
// fallback so core operations always have an assignedBy value.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader("X-Actor-Id"))
		if actor == "" {
			actor = "system"
		}
		c.Set(ActorKey, actor)
		c.Next()
	}
}

// CurrentActor reads the resolved actor id, defaulting to "system" when the
// middleware did not run (e.g. direct handler tests).
func CurrentActor(c *gin.Context) string {
	if actor := c.GetString(ActorKey); actor != "" {
		return actor
	}
	return "system"
}
