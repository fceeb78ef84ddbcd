package middleware

import (
	"log"
	"net/http"
	"strings"

	"propostas_service/internal/domain/entities"
	"propostas_service/pkg"

	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID       = "X-User-ID"
	HeaderCapabilities = "X-User-Capabilities"

	viewerKey = "proposal.viewer"
)

var errUnauthenticated = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing authenticated user", http.StatusUnauthorized)

// RequireUser trusts the identity headers set by the gateway in front of the
// internal routes. Requests without a user id are rejected.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			log.Printf("[proposal][auth] rejected path=%s reason=missing-user", c.FullPath())
			c.AbortWithStatusJSON(errUnauthenticated.HTTPStatus, errUnauthenticated.ToHTTPError())
			return
		}
		c.Set(viewerKey, entities.InternalViewer(userID, parseCapabilities(c.GetHeader(HeaderCapabilities))...))
		c.Next()
	}
}

func parseCapabilities(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Viewer returns the internal viewer set by RequireUser.
func Viewer(c *gin.Context) entities.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(entities.Viewer); ok {
			return viewer
		}
	}
	return entities.Viewer{}
}

// Actor is the audit identity of the request: the internal user when one
// was authenticated, the anonymous client otherwise.
func Actor(c *gin.Context) entities.Actor {
	if v := Viewer(c); v.UserID != "" {
		return entities.UserActor(v.UserID)
	}
	return entities.ClientActor(c.ClientIP(), c.Request.UserAgent())
}
