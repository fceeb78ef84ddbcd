package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"propostas_service/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen entities.Viewer
	var actor entities.Actor
	r := gin.New()
	r.GET("/internal", RequireUser(), func(c *gin.Context) {
		seen = Viewer(c)
		actor = Actor(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")

	req := httptest.NewRequest(http.MethodGet, "/internal", nil)
	req.Header.Set(HeaderUserID, " staff-1 ")
	req.Header.Set(HeaderCapabilities, "propostas.view_financial, ,other")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "staff-1", seen.UserID)
	assert.Equal(t, entities.ViewerRoleInternal, seen.Role)
	assert.Equal(t, []string{entities.CapabilityViewFinancial, "other"}, seen.Capabilities)
	assert.Equal(t, entities.UserActor("staff-1"), actor)
}

func TestActor_Anonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var actor entities.Actor
	r := gin.New()
	r.GET("/public", func(c *gin.Context) {
		actor = Actor(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	req.Header.Set("User-Agent", "Mozilla/5.0")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, entities.ClientActor("203.0.113.7", "Mozilla/5.0"), actor)
}
