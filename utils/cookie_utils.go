package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewVisitorToken returns an opaque visitor identity token. Only its presence
// is ever checked; the value is never decoded.
func NewVisitorToken() string {
	return uuid.NewString()
}

// SetVisitorCookie writes a site-wide, long-lived identity cookie.
func SetVisitorCookie(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(maxAge/time.Second), "/", "", false, true)
}
