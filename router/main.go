package router

import (
	"github.com/gin-gonic/gin"
)

// SetRouter mounts the two API surfaces: the dashboard API consumed by the
// admin panel, and the widget API consumed by embedded chat widgets.
func SetRouter(server *gin.Engine) {
	SetApiRouter(server)
	SetWidgetRouter(server)
}
