package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/events"
)

type NotificationsController struct {
	recent *events.Recent
}

func NewNotificationsController(recent *events.Recent) *NotificationsController {
	return &NotificationsController{recent: recent}
}

// List returns toasts newer than the optional ?since= sequence number.
func (controller *NotificationsController) List(c *gin.Context) {
	var since uint64
	if raw := c.Query("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondBadRequest(c, "invalid since")
			return
		}
		since = v
	}

	items := controller.recent.Since(since)
	c.JSON(http.StatusOK, gin.H{"notifications": items, "count": len(items)})
}
