package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/moliceiro/meals/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type EventsController struct {
	Hub *events.Hub
}

func NewEventsController(hub *events.Hub) *EventsController {
	return &EventsController{Hub: hub}
}

// Stream -> websocket endpoint receiving every lifecycle event
func (ec *EventsController) Stream(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	ec.Hub.Register(ws, c.ClientIP())

	// Clients only listen; reading detects the disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	ec.Hub.Unregister(ws)
}
