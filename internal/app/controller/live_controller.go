package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/okim/optionlogic-backend/internal/middleware"
	ws "github.com/okim/optionlogic-backend/internal/websocket"
)

// LiveController upgrades storefront connections onto the live evaluation
// channel. Sessions are anonymous; the channel only reads active sets.
type LiveController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewLiveController(hub *ws.Hub, allowedOrigins []string) *LiveController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	return &LiveController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return origins[r.Header.Get("Origin")]
			},
		},
	}
}

// Connect attaches a live session to one option set
// GET /api/v1/option-sets/:id/live
func (ctrl *LiveController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade live connection", err, map[string]interface{}{
			"option_set_id": setID,
		})
		return
	}

	client := &ws.Client{
		Hub:   ctrl.hub,
		Conn:  &ws.Conn{Conn: conn},
		SetID: setID,
		Send:  make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Live session established", map[string]interface{}{
		"option_set_id": setID,
	})
}
