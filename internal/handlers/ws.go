package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taskdeck-dev/taskdeck/internal/types"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
	"github.com/taskdeck-dev/taskdeck/internal/ws"
)

// BoardSocket upgrades the connection and streams refresh events for one
// project's board.
func BoardSocket(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	ws.Default.Serve(projectID, conn)
}
