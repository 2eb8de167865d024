package controllers

import (
	"madrasa_go/middleware"
	ws "madrasa_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// wsHub is the shared hub used by every controller to push entity-change
// events to connected dashboards. Nil until SetWebSocketHub runs, and
// broadcast tolerates that so controllers never have to check.
var wsHub *ws.Hub

// SetWebSocketHub wires the hub into the controllers package at startup.
func SetWebSocketHub(hub *ws.Hub) {
	wsHub = hub
}

func broadcast(eventType, resource string, id uint) {
	if wsHub == nil {
		return
	}
	wsHub.BroadcastEntityEvent(eventType, resource, id)
}

// WebSocketUpgrade rejects plain HTTP requests on the websocket route and
// authenticates the upgrade via a token query parameter, since browsers
// cannot set headers on websocket connections.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !fiberws.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("token")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		user, err := middleware.ParseToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals("ws_user_id", user.ID)
		return c.Next()
	}
}

// HandleWebSocket attaches the upgraded connection to the hub.
func HandleWebSocket() fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		userID, _ := conn.Locals("ws_user_id").(uint)
		if wsHub == nil {
			conn.Close()
			return
		}
		wsHub.ServeFiberWS(conn, userID)
	})
}

// GetWebSocketStats reports how many dashboard clients are connected.
func GetWebSocketStats(c *fiber.Ctx) error {
	count := 0
	if wsHub != nil {
		count = wsHub.GetClientCount()
	}
	return c.JSON(fiber.Map{
		"connected_clients": count,
	})
}
