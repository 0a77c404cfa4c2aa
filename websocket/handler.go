package websocket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection and registers the marketer with the hub
func HandleWebSocket(c echo.Context, hub *Hub, marketerID primitive.ObjectID) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		MarketerID:    marketerID,
		Conn:          conn,
		Authenticated: marketerID != primitive.NilObjectID,
	}

	hub.register <- client

	if client.Authenticated {
		conn.WriteJSON(Notification{
			Type:       "connected",
			Message:    "WebSocket connection established",
			MarketerID: marketerID.Hex(),
		})
	} else {
		conn.WriteJSON(Notification{
			Type:         "connected",
			Message:      "WebSocket connection established. Please authenticate to receive notifications.",
			RequiresAuth: true,
		})
	}

	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				break
			}

			if messageType == websocket.TextMessage {
				messageStr := string(message)
				if strings.HasPrefix(messageStr, "AUTH:") {
					claims, err := middleware.ParseJWT(strings.TrimPrefix(messageStr, "AUTH:"))
					if err != nil {
						conn.WriteJSON(Notification{
							Type:         "auth_response",
							Message:      "Authentication failed",
							RequiresAuth: true,
						})
						continue
					}
					authID, err := primitive.ObjectIDFromHex(claims.UserID)
					if err != nil {
						conn.WriteJSON(Notification{
							Type:         "auth_response",
							Message:      "Authentication failed",
							RequiresAuth: true,
						})
						continue
					}
					// The hub owns the client's auth state, so the flip
					// happens under its lock
					hub.AuthenticateClient(client, authID)
					conn.WriteJSON(Notification{
						Type:       "auth_response",
						Message:    "Authenticated",
						MarketerID: authID.Hex(),
					})
					continue
				}
			}
		}
	}()

	return nil
}
