package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"gridchess/internal/apperr"
	"gridchess/internal/model"
	"gridchess/internal/service"
	"gridchess/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
	log         *zap.SugaredLogger
}

func NewWebSocketController(gameService *service.GameService, log *zap.SugaredLogger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         log,
	}
}

// HandleConnection is called when a new WebSocket connection is established.
// It registers the connection with the game and runs the message loop until
// the peer disconnects.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	conn := ws.NewConn(c)
	gameID := conn.Params("gameId")
	playerID := conn.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		wsc.log.Warnw("failed to register connection", "game", gameID, "player", playerID, "error", err)
		_ = conn.Close()
		return
	}

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			wsc.log.Debugw("connection closed", "game", gameID, "player", playerID, "error", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.log.Warnw("malformed message", "game", gameID, "player", playerID, "error", err)
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.sendError(conn, err.Error())
		}
	}

	wsc.gameService.UnregisterConnection(gameID, playerID)
}

// HandleMatchmaking queues the player and streams the match-found event back
// to them. The notification channel is registered before the player enters
// the queue so a match can never fire unheard. The connection closes once
// the event is delivered or the peer leaves, and leaving takes the player
// out of the queue.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	conn := ws.NewConn(c)
	playerID := conn.Locals("playerID").(string)

	events := make(chan string, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, events)
	defer wsc.gameService.LeaveMatchmaking(playerID)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, apperr.ErrAlreadyQueued) {
		wsc.sendError(conn, err.Error())
		_ = conn.Close()
		return
	}
	wsc.log.Debugw("player waiting for match", "player", playerID)

	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case payload, ok := <-events:
		if ok {
			_ = conn.WriteJSON(ws.Message{
				Type:    ws.MessageTypeMatchFound,
				Payload: json.RawMessage(payload),
			})
		}
	case <-disconnected:
	}
	_ = conn.Close()
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var req model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, req)

	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(c *ws.Conn, errorMsg string) {
	payload, err := json.Marshal(errorPayload(errorMsg))
	if err != nil {
		return
	}
	_ = c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: payload,
	})
}

func errorPayload(msg string) map[string]string {
	return map[string]string{"error": msg}
}
