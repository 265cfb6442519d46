package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gridchess/internal/apperr"
	"gridchess/internal/engine"
	"gridchess/internal/model"
	"gridchess/internal/ws"
)

const engineMoveTimeout = 30 * time.Second

// MatchFoundEvent notifies a queued player that a game was created for them.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}

// GameManager owns every live game, the matchmaking queue, and the engine
// used for games against the computer.
type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	engine           *engine.Engine
	clockTime        time.Duration
	log              *zap.SugaredLogger
	mu               sync.RWMutex
}

func NewGameManager(eng *engine.Engine, clockTime time.Duration, log *zap.SugaredLogger) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		engine:           eng,
		clockTime:        clockTime,
		log:              log,
	}

	go gm.processMatchmaking()

	return gm
}

// RegisterMatchmakingChannel attaches the channel the player's event stream
// is listening on. An existing channel for the same player is replaced.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	// The channel itself is closed by whoever created it.
	delete(gm.matchingChannels, playerID)
}

// processMatchmaking pairs queued players once a second.
func (gm *GameManager) processMatchmaking() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		gm.matchWaitingPlayers()
	}
}

// matchWaitingPlayers creates a game for each waiting pair and delivers the
// match event to both players' channels.
func (gm *GameManager) matchWaitingPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for gm.queue.Size() >= 2 {
		player1, player2 := gm.queue.NextPair()

		gameID := uuid.New().String()
		game := model.NewGame(gameID, gm.log, gm.clockTime)

		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			gm.log.Errorw("failed to seat player", "player", player1.ID, "error", err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			gm.log.Errorw("failed to seat player", "player", player2.ID, "error", err)
			continue
		}
		gm.games[gameID] = game
		gm.log.Infow("match created", "game", gameID, "white", player1.ID, "black", player2.ID)

		gm.notifyMatch(player1.ID, MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.notifyMatch(player2.ID, MatchFoundEvent{GameID: gameID, Color: p2Color})
	}
}

// notifyMatch sends the event to the player's matchmaking channel and
// retires the channel. Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		gm.log.Warnw("no matchmaking channel for player", "player", playerID)
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		gm.log.Errorw("failed to marshal match event", "player", playerID, "error", err)
		return
	}
	select {
	case ch <- string(payload):
		delete(gm.matchingChannels, playerID)
		close(ch)
	default:
		gm.log.Warnw("matchmaking channel full, dropping event", "player", playerID)
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return apperr.ErrGameExists
	}

	gm.games[gameID] = model.NewGame(gameID, gm.log, gm.clockTime)
	return nil
}

// CreateEngineGame creates a game against the engine. The human plays
// white; the engine is seated as black.
func (gm *GameManager) CreateEngineGame(playerID string) (string, model.Color, error) {
	gameID := uuid.New().String()
	game := model.NewGame(gameID, gm.log, gm.clockTime)

	color, err := game.AddPlayer(playerID)
	if err != nil {
		return "", "", err
	}
	if _, err := game.AddEnginePlayer(); err != nil {
		return "", "", err
	}

	gm.mu.Lock()
	gm.games[gameID] = game
	gm.mu.Unlock()

	gm.log.Infow("engine game created", "game", gameID, "player", playerID, "color", color)
	return gameID, color, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, apperr.ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

// LeaveMatchmaking removes a departed player from the queue and retires
// their notification channel.
func (gm *GameManager) LeaveMatchmaking(playerID string) {
	gm.queue.RemovePlayer(playerID)
	gm.UnregisterMatchmakingChannel(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) GetMoveHistory(gameID string) ([]string, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.MoveHistory(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, req model.MoveRequest) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.MakeMove(playerID, req); err != nil {
		return err
	}

	gm.maybeTriggerEngine(game)
	return nil
}

// maybeTriggerEngine kicks off an engine reply when it is the engine's turn.
// The search runs on a board clone so the live game stays untouched until
// the engine commits its move through the normal path.
func (gm *GameManager) maybeTriggerEngine(g *model.Game) {
	engineColor, ok := g.EngineColor()
	if !ok || g.Resolved() || g.Turn() != engineColor {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), engineMoveTimeout)
		defer cancel()

		mv, err := gm.engine.BestMove(ctx, g.BoardClone(), engineColor)
		if err != nil {
			gm.log.Errorw("engine search failed", "game", g.ID, "error", err)
			return
		}

		req := model.MoveRequest{From: mv.From(), To: mv.To(), Promotion: mv.Promotion}
		if err := g.MakeMove(model.EnginePlayerID, req); err != nil {
			gm.log.Errorw("engine move rejected", "game", g.ID, "move", mv.AlgebraicNotation(), "error", err)
		}
	}()
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *ws.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}
