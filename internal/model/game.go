package model

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"gridchess/internal/apperr"
	"gridchess/internal/ws"
)

// EnginePlayerID is the reserved player ID for the built-in engine opponent.
const EnginePlayerID = "engine"

// MoveRequest is a client's move intent: origin, destination and, for pawn
// promotions, the chosen piece kind (empty means queen).
type MoveRequest struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceKind `json:"promotion"`
}

// LastMove is the most recent ply, kept for client highlighting.
type LastMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// CapturedPieces lists the pieces each side has lost.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

// GameConnections holds the websocket connections observing one game.
type GameConnections struct {
	connections map[string]*ws.Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*ws.Conn),
	}
}

// Game is a single game: the live board, move history and its observers. All
// state access goes through the mutex; the board is only ever mutated here,
// search works on clones.
type Game struct {
	ID          string
	mu          sync.Mutex
	log         *zap.SugaredLogger
	board       *Board
	toMove      Color
	history     []*Move
	captured    CapturedPieces
	isCheck     bool
	resolve     *string
	lastMove    *LastMove
	players     players
	whiteClock  *Clock
	blackClock  *Clock
	connections *GameConnections
}

type players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// GameState is the full client view of a game, pushed over websockets after
// every move.
type GameState struct {
	Board           [][]*Piece     `json:"board"`
	ToMove          Color          `json:"toMove"`
	MoveHistory     []string       `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	IsCheck         bool           `json:"isCheck"`
	EnPassantTarget *Position      `json:"enPassantTarget"`
	Resolve         *string        `json:"resolve"`
	LastMove        *LastMove      `json:"lastMove"`
	Players         players        `json:"players"`
}

func NewGame(id string, log *zap.SugaredLogger, clockTime time.Duration) *Game {
	return &Game{
		ID:          id,
		log:         log,
		board:       NewBoard(),
		toMove:      White,
		history:     make([]*Move, 0),
		connections: NewGameConnections(),
		whiteClock:  NewClock(clockTime),
		blackClock:  NewClock(clockTime),
	}
}

// AddPlayer seats a player on the first free side and returns the assigned
// color.
func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: White}
		return White, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: Black}
		return Black, nil
	}
	return "", apperr.ErrGameFull
}

// AddEnginePlayer seats the built-in engine on the first free side.
func (g *Game) AddEnginePlayer() (Color, error) {
	color, err := g.AddPlayer(EnginePlayerID)
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	switch color {
	case White:
		g.players.White.IsEngine = true
	case Black:
		g.players.Black.IsEngine = true
	}
	return color, nil
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Game) stateLocked() GameState {
	history := make([]string, len(g.history))
	for i, mv := range g.history {
		history[i] = mv.AlgebraicNotation()
	}
	return GameState{
		Board:           g.board.Snapshot(),
		ToMove:          g.toMove,
		MoveHistory:     history,
		CapturedPieces:  g.captured,
		IsCheck:         g.isCheck,
		EnPassantTarget: g.board.EnPassantTarget(),
		Resolve:         g.resolve,
		LastMove:        g.lastMove,
		Players:         g.players,
	}
}

// MoveHistory returns the game's plies so far in algebraic notation.
func (g *Game) MoveHistory() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	history := make([]string, len(g.history))
	for i, mv := range g.history {
		history[i] = mv.AlgebraicNotation()
	}
	return history
}

// Turn returns the side to move.
func (g *Game) Turn() Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toMove
}

// Resolved reports whether the game has ended.
func (g *Game) Resolved() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolve != nil
}

// EngineColor returns the engine's side, if one is seated.
func (g *Game) EngineColor() (Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.players.White.IsEngine {
		return White, true
	}
	if g.players.Black.IsEngine {
		return Black, true
	}
	return "", false
}

// BoardClone returns an independent copy of the current position for the
// engine to search on.
func (g *Game) BoardClone() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	if g.players.White.ID != "" && g.players.White.ID == playerID {
		return true
	}
	if g.players.Black.ID != "" && g.players.Black.ID == playerID {
		return true
	}
	return false
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

func (g *Game) playerColor(playerID string) (Color, bool) {
	if g.players.White.ID == playerID {
		return White, true
	}
	if g.players.Black.ID == playerID {
		return Black, true
	}
	return "", false
}

// MakeMove validates and executes one ply for the given player. The request
// is matched against the generated legal moves so that the applied Move
// carries the correct special-move flag.
func (g *Game) MakeMove(playerID string, req MoveRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolve != nil {
		return apperr.ErrGameOver
	}

	color, ok := g.playerColor(playerID)
	if !ok || color != g.toMove {
		return apperr.ErrNotYourTurn
	}

	if g.clockFor(g.toMove).Expired() {
		g.resolveLocked("timeout")
		go g.broadcastState()
		return apperr.ErrGameOver
	}

	if !req.From.InBounds() || !req.To.InBounds() {
		return apperr.ErrIllegalMove
	}
	piece, ok := g.board.PieceAt(req.From)
	if !ok {
		return apperr.ErrNoPieceAtSquare
	}
	if piece.Color != g.toMove {
		return apperr.ErrNotYourTurn
	}

	mv := g.matchLegalMove(req)
	if mv == nil {
		return apperr.ErrIllegalMove
	}

	g.clockFor(g.toMove).Stop()
	g.executeMove(mv)
	if g.resolve == nil {
		g.clockFor(g.toMove).Start()
	}

	g.players.White.TimeLeft = int(g.whiteClock.TimeLeft().Milliseconds())
	g.players.Black.TimeLeft = int(g.blackClock.TimeLeft().Milliseconds())

	go g.broadcastState()
	return nil
}

// matchLegalMove finds the generated legal move matching the request.
// Promotion requests must also agree on the promotion kind; an empty request
// kind selects the queen.
func (g *Game) matchLegalMove(req MoveRequest) *Move {
	wantPromotion := req.Promotion
	if wantPromotion == "" {
		wantPromotion = Queen
	}
	for _, mv := range g.board.LegalMovesFrom(req.From) {
		if mv.To() != req.To {
			continue
		}
		if mv.Flag == FlagPromotion && mv.Promotion != wantPromotion {
			continue
		}
		return mv
	}
	return nil
}

// executeMove applies a matched legal move, records history and captures,
// advances the turn and resolves checkmate or stalemate.
func (g *Game) executeMove(mv *Move) {
	g.board.Apply(mv)

	if mv.Captured != nil {
		switch mv.Captured.Color {
		case White:
			g.captured.White = append(g.captured.White, mv.Captured.Clone())
		case Black:
			g.captured.Black = append(g.captured.Black, mv.Captured.Clone())
		}
	}

	g.history = append(g.history, mv)
	g.lastMove = &LastMove{From: mv.From(), To: mv.To()}

	g.toMove = g.toMove.Opponent()
	g.isCheck = g.board.KingInCheck(g.toMove)

	if !g.board.HasLegalMoves(g.toMove) {
		result := "stalemate"
		if g.isCheck {
			result = "checkmate"
		}
		g.resolveLocked(result)
	}
}

// resolveLocked ends the game with the given result and stops both clocks.
// Callers hold g.mu and broadcast the final state themselves.
func (g *Game) resolveLocked(result string) {
	g.whiteClock.Stop()
	g.blackClock.Stop()
	g.resolve = &result
	g.log.Infow("game resolved", "game", g.ID, "result", result, "plies", len(g.history))
}

// Resign ends the game in favor of the opponent.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolve != nil {
		return apperr.ErrGameOver
	}
	color, ok := g.playerColor(playerID)
	if !ok {
		return apperr.ErrNotAuthorized
	}

	g.log.Infow("player resigned", "game", g.ID, "player", playerID, "color", color)
	g.resolveLocked("resignation")

	go g.broadcastState()
	return nil
}

func (g *Game) clockFor(c Color) *Clock {
	if c == White {
		return g.whiteClock
	}
	return g.blackClock
}

// RegisterConnection attaches a websocket to the game and pushes the current
// state. Duplicate connections for the same player are rejected in favor of
// the existing one.
func (g *Game) RegisterConnection(playerID string, conn *ws.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return apperr.ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "connection already exists"),
		)
		_ = conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	g.log.Debugw("connection registered", "game", g.ID, "player", playerID)
	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	delete(g.connections.connections, playerID)
}

func (g *Game) broadcastState() {
	g.mu.Lock()
	state := g.stateLocked()
	g.mu.Unlock()

	payload, err := json.Marshal(state)
	if err != nil {
		g.log.Errorw("failed to marshal game state", "game", g.ID, "error", err)
		return
	}

	g.connections.mu.RLock()
	activeConnections := make(map[string]*ws.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		})
		if err != nil {
			g.log.Warnw("failed to push state, dropping connection", "game", g.ID, "player", playerID, "error", err)
			g.connections.mu.Lock()
			delete(g.connections.connections, playerID)
			g.connections.mu.Unlock()
		}
	}
}
