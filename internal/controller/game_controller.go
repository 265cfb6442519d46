package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"gridchess/internal/apperr"
	"gridchess/internal/service"
)

type GameController struct {
	gameService *service.GameService
	log         *zap.SugaredLogger
}

func NewGameController(gameService *service.GameService, log *zap.SugaredLogger) *GameController {
	return &GameController{gameService: gameService, log: log}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

// CreateEngineGame creates a game against the built-in engine.
func (gc *GameController) CreateEngineGame(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	gameID, color, err := gc.gameService.CreateEngineGame(playerID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Engine game created",
		"game_id": gameID,
		"color":   color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return errorResponse(c, err)
	}

	gc.log.Infow("player joined game", "game", gameID, "player", playerID, "color", color)
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

// GetMoveHistory returns the game's plies in algebraic notation, e.g.
// ["e2-e4", "e7-e5"].
func (gc *GameController) GetMoveHistory(c *fiber.Ctx) error {
	history, err := gc.gameService.GetMoveHistory(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": history,
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// errorResponse maps sentinel errors to HTTP statuses.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrGameNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperr.ErrGameFull),
		errors.Is(err, apperr.ErrGameExists),
		errors.Is(err, apperr.ErrAlreadyQueued):
		status = fiber.StatusConflict
	case errors.Is(err, apperr.ErrNotYourTurn),
		errors.Is(err, apperr.ErrIllegalMove),
		errors.Is(err, apperr.ErrNoPieceAtSquare),
		errors.Is(err, apperr.ErrGameOver):
		status = fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrNotAuthorized):
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
