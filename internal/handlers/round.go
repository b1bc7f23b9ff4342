package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plinko-fair-backend/internal/models"
	"plinko-fair-backend/internal/plinko"
	"plinko-fair-backend/internal/services"
)

type RoundHandler struct {
	roundEngine  *services.RoundEngine
	redisService *services.RedisService
}

func NewRoundHandler(roundEngine *services.RoundEngine, redisService *services.RedisService) *RoundHandler {
	return &RoundHandler{
		roundEngine:  roundEngine,
		redisService: redisService,
	}
}

func (h *RoundHandler) Commit(c *gin.Context) {
	playerID := c.GetString("player_id")

	round, err := h.roundEngine.Commit(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to commit round",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   round.Public(),
	})
}

func (h *RoundHandler) Play(c *gin.Context) {
	playerID := c.GetString("player_id")
	roundID := c.Param("id")

	var req models.PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	round, err := h.roundEngine.Play(c.Request.Context(), playerID, roundID, req.PlayerValue, *req.DropColumn)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, plinko.ErrOutOfRangeParameter) || errors.Is(err, plinko.ErrInvalidInput) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{
			"error":   "Failed to play round",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   round.Public(),
	})
}

func (h *RoundHandler) Reveal(c *gin.Context) {
	playerID := c.GetString("player_id")
	roundID := c.Param("id")

	round, err := h.roundEngine.Reveal(c.Request.Context(), playerID, roundID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to reveal round",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   round.Public(),
	})
}

func (h *RoundHandler) GetRound(c *gin.Context) {
	playerID := c.GetString("player_id")
	roundID := c.Param("id")

	round, err := h.roundEngine.GetRound(playerID, roundID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Round not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   round.Public(),
	})
}

func (h *RoundHandler) ListRounds(c *gin.Context) {
	playerID := c.GetString("player_id")

	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	rounds, err := h.roundEngine.GetPlayerRounds(playerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get rounds",
			"details": err.Error(),
		})
		return
	}

	var response []*models.Round
	for _, round := range rounds {
		response = append(response, round.Public())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rounds":  response,
		"count":   len(response),
	})
}

// Verify is intentionally unauthenticated: verification only needs the
// disclosed values, so any third party can call it.
func (h *RoundHandler) Verify(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	verification, err := h.roundEngine.Verify(&req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Verification failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"verification": verification,
	})
}
