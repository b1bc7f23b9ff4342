package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"plinko-fair-backend/internal/models"
	"plinko-fair-backend/internal/services"
)

type AuthHandler struct {
	redisService *services.RedisService
	jwtService   *services.JWTService
}

func NewAuthHandler(redisService *services.RedisService, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{
		redisService: redisService,
		jwtService:   jwtService,
	}
}

// CreateSession issues a guest player session and the token that protects
// the round endpoints.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	playerID := models.GeneratePlayerID()
	sessionID := models.GenerateSessionID()

	session := &models.PlayerSession{
		PlayerID:     playerID,
		SessionID:    sessionID,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}

	if err := h.redisService.StorePlayerSession(session, services.TTLPlayerSession); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create session",
			"details": err.Error(),
		})
		return
	}

	token, err := h.jwtService.GenerateToken(playerID, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate token",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		Token:     token,
		PlayerID:  playerID,
		SessionID: sessionID,
		ExpiresIn: int64(services.TokenLifetime.Seconds()),
	})
}

func (h *AuthHandler) GetCurrentSession(c *gin.Context) {
	playerID, exists := c.Get("player_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Player not authenticated"})
		return
	}

	sessionID, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return
	}

	session, err := h.redisService.GetPlayerSession(playerID.(string), sessionID.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": gin.H{
			"player_id":     session.PlayerID,
			"session_id":    session.SessionID,
			"created_at":    session.CreatedAt,
			"last_accessed": session.LastAccessed,
		},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	playerID, exists := c.Get("player_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Player not authenticated"})
		return
	}

	sessionID, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return
	}

	err := h.redisService.DeletePlayerSession(playerID.(string), sessionID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
