package services

import "plinko-fair-backend/internal/models"

type Broadcaster interface {
	BroadcastRoundResult(round *models.Round)
	BroadcastRoundRevealed(round *models.Round)
}
