package models_test

import (
	"testing"

	"plinko-fair-backend/internal/models"
)

func TestModels(t *testing.T) {
	round := &models.Round{
		ID:           models.GenerateRoundID(),
		PlayerID:     models.GeneratePlayerID(),
		Status:       models.RoundStatusCommitted,
		ServerSecret: "super-secret",
		CombinedSeed: "seed-digest",
		Nonce:        models.GenerateNonce(),
		Commitment:   "deadbeef",
	}

	if round.ID == "" {
		t.Error("Round ID should not be empty")
	}

	public := round.Public()
	if public.ServerSecret != "" {
		t.Error("Committed round should not expose the server secret")
	}
	if public.CombinedSeed != "" {
		t.Error("Committed round should not expose the combined seed")
	}
	if public.Commitment != round.Commitment {
		t.Error("Public view should keep the commitment")
	}
	if round.ServerSecret != "super-secret" {
		t.Error("Public() should not mutate the original round")
	}

	round.Status = models.RoundStatusRevealed
	if round.Public().ServerSecret != "super-secret" {
		t.Error("Revealed round should expose the server secret")
	}

	secret, err := models.GenerateServerSecret()
	if err != nil {
		t.Errorf("Failed to generate server secret: %v", err)
	}
	if len(secret) != 64 {
		t.Errorf("Expected 64 hex characters of secret, got %d", len(secret))
	}

	other, _ := models.GenerateServerSecret()
	if other == secret {
		t.Error("Server secrets should not repeat")
	}

	if models.GenerateNonce() == models.GenerateNonce() {
		t.Error("Nonces should be unique per round")
	}
}
