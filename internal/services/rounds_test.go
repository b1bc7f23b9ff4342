package services_test

import (
	"context"
	"errors"
	"testing"

	"plinko-fair-backend/internal/config"
	"plinko-fair-backend/internal/models"
	"plinko-fair-backend/internal/plinko"
	"plinko-fair-backend/internal/services"
)

func setupTestRedis(t *testing.T) *services.RedisService {
	cfg := &config.Config{
		RedisURL:  "localhost:6379",
		RedisPass: "",
		RedisDB:   0,
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return redisService
}

func TestRoundLifecycle(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	roundEngine := services.NewRoundEngine(redisService)

	ctx := context.Background()
	playerID := models.GeneratePlayerID()

	round, err := roundEngine.Commit(ctx, playerID)
	if err != nil {
		t.Fatalf("Failed to commit round: %v", err)
	}
	defer redisService.DeleteRound(round.ID)
	defer redisService.ClearRateLimit(playerID, "commit")

	if round.Status != models.RoundStatusCommitted {
		t.Errorf("Expected status committed, got %s", round.Status)
	}
	if len(round.Commitment) != 64 {
		t.Errorf("Expected 64 hex characters of commitment, got %d", len(round.Commitment))
	}
	if round.Public().ServerSecret != "" {
		t.Error("Committed round should not expose the secret")
	}

	played, err := roundEngine.Play(ctx, playerID, round.ID, "my-lucky-words", 6)
	if err != nil {
		t.Fatalf("Failed to play round: %v", err)
	}

	if played.Status != models.RoundStatusPlayed {
		t.Errorf("Expected status played, got %s", played.Status)
	}
	if played.BoardHash == "" {
		t.Error("Played round should have a board hash")
	}
	if len(played.DecisionTrace) != plinko.Rows {
		t.Errorf("Expected %d decisions, got %d", plinko.Rows, len(played.DecisionTrace))
	}
	if played.OutcomeBin < 0 || played.OutcomeBin > plinko.Rows {
		t.Errorf("Outcome bin %d out of range", played.OutcomeBin)
	}

	// A round is playable exactly once.
	if _, err := roundEngine.Play(ctx, playerID, round.ID, "second-try", 3); err == nil {
		t.Error("Second play against the same round should fail")
	}

	revealed, err := roundEngine.Reveal(ctx, playerID, round.ID)
	if err != nil {
		t.Fatalf("Failed to reveal round: %v", err)
	}

	if revealed.Public().ServerSecret == "" {
		t.Error("Revealed round should expose the secret")
	}

	bin := revealed.OutcomeBin
	verification, err := roundEngine.Verify(&models.VerifyRequest{
		ServerSecret: revealed.ServerSecret,
		Nonce:        revealed.Nonce,
		PlayerValue:  revealed.PlayerValue,
		DropColumn:   &revealed.DropColumn,
		Commitment:   revealed.Commitment,
		BoardHash:    revealed.BoardHash,
		OutcomeBin:   &bin,
	})
	if err != nil {
		t.Fatalf("Verification failed: %v", err)
	}

	if !verification.Valid {
		t.Error("Round should verify against its own disclosed values")
	}
	if verification.BoardHash != revealed.BoardHash {
		t.Errorf("Verification board hash mismatch: expected %s, got %s",
			revealed.BoardHash, verification.BoardHash)
	}
	if verification.OutcomeBin != revealed.OutcomeBin {
		t.Errorf("Verification outcome mismatch: expected %d, got %d",
			revealed.OutcomeBin, verification.OutcomeBin)
	}
}

func TestPlayValidation(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	roundEngine := services.NewRoundEngine(redisService)

	ctx := context.Background()
	playerID := models.GeneratePlayerID()

	round, err := roundEngine.Commit(ctx, playerID)
	if err != nil {
		t.Fatalf("Failed to commit round: %v", err)
	}
	defer redisService.DeleteRound(round.ID)

	if _, err := roundEngine.Play(ctx, playerID, round.ID, "", 6); err == nil {
		t.Error("Empty player value should fail")
	}
	if _, err := roundEngine.Play(ctx, playerID, round.ID, "value", 13); err == nil {
		t.Error("Out of range drop column should fail")
	}
	if _, err := roundEngine.Play(ctx, "player_nobody", round.ID, "value", 6); err == nil {
		t.Error("Playing another player's round should fail")
	}

	// None of the rejects may have consumed the round.
	current, err := redisService.GetRound(round.ID)
	if err != nil {
		t.Fatalf("Failed to reload round: %v", err)
	}
	if current.Status != models.RoundStatusCommitted {
		t.Errorf("Round should still be committed, got %s", current.Status)
	}

	if _, err := roundEngine.Reveal(ctx, playerID, round.ID); err == nil {
		t.Error("Revealing an unplayed round should fail")
	}
}

// Verify is pure; it needs no round record and no storage.
func TestVerifyKnownVector(t *testing.T) {
	roundEngine := services.NewRoundEngine(nil)

	drop := 6
	bin := 6
	verification, err := roundEngine.Verify(&models.VerifyRequest{
		ServerSecret: "b2a5f3f32a4d9c6ee7a8c1d33456677890abcdeffedcba0987654321ffeeddcc",
		Nonce:        "42",
		PlayerValue:  "candidate-hello",
		DropColumn:   &drop,
		Commitment:   "bb9acdc67f3f18f3345236a01f0e5072596657a9005c7d8a22cff061451a6b34",
		OutcomeBin:   &bin,
	})
	if err != nil {
		t.Fatalf("Verification failed: %v", err)
	}

	if !verification.Valid {
		t.Error("Known vector should verify")
	}
	if verification.CombinedSeed != "e1dddf77de27d395ea2be2ed49aa2a59bd6bf12ee8d350c16c008abd406c07e0" {
		t.Errorf("Combined seed mismatch: got %s", verification.CombinedSeed)
	}
	if verification.OutcomeBin != 6 {
		t.Errorf("Expected outcome bin 6, got %d", verification.OutcomeBin)
	}
}

func TestVerifyMissingDropColumn(t *testing.T) {
	roundEngine := services.NewRoundEngine(nil)

	_, err := roundEngine.Verify(&models.VerifyRequest{
		ServerSecret: "b2a5f3f32a4d9c6ee7a8c1d33456677890abcdeffedcba0987654321ffeeddcc",
		Nonce:        "42",
		PlayerValue:  "candidate-hello",
	})
	if !errors.Is(err, plinko.ErrInvalidInput) {
		t.Errorf("Missing drop column should fail with ErrInvalidInput, got %v", err)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	roundEngine := services.NewRoundEngine(nil)

	drop := 6
	verification, err := roundEngine.Verify(&models.VerifyRequest{
		ServerSecret: "b2a5f3f32a4d9c6ee7a8c1d33456677890abcdeffedcba0987654321ffeeddcc",
		Nonce:        "42",
		PlayerValue:  "candidate-hello",
		DropColumn:   &drop,
		// Commitment from some other secret.
		Commitment: "0000000000000000000000000000000000000000000000000000000000000000",
	})
	if err != nil {
		t.Fatalf("Verification failed: %v", err)
	}

	if verification.Valid {
		t.Error("Mismatched commitment should not verify")
	}
	if verification.CommitmentMatches == nil || *verification.CommitmentMatches {
		t.Error("Commitment mismatch should be reported")
	}
}
