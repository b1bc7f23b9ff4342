package services

import (
	"context"
	"fmt"
	"time"

	"plinko-fair-backend/internal/models"
	"plinko-fair-backend/internal/plinko"
)

// RoundEngine drives the commit -> play -> reveal -> verify lifecycle around
// the deterministic core. The engine owns the secret material until reveal;
// the core itself never talks to storage.
type RoundEngine struct {
	redisService *RedisService
	broadcaster  Broadcaster
}

func NewRoundEngine(redisService *RedisService) *RoundEngine {
	return &RoundEngine{
		redisService: redisService,
	}
}

func (e *RoundEngine) SetBroadcaster(b Broadcaster) {
	e.broadcaster = b
}

// Commit creates a fresh round: new secret, new nonce, published commitment.
// The player value is deliberately unknown at this point.
func (e *RoundEngine) Commit(ctx context.Context, playerID string) (*models.Round, error) {
	secret, err := models.GenerateServerSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret: %v", err)
	}
	nonce := models.GenerateNonce()

	commitment, err := plinko.DeriveCommitment(secret, nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to derive commitment: %v", err)
	}

	round := &models.Round{
		ID:           models.GenerateRoundID(),
		PlayerID:     playerID,
		Status:       models.RoundStatusCommitted,
		ServerSecret: secret,
		Nonce:        nonce,
		Commitment:   commitment,
		CreatedAt:    time.Now(),
	}

	if err := e.redisService.SaveRound(round); err != nil {
		return nil, err
	}

	return round, nil
}

// Play accepts the player's inputs and runs the full deterministic pipeline
// exactly once. Inputs are validated before the round is claimed so an
// invalid request never consumes the committed round.
func (e *RoundEngine) Play(ctx context.Context, playerID, roundID, playerValue string, dropColumn int) (*models.Round, error) {
	if playerValue == "" {
		return nil, fmt.Errorf("invalid play: %w", plinko.ErrInvalidInput)
	}
	if dropColumn < 0 || dropColumn > plinko.Rows {
		return nil, fmt.Errorf("invalid play: %w: drop column %d", plinko.ErrOutOfRangeParameter, dropColumn)
	}

	round, err := e.redisService.GetRound(roundID)
	if err != nil {
		return nil, err
	}
	if round.PlayerID != playerID {
		return nil, fmt.Errorf("round %s does not belong to player", roundID)
	}
	if round.Status != models.RoundStatusCommitted {
		return nil, fmt.Errorf("round already played")
	}

	if err := e.redisService.ClaimRoundForPlay(roundID); err != nil {
		return nil, fmt.Errorf("failed to claim round: %v", err)
	}

	combinedSeed, err := plinko.DeriveCombinedSeed(round.ServerSecret, playerValue, round.Nonce)
	if err != nil {
		return nil, e.releaseClaim(round, err)
	}

	gen, err := plinko.NewGenerator(combinedSeed)
	if err != nil {
		return nil, e.releaseClaim(round, err)
	}

	result, err := plinko.Simulate(gen, dropColumn)
	if err != nil {
		return nil, e.releaseClaim(round, err)
	}

	round.Status = models.RoundStatusPlayed
	round.PlayerValue = playerValue
	round.DropColumn = dropColumn
	round.CombinedSeed = combinedSeed
	round.Board = &result.Board
	round.BoardHash = result.BoardHash
	round.OutcomeBin = result.OutcomeBin
	round.DecisionTrace = result.DecisionTrace
	round.PlayedAt = time.Now()

	if err := e.redisService.UpdateRound(round); err != nil {
		return nil, err
	}

	if e.broadcaster != nil {
		e.broadcaster.BroadcastRoundResult(round)
	}

	return round, nil
}

// releaseClaim puts a claimed round back to committed when the pipeline
// failed before producing results.
func (e *RoundEngine) releaseClaim(round *models.Round, cause error) error {
	round.Status = models.RoundStatusCommitted
	if err := e.redisService.UpdateRound(round); err != nil {
		return fmt.Errorf("play failed (%v) and claim release failed: %v", cause, err)
	}
	return cause
}

// Reveal discloses the server secret for a played round.
func (e *RoundEngine) Reveal(ctx context.Context, playerID, roundID string) (*models.Round, error) {
	round, err := e.redisService.GetRound(roundID)
	if err != nil {
		return nil, err
	}
	if round.PlayerID != playerID {
		return nil, fmt.Errorf("round %s does not belong to player", roundID)
	}

	switch round.Status {
	case models.RoundStatusRevealed:
		return round, nil
	case models.RoundStatusPlayed:
	default:
		return nil, fmt.Errorf("round must be played before reveal")
	}

	round.Status = models.RoundStatusRevealed
	round.RevealedAt = time.Now()

	if err := e.redisService.UpdateRound(round); err != nil {
		return nil, err
	}

	if e.broadcaster != nil {
		e.broadcaster.BroadcastRoundRevealed(round)
	}

	return round, nil
}

func (e *RoundEngine) GetRound(playerID, roundID string) (*models.Round, error) {
	round, err := e.redisService.GetRound(roundID)
	if err != nil {
		return nil, err
	}
	if round.PlayerID != playerID {
		return nil, fmt.Errorf("round %s does not belong to player", roundID)
	}
	return round, nil
}

func (e *RoundEngine) GetPlayerRounds(playerID string, limit int64) ([]*models.Round, error) {
	return e.redisService.GetPlayerRounds(playerID, limit)
}

// Verify re-runs the identical pipeline from disclosed inputs. It is pure
// and read-only: anyone holding the revealed secret can call it, no round
// record required.
func (e *RoundEngine) Verify(req *models.VerifyRequest) (*models.Verification, error) {
	if req.DropColumn == nil {
		return nil, fmt.Errorf("invalid verify request: %w: drop column is required", plinko.ErrInvalidInput)
	}

	commitment, err := plinko.DeriveCommitment(req.ServerSecret, req.Nonce)
	if err != nil {
		return nil, err
	}

	combinedSeed, err := plinko.DeriveCombinedSeed(req.ServerSecret, req.PlayerValue, req.Nonce)
	if err != nil {
		return nil, err
	}

	gen, err := plinko.NewGenerator(combinedSeed)
	if err != nil {
		return nil, err
	}

	result, err := plinko.Simulate(gen, *req.DropColumn)
	if err != nil {
		return nil, err
	}

	verification := &models.Verification{
		Commitment:    commitment,
		CombinedSeed:  combinedSeed,
		BoardHash:     result.BoardHash,
		OutcomeBin:    result.OutcomeBin,
		DecisionTrace: result.DecisionTrace,
		Valid:         true,
	}

	if req.Commitment != "" {
		match := req.Commitment == commitment
		verification.CommitmentMatches = &match
		verification.Valid = verification.Valid && match
	}
	if req.BoardHash != "" {
		match := req.BoardHash == result.BoardHash
		verification.BoardHashMatches = &match
		verification.Valid = verification.Valid && match
	}
	if req.OutcomeBin != nil {
		match := *req.OutcomeBin == result.OutcomeBin
		verification.OutcomeBinMatches = &match
		verification.Valid = verification.Valid && match
	}

	return verification, nil
}
