package models

import (
	"time"

	"plinko-fair-backend/internal/plinko"
)

type RoundStatus string

const (
	RoundStatusCommitted RoundStatus = "committed"
	RoundStatusPlayed    RoundStatus = "played"
	RoundStatusRevealed  RoundStatus = "revealed"
)

// Round is the server-side record of one commit-reveal round. ServerSecret
// and CombinedSeed are persisted from creation but only exposed to clients
// through Public() once the round is revealed.
type Round struct {
	ID       string      `json:"id" redis:"id"`
	PlayerID string      `json:"player_id" redis:"player_id"`
	Status   RoundStatus `json:"status" redis:"status"`

	ServerSecret string `json:"server_secret,omitempty" redis:"server_secret"`
	Nonce        string `json:"nonce" redis:"nonce"`
	Commitment   string `json:"commitment" redis:"commitment"`

	PlayerValue string `json:"player_value,omitempty" redis:"player_value"`
	DropColumn  int    `json:"drop_column" redis:"drop_column"`

	CombinedSeed  string            `json:"combined_seed,omitempty" redis:"combined_seed"`
	Board         *plinko.Board     `json:"board,omitempty" redis:"board"`
	BoardHash     string            `json:"board_hash,omitempty" redis:"board_hash"`
	OutcomeBin    int               `json:"outcome_bin" redis:"outcome_bin"`
	DecisionTrace []plinko.Decision `json:"decision_trace,omitempty" redis:"decision_trace"`

	CreatedAt  time.Time `json:"created_at" redis:"created_at"`
	PlayedAt   time.Time `json:"played_at,omitempty" redis:"played_at"`
	RevealedAt time.Time `json:"revealed_at,omitempty" redis:"revealed_at"`
}

// Public returns a copy safe to send to clients. The secret and the seed it
// feeds stay redacted until the round is revealed; leaking either earlier
// would break the commitment.
func (r *Round) Public() *Round {
	out := *r
	if r.Status != RoundStatusRevealed {
		out.ServerSecret = ""
		out.CombinedSeed = ""
	}
	return &out
}

type PlayerSession struct {
	PlayerID     string    `json:"player_id" redis:"player_id"`
	SessionID    string    `json:"session_id" redis:"session_id"`
	CreatedAt    time.Time `json:"created_at" redis:"created_at"`
	LastAccessed time.Time `json:"last_accessed" redis:"last_accessed"`
}

// Verification carries the values recomputed from disclosed inputs, plus the
// comparison against what was originally published when the caller supplied
// expectations.
type Verification struct {
	Commitment    string            `json:"commitment"`
	CombinedSeed  string            `json:"combined_seed"`
	BoardHash     string            `json:"board_hash"`
	OutcomeBin    int               `json:"outcome_bin"`
	DecisionTrace []plinko.Decision `json:"decision_trace"`

	CommitmentMatches *bool `json:"commitment_matches,omitempty"`
	BoardHashMatches  *bool `json:"board_hash_matches,omitempty"`
	OutcomeBinMatches *bool `json:"outcome_bin_matches,omitempty"`
	Valid             bool  `json:"valid"`
}
