package models

type PlayRequest struct {
	PlayerValue string `json:"player_value" binding:"required"`
	DropColumn  *int   `json:"drop_column" binding:"required,min=0,max=12"`
}

type VerifyRequest struct {
	ServerSecret string `json:"server_secret" binding:"required"`
	Nonce        string `json:"nonce" binding:"required"`
	PlayerValue  string `json:"player_value" binding:"required"`
	DropColumn   *int   `json:"drop_column" binding:"required,min=0,max=12"`

	// Originally published values; optional, compared when present.
	Commitment string `json:"commitment,omitempty"`
	BoardHash  string `json:"board_hash,omitempty"`
	OutcomeBin *int   `json:"outcome_bin,omitempty"`
}

type SessionResponse struct {
	Token     string `json:"token"`
	PlayerID  string `json:"player_id"`
	SessionID string `json:"session_id"`
	ExpiresIn int64  `json:"expires_in"`
}
