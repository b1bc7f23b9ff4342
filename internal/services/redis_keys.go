package services

import "time"

const (
	KeyPlayerSession = "player:%s:session:%s"
	KeyRound         = "round:%s"
	KeyPlayerRounds  = "player:%s:rounds"
	KeyRateLimit     = "ratelimit:%s:%s"

	TTLPlayerSession = 24 * time.Hour
	TTLRound         = 30 * 24 * time.Hour // rounds stay verifiable for 30 days

	DefaultRateLimitCommit = 30  // Max 30 commits per minute
	DefaultRateLimitPlay   = 60  // Max 60 plays per minute
	DefaultRateLimitReveal = 120 // Max 120 reveals per minute
)
