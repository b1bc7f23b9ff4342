package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func GenerateRoundID() string {
	return fmt.Sprintf("round_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GeneratePlayerID() string {
	return fmt.Sprintf("player_%s", uuid.New().String())
}

func GenerateSessionID() string {
	return uuid.New().String()
}

// GenerateServerSecret creates a 256-bit server secret. This is the one
// place randomness is not reproduced, only disclosed, so any CSPRNG output
// is acceptable.
func GenerateServerSecret() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate server secret: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateNonce creates the per-round nonce published alongside the
// commitment.
func GenerateNonce() string {
	return uuid.New().String()
}
