package service

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// tokenEntropyBytes is the random width per token. Collisions between two
// tokens generated in the same call are prevented by this width alone; no
// uniqueness check is made against the store.
const tokenEntropyBytes = 24

// GenerateToken produces an opaque bearer token: hex of 24 random bytes
// concatenated with the current unix timestamp, base64 encoded.
func GenerateToken() (string, error) {
	b := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	raw := hex.EncodeToString(b) + strconv.FormatInt(time.Now().Unix(), 10)
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}
