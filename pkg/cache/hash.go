package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is hashed into every key. Bump it when the layout model or a
// sink changes output for the same inputs, so stale entries stop matching.
const keyVersion = 1

// hashKey returns prefix + ":" + sha256 of the JSON-encoded parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(struct {
		V     int   `json:"v"`
		Parts []any `json:"parts"`
	}{keyVersion, parts})
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
