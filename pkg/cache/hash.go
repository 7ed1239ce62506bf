package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is bumped whenever the packer or a renderer changes output for
// the same input, so stale entries stop matching.
const keyVersion = "v1"

// hashKey returns "<kind>:v1:<sha256 of parts as JSON>". Parts are plain
// option structs, so Marshal cannot fail.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + keyVersion + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data: 64 lowercase characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
