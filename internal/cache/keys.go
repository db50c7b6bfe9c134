package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyPrefix constants for different cache entry types
const (
	PrefixFile    = "file"
	PrefixArchive = "archive"
)

// GenerateKey generates a cache key: a SHA256 hash of the resolved address.
// Addresses are constructed deterministically from locators, so no
// normalization is needed.
func GenerateKey(address string) string {
	hash := sha256.Sum256([]byte(address))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a cache key with a prefix
func GenerateKeyWithPrefix(prefix, address string) string {
	return prefix + ":" + GenerateKey(address)
}

// FileKey generates a cache key for a single fetched file
func FileKey(address string) string {
	return GenerateKeyWithPrefix(PrefixFile, address)
}

// ArchiveKey generates a cache key for a repository archive
func ArchiveKey(address string) string {
	return GenerateKeyWithPrefix(PrefixArchive, address)
}
