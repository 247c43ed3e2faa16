package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const (
	NamespaceSearch      = "search"
	NamespaceTranslation = "translation"
)

// Cache stores web search and translation results.
type Cache interface {
	// GetSearchResults returns nil on a cache miss.
	GetSearchResults(ctx context.Context, key string) ([]SearchHit, error)
	SetSearchResults(ctx context.Context, key string, hits []SearchHit, ttl time.Duration) error

	// GetTranslation returns nil on a cache miss.
	GetTranslation(ctx context.Context, key string) (*Translation, error)
	SetTranslation(ctx context.Context, key string, t *Translation, ttl time.Duration) error

	Close() error
}

// SearchHit is a cached web search result.
type SearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Translation is a cached translation outcome.
type Translation struct {
	Text             string `json:"text"`
	DetectedLanguage string `json:"detected_language"`
}

// Key builds a namespaced key from the sha256 of parts.
func Key(namespace string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return namespace + ":" + hex.EncodeToString(sum[:])
}
