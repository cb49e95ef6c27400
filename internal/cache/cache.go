// Package cache provides the get/set-with-TTL abstraction backing the
// division and representative caches. Implementations must support safe
// concurrent reads from multiple in-flight adapter tasks; writes are
// idempotent upserts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// Store is the key-value cache interface. Get returns sentinel.ErrNotFound
// for missing or expired entries; expired entries are never returned stale.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Namespace fixes the TTL class for a family of cache keys.
type Namespace string

const (
	// NamespaceDivisions keys address→division results. Long-lived:
	// electoral boundaries rarely change.
	NamespaceDivisions Namespace = "divisions"
	// NamespaceRepresentatives keys provider results per jurisdiction set.
	// Medium-lived: rosters change between sessions.
	NamespaceRepresentatives Namespace = "representatives"
)

// TTLPolicy maps each namespace to its fixed TTL.
type TTLPolicy struct {
	Divisions       time.Duration
	Representatives time.Duration
}

// For returns the TTL for a namespace. Unknown namespaces get the shorter
// representatives TTL.
func (p TTLPolicy) For(ns Namespace) time.Duration {
	switch ns {
	case NamespaceDivisions:
		return p.Divisions
	default:
		return p.Representatives
	}
}

// Key builds a namespaced cache key.
func Key(ns Namespace, parts ...string) string {
	return string(ns) + ":" + strings.Join(parts, ":")
}

// Fingerprint derives a deterministic, order-independent digest of a set of
// identifiers, for use as a cache key component.
func Fingerprint(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "|")))
	return hex.EncodeToString(sum[:12])
}
