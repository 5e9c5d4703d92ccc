// Package blobstore provides the store type constants.
package blobstore

// Type represents the type of blob store.
type Type string

const (
	// TypeRedis represents a Redis-backed store.
	TypeRedis Type = "redis"
)
