// Package storage provides S3-compatible object storage for catalog snapshots.
package storage

import (
	"context"
	"errors"
	"path"
)

// ErrNotFound is returned when an object key does not exist.
var ErrNotFound = errors.New("object not found")

// Store is the object storage surface the catalog needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// SnapshotPath returns the key of a named catalog snapshot.
func SnapshotPath(name string) string {
	return path.Join("catalog", "snapshots", name+".json")
}

// LatestSnapshotPath returns the key the s3 catalog source reads by default.
func LatestSnapshotPath() string {
	return SnapshotPath("latest")
}
