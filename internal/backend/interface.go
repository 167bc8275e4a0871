package backend

import (
	"context"

	"terapis/internal/ledger"
)

// Backend is a record store the ledger can load from and save to.
type Backend interface {
	ledger.Persister
	Close() error
}

// HealthChecker is implemented by backends with a remote resource to probe.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Ready probes the backend when it supports health checks.
func (r *BackendResult) Ready(ctx context.Context) error {
	if hc, ok := r.Backend.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	StoreKey     string

	// File specific
	DataFilePath string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
