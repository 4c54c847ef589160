// Package storage remembers which documents were already parsed so batch reruns skip them.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store tracks processed document IDs.
type Store interface {
	Close() error
	SeenDocument(id string) (bool, error)
	MarkDocument(id string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	DocumentTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	TypeNone  = "none"
	TypeBBolt = "bbolt"

	defaultDocumentTTL     = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.DocumentTTL <= 0 {
		opts.DocumentTTL = defaultDocumentTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                      { return nil }
func (noopStore) SeenDocument(string) (bool, error) { return false, nil }
func (noopStore) MarkDocument(string) error         { return nil }
