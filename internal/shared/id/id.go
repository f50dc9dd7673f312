// Package id provides ULID-based identifier generation.
//
// Transfer IDs are ULIDs with a short type prefix. ULIDs sort
// lexicographically by creation time, so a stream of progress events
// keyed by transfer ID replays in the order the transfers started.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TransferID identifies a copy, move, or paste batch across the REST
// request that started it and the WebSocket events that report on it.
type TransferID string

// TransferPrefix marks transfer IDs in logs and events.
const TransferPrefix = "tr"

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand entropy.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewTransferID generates a new transfer ID
func NewTransferID() TransferID {
	return TransferID(Default().GenerateWithPrefix(TransferPrefix))
}

func (id TransferID) String() string { return string(id) }

// IsValid reports whether an ID string is a prefixed ULID.
func IsValid(id string) bool {
	_, rest, ok := strings.Cut(id, "_")
	if !ok {
		return false
	}
	_, err := ulid.Parse(rest)
	return err == nil
}

// Timestamp extracts the creation time from a prefixed ID.
func Timestamp(id string) (time.Time, error) {
	_, rest, ok := strings.Cut(id, "_")
	if !ok {
		return time.Time{}, fmt.Errorf("malformed id: %q", id)
	}
	parsed, err := ulid.Parse(rest)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
