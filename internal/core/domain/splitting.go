package domain

import "fmt"

// Splitting is a (chunk size, chunk overlap) strategy, unique on the pair.
type Splitting struct {
	ID           int64 `json:"id"`
	ChunkSize    int   `json:"chunk_size"`
	ChunkOverlap int   `json:"chunk_overlap"`
}

// SplittingConfig is the natural key of a Splitting.
type SplittingConfig struct {
	ChunkSize    int `json:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap"`
}

// Validate enforces 0 <= overlap < size.
func (c SplittingConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return Invalid("resolve", "splitting", "chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return Invalid("resolve", "splitting", "chunk_overlap must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return Invalid("resolve", "splitting",
			"chunk_overlap (%d) must be less than chunk_size (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// Key renders the pair for error messages.
func (c SplittingConfig) Key() string {
	return fmt.Sprintf("size=%d,overlap=%d", c.ChunkSize, c.ChunkOverlap)
}

// SplittingRef names a splitting strategy either by existing id or by an
// inline configuration to be resolved through get-or-create.
// Exactly one of ID and Config is set.
type SplittingRef struct {
	ID     int64            `json:"id,omitempty"`
	Config *SplittingConfig `json:"config,omitempty"`
}

// SplittingByID references an existing strategy.
func SplittingByID(id int64) SplittingRef {
	return SplittingRef{ID: id}
}

// SplittingByConfig references a strategy by its (size, overlap) pair.
func SplittingByConfig(chunkSize, chunkOverlap int) SplittingRef {
	return SplittingRef{Config: &SplittingConfig{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}}
}

// Validate checks that exactly one variant is set.
func (r SplittingRef) Validate() error {
	switch {
	case r.ID != 0 && r.Config != nil:
		return Invalid("resolve", "splitting", "reference sets both id and config")
	case r.Config != nil:
		return r.Config.Validate()
	case r.ID > 0:
		return nil
	default:
		return Invalid("resolve", "splitting", "reference needs a positive id or a config")
	}
}
