package chunk

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

// ErrDuplicate is returned when a chunk is inserted over an existing one.
var ErrDuplicate = errors.New("chunk already present")

// Store maps chunk positions to chunks. Its key set is only touched by the
// main thread, so it carries no lock.
type Store struct {
	log     *slog.Logger
	chunks  map[world.ChunkPos]*Chunk
	version uint64
}

// NewStore creates an empty Store.
func NewStore(log *slog.Logger) *Store {
	return &Store{log: log, chunks: make(map[world.ChunkPos]*Chunk)}
}

// Insert adds c. An existing entry is kept and ErrDuplicate is returned.
func (s *Store) Insert(c *Chunk) error {
	if _, ok := s.chunks[c.pos]; ok {
		s.log.Warn("chunk already present, not overwriting", "pos", c.pos)
		return ErrDuplicate
	}
	s.chunks[c.pos] = c
	s.version++
	return nil
}

func (s *Store) Get(pos world.ChunkPos) (*Chunk, bool) {
	c, ok := s.chunks[pos]
	return c, ok
}

func (s *Store) Has(pos world.ChunkPos) bool {
	_, ok := s.chunks[pos]
	return ok
}

// Remove deletes and returns the chunk at pos.
func (s *Store) Remove(pos world.ChunkPos) (*Chunk, bool) {
	c, ok := s.chunks[pos]
	if ok {
		delete(s.chunks, pos)
		s.version++
	}
	return c, ok
}

func (s *Store) Len() int { return len(s.chunks) }

// Version changes whenever the key set changes.
func (s *Store) Version() uint64 { return s.version }

// Positions returns every key ordered by X, Y, Z.
func (s *Store) Positions() []world.ChunkPos {
	out := make([]world.ChunkPos, 0, len(s.chunks))
	for p := range s.chunks {
		out = append(out, p)
	}
	slices.SortFunc(out, world.ChunkPos.Compare)
	return out
}

// Each calls fn for every chunk in Positions order.
func (s *Store) Each(fn func(*Chunk)) {
	for _, p := range s.Positions() {
		fn(s.chunks[p])
	}
}
