package match

import (
	"sync"

	"github.com/pixil98/go-arena/internal/arena"
)

// Directory is the registry of live matches. Tick loops look their match up
// here every tick rather than holding a reference, so deleting an entry is
// how a loop learns it should die.
type Directory struct {
	mu      sync.RWMutex
	matches map[string]*arena.Match
}

func NewDirectory() *Directory {
	return &Directory{
		matches: map[string]*arena.Match{},
	}
}

// Save registers a match under its id. A nil match or one without an id is a
// programming error surfaced to the caller.
func (d *Directory) Save(m *arena.Match) error {
	if m == nil || m.ID() == "" {
		return arena.ErrNilMatch
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.matches[m.ID()] = m
	return nil
}

func (d *Directory) Find(id string) (*arena.Match, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.matches[id]
	return m, ok
}

func (d *Directory) Delete(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.matches, id)
}

// Len reports the number of registered matches.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.matches)
}
