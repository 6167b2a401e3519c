// internal/game/puzzle.go
//
// Puzzle aggregates a grid, the words hidden in it and which of them
// have been found. Only MarkWordFound mutates it after generation.
//
// A Puzzle is owned by exactly one session at a time and carries no lock;
// callers sharing one across goroutines wrap it (see Game).

package game

import (
	"fmt"
	"strings"
)

// Puzzle is a generated word search.
type Puzzle struct {
	Grid       *Grid
	Category   Category
	Difficulty Difficulty

	words []*Word
	byID  map[string]*Word
	found map[string]struct{}
}

// NewPuzzle assembles a puzzle. Word ids must be unique; words already
// flagged Found are recorded in the found set.
func NewPuzzle(g *Grid, words []*Word, c Category, d Difficulty) (*Puzzle, error) {
	p := &Puzzle{
		Grid:       g,
		Category:   c,
		Difficulty: d,
		words:      make([]*Word, 0, len(words)),
		byID:       make(map[string]*Word, len(words)),
		found:      make(map[string]struct{}),
	}
	for _, w := range words {
		if _, dup := p.byID[w.ID]; dup {
			return nil, fmt.Errorf("duplicate word id %q", w.ID)
		}
		p.words = append(p.words, w)
		p.byID[w.ID] = w
		if w.Found {
			p.found[w.ID] = struct{}{}
		}
	}
	return p, nil
}

// MarkWordFound flags the word as found. It returns false when the id is
// unknown or the word was already found, leaving state untouched.
func (p *Puzzle) MarkWordFound(id string) bool {
	w, ok := p.byID[id]
	if !ok || w.Found {
		return false
	}
	w.Found = true
	p.found[id] = struct{}{}
	return true
}

// IsComplete is true once every word is found.
func (p *Puzzle) IsComplete() bool { return len(p.found) == len(p.words) }

// FoundCount is the number of words found so far.
func (p *Puzzle) FoundCount() int { return len(p.found) }

// TotalCount is the number of hidden words.
func (p *Puzzle) TotalCount() int { return len(p.words) }

// WordByID returns the word with this id.
func (p *Puzzle) WordByID(id string) (*Word, bool) {
	w, ok := p.byID[id]
	return w, ok
}

// WordByText returns the first word whose text equals s, ignoring case.
func (p *Puzzle) WordByText(s string) (*Word, bool) {
	s = strings.ToUpper(s)
	for _, w := range p.words {
		if w.Text == s {
			return w, true
		}
	}
	return nil, false
}

// AllWords returns the words in placement order. The slice is a copy;
// the words are shared.
func (p *Puzzle) AllWords() []*Word {
	out := make([]*Word, len(p.words))
	copy(out, p.words)
	return out
}

// IsFound reports whether the word with this id is in the found set.
func (p *Puzzle) IsFound(id string) bool {
	_, ok := p.found[id]
	return ok
}
