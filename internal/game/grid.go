package game

import (
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Cell holds an optional upper-case letter and the ids of the words
// running through it. A cell with no letter is empty.
type Cell struct {
	letter  rune
	wordIDs mapset.Set[string]
}

// Letter returns the cell's letter and whether one is set.
func (c *Cell) Letter() (rune, bool) { return c.letter, c.letter != 0 }

// IsEmpty reports whether no letter has been assigned.
func (c *Cell) IsEmpty() bool { return c.letter == 0 }

// WordIDs lists the ids of words occupying the cell, in no particular order.
func (c *Cell) WordIDs() []string {
	out := make([]string, 0, c.wordIDs.Size())
	c.wordIDs.Each(func(id string) { out = append(out, id) })
	return out
}

// Claimed reports whether the word with this id occupies the cell.
func (c *Cell) Claimed(id string) bool { return c.wordIDs.Has(id) }

// Shared reports whether more than one word occupies the cell.
func (c *Cell) Shared() bool { return c.wordIDs.Size() > 1 }

// Grid is a fixed size×size matrix of cells. Every accessor is
// bounds-checked and reports ok=false instead of panicking.
type Grid struct {
	size  int
	cells [][]Cell
}

// NewGrid allocates an empty size×size grid.
func NewGrid(size int) *Grid {
	if size < 0 {
		size = 0
	}
	cells := make([][]Cell, size)
	for r := range cells {
		cells[r] = make([]Cell, size)
		for c := range cells[r] {
			cells[r][c].wordIDs = mapset.New[string]()
		}
	}
	return &Grid{size: size, cells: cells}
}

// Size is the side length.
func (g *Grid) Size() int { return g.size }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.size && p.Col >= 0 && p.Col < g.size
}

// At returns the cell at p, or ok=false when p is off the grid.
func (g *Grid) At(p Position) (*Cell, bool) {
	if !g.InBounds(p) {
		return nil, false
	}
	return &g.cells[p.Row][p.Col], true
}

// Letter returns the letter at p; ok is false off-grid or on an empty cell.
func (g *Grid) Letter(p Position) (rune, bool) {
	c, ok := g.At(p)
	if !ok {
		return 0, false
	}
	return c.Letter()
}

// SetLetter writes an upper-cased letter at p. Returns false if out of bounds.
func (g *Grid) SetLetter(p Position, r rune) bool {
	c, ok := g.At(p)
	if !ok {
		return false
	}
	c.letter = toUpper(r)
	return true
}

// CanPlace reports whether text fits from start along dir: every cell must be
// on the grid and either empty or already holding the same letter.
func (g *Grid) CanPlace(text string, start Position, dir Direction) bool {
	if text == "" || !dir.IsUnit() {
		return false
	}
	p := start
	for _, r := range text {
		c, ok := g.At(p)
		if !ok {
			return false
		}
		if !c.IsEmpty() && c.letter != toUpper(r) {
			return false
		}
		p = p.Add(dir)
	}
	return true
}

// Place writes w into the grid if CanPlace allows it. Letters go into empty
// cells only; w.ID is registered on every cell the word covers.
func (g *Grid) Place(w *Word) bool {
	if !g.CanPlace(w.Text, w.Start, w.Direction) {
		return false
	}
	p := w.Start
	for _, r := range w.Text {
		c := &g.cells[p.Row][p.Col]
		if c.IsEmpty() {
			c.letter = toUpper(r)
		}
		c.wordIDs.Put(w.ID)
		p = p.Add(w.Direction)
	}
	return true
}

// FillEmpty assigns letter() to every empty cell.
func (g *Grid) FillEmpty(letter func() rune) {
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c].IsEmpty() {
				g.cells[r][c].letter = toUpper(letter())
			}
		}
	}
}

// EmptyCount counts cells without a letter.
func (g *Grid) EmptyCount() int {
	n := 0
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c].IsEmpty() {
				n++
			}
		}
	}
	return n
}

// ReadAlong concatenates the letters at ps. ok is false if any position is
// off the grid or empty.
func (g *Grid) ReadAlong(ps []Position) (string, bool) {
	var sb strings.Builder
	for _, p := range ps {
		r, ok := g.Letter(p)
		if !ok {
			return "", false
		}
		sb.WriteRune(r)
	}
	return strings.ToUpper(sb.String()), true
}

// Rows renders each row as a string, '.' standing in for empty cells.
func (g *Grid) Rows() []string {
	out := make([]string, g.size)
	for r := range g.cells {
		var sb strings.Builder
		for c := range g.cells[r] {
			if l, ok := g.cells[r][c].Letter(); ok {
				sb.WriteRune(l)
			} else {
				sb.WriteByte('.')
			}
		}
		out[r] = sb.String()
	}
	return out
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
