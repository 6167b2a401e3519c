// internal/game/engine.go
//
// Selection validation for a word search puzzle.
// Responsibilities:
//   - Read the letters under a player's selection.
//   - Match the text against the puzzle's unfound words.
//   - Accept only an exact, order-preserving cell-for-cell match.
//
// Notes:
//   - A miss is a normal (nil, false) result, never an error.
//   - Validate does not mutate the puzzle; marking found is the caller's job
//     (see Game.Submit).
package game

// Validate returns the unfound word whose cells are exactly sel.
//
// Rules:
//   - Selections shorter than MinWordLength never match.
//   - Every selected cell must be on the grid and hold a letter.
//   - The same text traced along other cells (a duplicate elsewhere in the
//     grid, or the word reversed) is rejected.
func Validate(sel Selection, p *Puzzle) (*Word, bool) {
	if p == nil || len(sel) < MinWordLength {
		return nil, false
	}
	text, ok := p.Grid.ReadAlong(sel)
	if !ok {
		return nil, false
	}
	for _, w := range p.words {
		if w.Text != text || w.Found {
			continue
		}
		if w.Matches(sel) {
			return w, true
		}
	}
	return nil, false
}
