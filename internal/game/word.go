package game

import (
	"strings"

	"github.com/google/uuid"
)

const (
	MinWordLength = 3
	MaxWordLength = 8
)

// Word is a word hidden in the grid. Its cells are derived from
// (Start, Direction, len(Text)) on demand and never stored.
type Word struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Start     Position  `json:"start"`
	Direction Direction `json:"direction"`
	Found     bool      `json:"found"`
}

// NewWord builds a word with a fresh unique id. Text is upper-cased.
func NewWord(text string, start Position, dir Direction) *Word {
	return &Word{
		ID:        uuid.NewString(),
		Text:      strings.ToUpper(text),
		Start:     start,
		Direction: dir,
	}
}

// Len is the number of letters.
func (w *Word) Len() int { return len([]rune(w.Text)) }

// Positions returns the ordered cells covered by the word.
func (w *Word) Positions() []Position {
	n := w.Len()
	out := make([]Position, n)
	p := w.Start
	for i := 0; i < n; i++ {
		out[i] = p
		p = p.Add(w.Direction)
	}
	return out
}

// End is the last cell the word covers.
func (w *Word) End() Position {
	n := w.Len()
	if n == 0 {
		return w.Start
	}
	return Position{
		Row: w.Start.Row + w.Direction.DRow*(n-1),
		Col: w.Start.Col + w.Direction.DCol*(n-1),
	}
}

// Matches reports whether sel is exactly this word's cell sequence, in order.
func (w *Word) Matches(sel Selection) bool {
	ps := w.Positions()
	if len(ps) != len(sel) {
		return false
	}
	for i := range ps {
		if ps[i] != sel[i] {
			return false
		}
	}
	return true
}

// NormalizeWords trims and upper-cases a word list, drops entries that
// are not 3–8 letters and removes repeats, keeping first-seen order.
func NormalizeWords(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.ToUpper(strings.TrimSpace(w))
		if !ValidWordText(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// ValidWordText reports whether s is 3–8 letters A–Z (any case).
func ValidWordText(s string) bool {
	if len(s) < MinWordLength || len(s) > MaxWordLength {
		return false
	}
	for _, r := range s {
		r = toUpper(r)
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
