// internal/game/types.go
//
// Core value types for the word search engine.
// Defines:
//   - Position:   (row, col) coordinate on the grid.
//   - Direction:  one of the 8 unit vectors a word can run along.
//   - Difficulty: EASY/MEDIUM/HARD, fixing word count, directions, timer, scoring.
//   - Category:   the word pool a puzzle is drawn from.
//   - Selection:  an ordered list of positions proposed by a player.

package game

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Position is an immutable grid coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add moves the position one step along d.
func (p Position) Add(d Direction) Position {
	return Position{Row: p.Row + d.DRow, Col: p.Col + d.DCol}
}

// Sub returns the vector from q to p.
func (p Position) Sub(q Position) Direction {
	return Direction{DRow: p.Row - q.Row, DCol: p.Col - q.Col}
}

// Chebyshev returns max(|dRow|, |dCol|) between p and q.
func (p Position) Chebyshev(q Position) int {
	return max(abs(p.Row-q.Row), abs(p.Col-q.Col))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Direction is a unit step {dRow, dCol} with both components in -1..1,
// never (0, 0) for the named values below.
type Direction struct {
	DRow int `json:"dRow"`
	DCol int `json:"dCol"`
}

var (
	Right     = Direction{DRow: 0, DCol: 1}
	Left      = Direction{DRow: 0, DCol: -1}
	Down      = Direction{DRow: 1, DCol: 0}
	Up        = Direction{DRow: -1, DCol: 0}
	DownRight = Direction{DRow: 1, DCol: 1}
	DownLeft  = Direction{DRow: 1, DCol: -1}
	UpRight   = Direction{DRow: -1, DCol: 1}
	UpLeft    = Direction{DRow: -1, DCol: -1}
)

// AllDirections returns the 8 named directions in a stable order.
func AllDirections() []Direction {
	return []Direction{Right, Left, Down, Up, DownRight, DownLeft, UpRight, UpLeft}
}

// IsUnit reports whether d is one of the 8 named directions.
func (d Direction) IsUnit() bool {
	if d.DRow == 0 && d.DCol == 0 {
		return false
	}
	return abs(d.DRow) <= 1 && abs(d.DCol) <= 1
}

// String returns the stable upper-case name of the direction.
func (d Direction) String() string {
	switch d {
	case Right:
		return "RIGHT"
	case Left:
		return "LEFT"
	case Down:
		return "DOWN"
	case Up:
		return "UP"
	case DownRight:
		return "DOWN_RIGHT"
	case DownLeft:
		return "DOWN_LEFT"
	case UpRight:
		return "UP_RIGHT"
	case UpLeft:
		return "UP_LEFT"
	default:
		return "NONE"
	}
}

// Difficulty labels a puzzle profile.
type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// Difficulties returns all difficulty levels, easiest first.
func Difficulties() []Difficulty { return []Difficulty{Easy, Medium, Hard} }

// ParseDifficulty accepts any casing of EASY/MEDIUM/HARD.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", ErrUnknownDifficulty
}

// WordCount is the number of words a puzzle of this difficulty hides.
func (d Difficulty) WordCount() int {
	switch d {
	case Easy:
		return 8
	case Medium:
		return 12
	case Hard:
		return 16
	}
	return 0
}

// Directions lists the placement directions allowed at this difficulty.
func (d Difficulty) Directions() []Direction {
	switch d {
	case Easy:
		return []Direction{Right, Down}
	case Medium:
		return []Direction{Right, Down, DownRight, DownLeft}
	case Hard:
		return AllDirections()
	}
	return nil
}

// Allows reports whether words may run along dir at this difficulty.
func (d Difficulty) Allows(dir Direction) bool {
	for _, x := range d.Directions() {
		if x == dir {
			return true
		}
	}
	return false
}

// TimeLimit is the countdown a session gets for this difficulty.
func (d Difficulty) TimeLimit() time.Duration {
	switch d {
	case Easy:
		return 5 * time.Minute
	case Medium:
		return 4 * time.Minute
	case Hard:
		return 3 * time.Minute
	}
	return 0
}

// ScoreMultiplier scales word points and the completion bonus.
func (d Difficulty) ScoreMultiplier() int {
	switch d {
	case Easy:
		return 1
	case Medium:
		return 2
	case Hard:
		return 3
	}
	return 0
}

// Category is the key of a themed word pool.
type Category string

const (
	Animals Category = "ANIMALS"
	Food    Category = "FOOD"
	Sports  Category = "SPORTS"
	Nature  Category = "NATURE"
	Science Category = "SCIENCE"
	Music   Category = "MUSIC"
	Home    Category = "HOME"
	Travel  Category = "TRAVEL"
)

// Categories returns the fixed enumeration of categories.
func Categories() []Category {
	return []Category{Animals, Food, Sports, Nature, Science, Music, Home, Travel}
}

// ParseCategory accepts any casing of a known category key.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, k := range Categories() {
		if k == c {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// Label is the display name ("Animals").
func (c Category) Label() string {
	s := strings.ToLower(string(c))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Selection is a player's drag gesture: an ordered list of cells.
// It carries no validity guarantee of its own.
type Selection []Position
