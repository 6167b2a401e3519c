// internal/game/game.go
//
// Game is a single play session over a generated puzzle.
// Responsibilities:
//   - Own the puzzle for the session's lifetime.
//   - Apply selections: validate, mark found, score.
//   - Enforce the difficulty's countdown and track playing → won/lost.
//
// Notes:
//   - Requests for one session may arrive concurrently, so every exported
//     method takes the session lock. The Puzzle itself is lock-free.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

var (
	ErrGameFinished = errors.New("game finished")
	ErrTimeExpired  = errors.New("time expired")
)

// State is the coarse lifecycle of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// pointsPerLetter is the base score for one letter of a found word.
const pointsPerLetter = 10

// Game holds the state of one session.
type Game struct {
	ID         string
	Puzzle     *Puzzle
	StartedAt  time.Time
	TimeLimit  time.Duration // zero means untimed
	Score      int
	Finished   bool
	Won        bool
	FinishedAt time.Time

	mu        sync.Mutex
	concluded bool
}

// New starts a session on p at now, timed by the puzzle's difficulty.
func New(p *Puzzle, now time.Time) *Game {
	return &Game{
		ID:        randomID(),
		Puzzle:    p,
		StartedAt: now,
		TimeLimit: p.Difficulty.TimeLimit(),
	}
}

// Result describes the outcome of one Submit.
type Result struct {
	Word   *Word `json:"-"`
	Match  bool  `json:"match"`
	Points int   `json:"points"`
	State  State `json:"state"`
	Found  int   `json:"found"`
	Total  int   `json:"total"`
	Score  int   `json:"score"`
}

// Submit validates sel against the puzzle and, on a match, marks the word
// found and scores it. Completing the puzzle wins the game and adds the
// time bonus. A submission after the deadline loses the game.
func (g *Game) Submit(sel Selection, now time.Time) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Finished {
		return g.result(nil, 0), ErrGameFinished
	}
	if g.expired(now) {
		g.finish(false, now)
		return g.result(nil, 0), ErrTimeExpired
	}

	w, ok := Validate(sel, g.Puzzle)
	if !ok || !g.Puzzle.MarkWordFound(w.ID) {
		return g.result(nil, 0), nil
	}

	mult := g.Puzzle.Difficulty.ScoreMultiplier()
	points := pointsPerLetter * w.Len() * mult
	if g.Puzzle.IsComplete() {
		points += int(g.remaining(now)/time.Second) * mult
		g.finish(true, now)
	}
	g.Score += points
	return g.result(w, points), nil
}

// State reports the game state as of now, expiring the game if its
// deadline has passed.
func (g *Game) State(now time.Time) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Finished && g.expired(now) {
		g.finish(false, now)
	}
	return g.state()
}

// Conclude expires the game if its deadline has passed and, the first time
// it is called on a finished game, returns the final result with ok=true.
// Later calls, and calls while the game is still running, return ok=false.
func (g *Game) Conclude(now time.Time) (Result, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Finished && g.expired(now) {
		g.finish(false, now)
	}
	if !g.Finished || g.concluded {
		return g.result(nil, 0), false
	}
	g.concluded = true
	return g.result(nil, 0), true
}

// Remaining is the time left on the countdown (zero once finished).
func (g *Game) Remaining(now time.Time) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Finished {
		return 0
	}
	return g.remaining(now)
}

func (g *Game) result(w *Word, points int) Result {
	return Result{
		Word:   w,
		Match:  w != nil,
		Points: points,
		State:  g.state(),
		Found:  g.Puzzle.FoundCount(),
		Total:  g.Puzzle.TotalCount(),
		Score:  g.Score,
	}
}

func (g *Game) finish(won bool, now time.Time) {
	g.Finished, g.Won = true, won
	g.FinishedAt = now
}

func (g *Game) expired(now time.Time) bool {
	return g.TimeLimit > 0 && !now.Before(g.StartedAt.Add(g.TimeLimit))
}

func (g *Game) remaining(now time.Time) time.Duration {
	if g.TimeLimit <= 0 {
		return 0
	}
	left := g.StartedAt.Add(g.TimeLimit).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// state reports a coarse representation of the current game state.
func (g *Game) state() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
