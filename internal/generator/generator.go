// internal/generator/generator.go
//
// Puzzle generation engine.
// Responsibilities:
//   - Draw the difficulty's word count from a category pool.
//   - Size the grid from the longest word and the word count.
//   - Place words longest-first along the difficulty's directions,
//     allowing only letter-consistent crossings.
//   - Reject short or sparse attempts and retry with a fresh draw.
//   - Fill leftover cells with random letters.
//
// Every attempt builds its own Grid; nothing from an abandoned attempt is
// reused. Generation is bounded: MaxAttempts × PlacementAttempts per word.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
)

var (
	ErrGenerationFailed = errors.New("failed to generate puzzle")

	errGridTooSmall      = errors.New("longest word does not fit the grid cap")
	errIncomplete        = errors.New("not every word could be placed")
	errTooFewCrossings   = errors.New("too few intersecting words")
	errUnknownDifficulty = errors.New("difficulty has no word count")
)

// WordSource supplies the word pool for a category. Words are expected to
// be 3–8 upper-case letters.
type WordSource interface {
	WordsForCategory(c game.Category) []string
}

// Generator creates word search puzzles. It holds only its options, so one
// Generator may serve concurrent calls.
type Generator struct {
	options Options
}

// New creates a generator with the given options (nil → DefaultOptions).
func New(options *Options) *Generator {
	if options == nil {
		options = DefaultOptions()
	}
	return &Generator{options: options.withDefaults()}
}

// Options returns a copy of the effective options.
func (g *Generator) Options() Options { return g.options }

// Generate builds a puzzle using a random source private to this call.
func (g *Generator) Generate(c game.Category, d game.Difficulty, src WordSource) (*game.Puzzle, error) {
	return g.GenerateWithRand(g.newRand(), c, d, src)
}

// GenerateWithRand builds a puzzle drawing all randomness from rng.
// It fails with an error wrapping ErrGenerationFailed once MaxAttempts
// attempts have been abandoned; it never returns a puzzle short of words.
func (g *Generator) GenerateWithRand(rng *rand.Rand, c game.Category, d game.Difficulty, src WordSource) (*game.Puzzle, error) {
	target := d.WordCount()
	if target == 0 {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, errUnknownDifficulty)
	}
	pool := game.NormalizeWords(src.WordsForCategory(c))
	if len(pool) < target {
		return nil, fmt.Errorf("%w: category %s has %d words, need %d",
			ErrGenerationFailed, c, len(pool), target)
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= g.options.MaxAttempts; attempt++ {
		p, err := g.attempt(rng, pool, c, d)
		if err == nil {
			log.Debug().
				Str("category", string(c)).
				Str("difficulty", string(d)).
				Int("attempt", attempt).
				Int("size", p.Grid.Size()).
				Dur("took", time.Since(start)).
				Msg("puzzle generated")
			return p, nil
		}
		lastErr = err
		log.Trace().Err(err).Int("attempt", attempt).Msg("generation attempt abandoned")
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrGenerationFailed, g.options.MaxAttempts, lastErr)
}

// attempt runs one full draw → size → place → check → fill pass.
func (g *Generator) attempt(rng *rand.Rand, pool []string, c game.Category, d game.Difficulty) (*game.Puzzle, error) {
	target := d.WordCount()
	drawn := draw(rng, pool, target)

	size, err := g.gridSize(drawn)
	if err != nil {
		return nil, err
	}

	// Longer words claim space before the grid fills up.
	sort.SliceStable(drawn, func(i, j int) bool { return len(drawn[i]) > len(drawn[j]) })

	grid := game.NewGrid(size)
	dirs := d.Directions()
	placed := make([]*game.Word, 0, target)
	for _, text := range drawn {
		if w := g.place(rng, grid, text, dirs); w != nil {
			placed = append(placed, w)
		}
	}
	if len(placed) < target {
		return nil, errIncomplete
	}
	if crossingRatio(grid, placed) < g.options.MinIntersectionRatio {
		return nil, errTooFewCrossings
	}

	grid.FillEmpty(func() rune { return rune('A' + rng.Intn(26)) })
	return game.NewPuzzle(grid, placed, c, d)
}

// gridSize clamps longest+ceil(n/2) into [MinGridSize, MaxGridSize] and
// rejects draws whose longest word cannot fit the clamped side.
func (g *Generator) gridSize(drawn []string) (int, error) {
	longest := 0
	for _, w := range drawn {
		longest = max(longest, len(w))
	}
	size := longest + (len(drawn)+1)/2
	size = min(max(size, g.options.MinGridSize), g.options.MaxGridSize)
	if longest > size {
		return 0, errGridTooSmall
	}
	return size, nil
}

// place tries up to PlacementAttempts random (direction, origin) pairs and
// writes the word on acceptance. It returns nil when the word is skipped.
func (g *Generator) place(rng *rand.Rand, grid *game.Grid, text string, dirs []game.Direction) *game.Word {
	var fallback *game.Word
	for try := 0; try < g.options.PlacementAttempts; try++ {
		dir := dirs[rng.Intn(len(dirs))]
		origin := game.Position{Row: rng.Intn(grid.Size()), Col: rng.Intn(grid.Size())}
		if !grid.CanPlace(text, origin, dir) {
			continue
		}
		w := game.NewWord(text, origin, dir)
		if g.options.FirstLegalPlacement || crosses(grid, w) {
			grid.Place(w)
			return w
		}
		if fallback == nil {
			fallback = w
		}
	}
	if fallback != nil {
		grid.Place(fallback)
	}
	return fallback
}

// crosses reports whether w would reuse a letter already on the grid.
func crosses(grid *game.Grid, w *game.Word) bool {
	for _, p := range w.Positions() {
		if c, ok := grid.At(p); ok && !c.IsEmpty() {
			return true
		}
	}
	return false
}

// crossingRatio is the share of placed words with at least one cell
// shared with another word.
func crossingRatio(grid *game.Grid, placed []*game.Word) float64 {
	if len(placed) == 0 {
		return 0
	}
	n := 0
	for _, w := range placed {
		for _, p := range w.Positions() {
			if c, ok := grid.At(p); ok && c.Shared() {
				n++
				break
			}
		}
	}
	return float64(n) / float64(len(placed))
}

// draw picks n distinct entries of pool without replacement.
func draw(rng *rand.Rand, pool []string, n int) []string {
	out := make([]string, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

func (g *Generator) newRand() *rand.Rand {
	seed := g.options.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
