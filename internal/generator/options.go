package generator

const (
	DefaultMaxAttempts          = 200
	DefaultPlacementAttempts    = 50
	DefaultMinGridSize          = 8
	DefaultMaxGridSize          = 12
	DefaultMinIntersectionRatio = 0.5
)

// Options configures puzzle generation. The attempt caps and the density
// threshold are empirical tuning values, kept configurable.
type Options struct {
	MaxAttempts          int     // outer attempts before ErrGenerationFailed
	PlacementAttempts    int     // random (direction, origin) tries per word
	MinGridSize          int     // side length floor
	MaxGridSize          int     // side length cap
	MinIntersectionRatio float64 // share of words that must cross another word; negative disables the check
	Seed                 int64   // Seed for reproducible puzzles (0 = random)

	// FirstLegalPlacement accepts the first legal (direction, origin) pair
	// for a word. By default a word's whole try budget is spent looking for
	// a placement that shares a letter with an already placed word, falling
	// back to the first legal placement found.
	FirstLegalPlacement bool
}

// DefaultOptions returns the standard generator options.
func DefaultOptions() *Options {
	return &Options{
		MaxAttempts:          DefaultMaxAttempts,
		PlacementAttempts:    DefaultPlacementAttempts,
		MinGridSize:          DefaultMinGridSize,
		MaxGridSize:          DefaultMaxGridSize,
		MinIntersectionRatio: DefaultMinIntersectionRatio,
	}
}

// withDefaults fills zero numeric fields from DefaultOptions, so a zero
// Options behaves like DefaultOptions apart from its seed.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = d.MaxAttempts
	}
	if o.PlacementAttempts <= 0 {
		o.PlacementAttempts = d.PlacementAttempts
	}
	if o.MinGridSize <= 0 {
		o.MinGridSize = d.MinGridSize
	}
	if o.MaxGridSize <= 0 {
		o.MaxGridSize = d.MaxGridSize
	}
	if o.MaxGridSize < o.MinGridSize {
		o.MaxGridSize = o.MinGridSize
	}
	switch {
	case o.MinIntersectionRatio == 0:
		o.MinIntersectionRatio = d.MinIntersectionRatio
	case o.MinIntersectionRatio < 0:
		o.MinIntersectionRatio = 0
	}
	return o
}
