package game

// Tracer builds a selection one cell at a time, keeping it on a single
// straight line. The first two cells fix the direction; after that only
// last+direction extends the selection. Stepping back onto the cell before
// the last removes the last cell.
type Tracer struct {
	cells []Position
	dir   Direction
}

// NewTracer returns an empty tracer.
func NewTracer() *Tracer { return &Tracer{} }

// Extend offers the next cell under the pointer. It reports whether the
// selection changed shape (grew or backtracked).
func (t *Tracer) Extend(p Position) bool {
	n := len(t.cells)
	if n == 0 {
		t.cells = append(t.cells, p)
		return true
	}
	last := t.cells[n-1]
	if p == last {
		return false
	}
	if n >= 2 && p == t.cells[n-2] {
		t.cells = t.cells[:n-1]
		if len(t.cells) == 1 {
			t.dir = Direction{}
		}
		return true
	}
	if p.Chebyshev(last) != 1 {
		return false
	}
	if n == 1 {
		t.dir = p.Sub(last)
		t.cells = append(t.cells, p)
		return true
	}
	if p.Sub(last) != t.dir {
		return false
	}
	t.cells = append(t.cells, p)
	return true
}

// Direction is the established direction, or the zero value with fewer
// than two cells.
func (t *Tracer) Direction() Direction { return t.dir }

// Len is the number of selected cells.
func (t *Tracer) Len() int { return len(t.cells) }

// Reset clears the selection.
func (t *Tracer) Reset() {
	t.cells = t.cells[:0]
	t.dir = Direction{}
}

// Selection returns a copy of the cells selected so far.
func (t *Tracer) Selection() Selection {
	out := make(Selection, len(t.cells))
	copy(out, t.cells)
	return out
}

// TracePath folds a raw pointer path through a Tracer, dropping cells that
// would bend or break the line.
func TracePath(path []Position) Selection {
	t := NewTracer()
	for _, p := range path {
		t.Extend(p)
	}
	return t.Selection()
}
