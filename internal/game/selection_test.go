package game

import (
	"reflect"
	"testing"
)

func TestTracerStraightLine(t *testing.T) {
	tr := NewTracer()
	steps := []struct {
		p       Position
		changed bool
	}{
		{Position{2, 2}, true},
		{Position{2, 2}, false}, // same cell
		{Position{3, 3}, true},  // fixes DOWN_RIGHT
		{Position{4, 3}, false}, // bends
		{Position{4, 4}, true},
		{Position{6, 6}, false}, // not adjacent
		{Position{3, 3}, true},  // backtrack
	}
	for i, s := range steps {
		if got := tr.Extend(s.p); got != s.changed {
			t.Fatalf("step %d Extend(%v) = %v, want %v", i, s.p, got, s.changed)
		}
	}
	want := Selection{{2, 2}, {3, 3}}
	if got := tr.Selection(); !reflect.DeepEqual(got, want) {
		t.Fatalf("selection = %v, want %v", got, want)
	}
	if tr.Direction() != DownRight {
		t.Fatalf("direction = %s", tr.Direction())
	}

	tr.Extend(Position{2, 2})
	if tr.Len() != 1 || tr.Direction() != (Direction{}) {
		t.Fatal("backtracking to one cell should clear the direction")
	}
	if !tr.Extend(Position{1, 2}) || tr.Direction() != Up {
		t.Fatal("direction should be re-established")
	}

	tr.Reset()
	if tr.Len() != 0 {
		t.Fatal("reset should clear cells")
	}
}

func TestTracePath(t *testing.T) {
	path := []Position{{0, 0}, {0, 1}, {1, 1}, {0, 2}, {0, 3}}
	want := Selection{{0, 0}, {0, 1}, {0, 2}, {0, 3}}
	if got := TracePath(path); !reflect.DeepEqual(got, want) {
		t.Fatalf("TracePath = %v, want %v", got, want)
	}
}
