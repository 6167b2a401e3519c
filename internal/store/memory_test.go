package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/wordsearch/internal/game"
)

func newGame(t *testing.T, started time.Time) *game.Game {
	t.Helper()
	g := game.NewGrid(3)
	w := game.NewWord("CAT", game.Position{Row: 0, Col: 0}, game.Right)
	g.Place(w)
	p, err := game.NewPuzzle(g, []*game.Word{w}, game.Animals, game.Easy)
	if err != nil {
		t.Fatal(err)
	}
	return game.New(p, started)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := newGame(t, time.Now())

	if _, err := st.Get(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := st.Save(ctx, g); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, g.ID)
	if err != nil || got != g {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if err := st.Delete(ctx, g.ID); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(ctx, "missing"); err != nil {
		t.Fatalf("deleting unknown id: %v", err)
	}
	if _, err := st.Get(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("deleted game still present")
	}
}

func TestMemoryStorePrune(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := newGame(t, now.Add(-3*time.Hour))
	fresh := newGame(t, now.Add(-time.Minute))
	_ = st.Save(ctx, old)
	_ = st.Save(ctx, fresh)

	all, err := st.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List = %d, %v", len(all), err)
	}

	n, err := st.Prune(ctx, now.Add(-2*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("Prune = %d, %v", n, err)
	}
	if _, err := st.Get(ctx, old.ID); err == nil {
		t.Fatal("old session survived prune")
	}
	if _, err := st.Get(ctx, fresh.ID); err != nil {
		t.Fatal("fresh session was pruned")
	}
	if all, _ := st.List(ctx); len(all) != 1 || all[0] != fresh {
		t.Fatalf("after prune List = %v", all)
	}
}
