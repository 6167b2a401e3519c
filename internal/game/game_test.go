package game

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestGameScoresAndWins(t *testing.T) {
	p, cat, dog := catDogPuzzle(t)
	g := New(p, t0)
	if g.TimeLimit != Easy.TimeLimit() || g.ID == "" {
		t.Fatalf("bad session: %+v", g)
	}

	miss, err := g.Submit(Selection{{2, 0}, {2, 1}, {2, 2}}, t0)
	if err != nil || miss.Match || miss.Points != 0 {
		t.Fatalf("miss = %+v, %v", miss, err)
	}

	res, err := g.Submit(Selection(cat.Positions()), t0.Add(10*time.Second))
	if err != nil || !res.Match || res.Word != cat {
		t.Fatalf("cat = %+v, %v", res, err)
	}
	if res.Points != 30 || res.State != StatePlaying || res.Found != 1 || res.Total != 2 {
		t.Fatalf("cat result = %+v", res)
	}

	// Re-submitting a found word is a plain miss.
	again, err := g.Submit(Selection(cat.Positions()), t0.Add(11*time.Second))
	if err != nil || again.Match {
		t.Fatalf("again = %+v, %v", again, err)
	}

	at := t0.Add(100 * time.Second)
	res, err = g.Submit(Selection(dog.Positions()), at)
	if err != nil || !res.Match {
		t.Fatalf("dog = %+v, %v", res, err)
	}
	// 30 for the word + 200 seconds left × multiplier 1.
	if res.Points != 230 || res.State != StateWon || res.Score != 260 {
		t.Fatalf("dog result = %+v", res)
	}
	if g.FinishedAt != at || !g.Won {
		t.Fatal("game should be won at submission time")
	}

	if _, err := g.Submit(Selection(dog.Positions()), at); !errors.Is(err, ErrGameFinished) {
		t.Fatalf("err = %v, want ErrGameFinished", err)
	}
}

func TestGameExpires(t *testing.T) {
	p, cat, _ := catDogPuzzle(t)
	g := New(p, t0)
	late := t0.Add(Easy.TimeLimit())

	if g.Remaining(t0.Add(time.Minute)) != 4*time.Minute {
		t.Fatal("remaining should count down")
	}
	res, err := g.Submit(Selection(cat.Positions()), late)
	if !errors.Is(err, ErrTimeExpired) {
		t.Fatalf("err = %v, want ErrTimeExpired", err)
	}
	if res.State != StateLost || res.Match {
		t.Fatalf("res = %+v", res)
	}
	if g.State(late) != StateLost || g.Remaining(late) != 0 {
		t.Fatal("expired game should be lost with no time left")
	}
	if p.IsFound(cat.ID) {
		t.Fatal("late submissions must not mark words")
	}
}

func TestGameStateExpiresLazily(t *testing.T) {
	p, _, _ := catDogPuzzle(t)
	g := New(p, t0)
	if g.State(t0) != StatePlaying {
		t.Fatal("fresh game should be playing")
	}
	if g.State(t0.Add(time.Hour)) != StateLost {
		t.Fatal("State past deadline should report lost")
	}
}

func TestGameConcurrentSubmit(t *testing.T) {
	p, cat, _ := catDogPuzzle(t)
	g := New(p, t0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	matches := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := g.Submit(Selection(cat.Positions()), t0)
			if err == nil && res.Match {
				mu.Lock()
				matches++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if matches != 1 {
		t.Fatalf("word matched %d times, want 1", matches)
	}
}

func TestViewHidesUnfoundCells(t *testing.T) {
	p, cat, _ := catDogPuzzle(t)
	g := New(p, t0)
	g.Submit(Selection(cat.Positions()), t0)

	v := g.View(t0.Add(30 * time.Second))
	if v.Size != 5 || len(v.Rows) != 5 || v.Found != 1 || v.Total != 2 {
		t.Fatalf("view = %+v", v)
	}
	if v.RemainingSec != 270 || v.TimeLimitSec != 300 {
		t.Fatalf("timer = %d/%d", v.RemainingSec, v.TimeLimitSec)
	}
	for _, w := range v.Words {
		if w.Found != (w.Cells != nil) {
			t.Fatalf("word %s found=%v cells=%v", w.Text, w.Found, w.Cells)
		}
	}

	over := g.View(t0.Add(time.Hour))
	if over.State != StateLost {
		t.Fatalf("state = %s", over.State)
	}
	for _, w := range over.Words {
		if len(w.Cells) != w.Length {
			t.Fatalf("finished game should reveal %s", w.Text)
		}
	}
}

func TestGameConcludesOnce(t *testing.T) {
	p, _, _ := catDogPuzzle(t)
	g := New(p, t0)

	if _, ok := g.Conclude(t0.Add(time.Minute)); ok {
		t.Fatal("running game should not conclude")
	}
	res, ok := g.Conclude(t0.Add(Easy.TimeLimit()))
	if !ok || res.State != StateLost || res.Found != 0 || res.Total != 2 {
		t.Fatalf("expired = %+v, %v", res, ok)
	}
	if _, ok := g.Conclude(t0.Add(time.Hour)); ok {
		t.Fatal("second Conclude should report nothing")
	}

	wp, cat, dog := catDogPuzzle(t)
	won := New(wp, t0)
	for _, w := range []*Word{cat, dog} {
		if _, err := won.Submit(Selection(w.Positions()), t0); err != nil {
			t.Fatal(err)
		}
	}
	res, ok = won.Conclude(t0)
	if !ok || res.State != StateWon || res.Score != won.Score || res.Found != 2 {
		t.Fatalf("won = %+v, %v", res, ok)
	}
}
