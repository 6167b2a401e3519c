package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/wordsearch/internal/database"
	"github.com/robalobadob/wordsearch/internal/game"
)

func TestSeedAndCategoryAreDeterministic(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC)
	later := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if Seed(day, "salt") != Seed(later, "salt") {
		t.Fatal("seed should be stable within a UTC day")
	}
	if Category(day, "salt") != Category(later, "salt") {
		t.Fatal("category should be stable within a UTC day")
	}
	if Seed(day, "salt") == Seed(day, "pepper") {
		t.Fatal("salt should change the seed")
	}
	if Seed(day, "salt") <= 0 {
		t.Fatal("seed must be positive")
	}
	if _, err := game.ParseCategory(string(Category(day, "salt"))); err != nil {
		t.Fatalf("category %q is not valid", Category(day, "salt"))
	}
}

func TestCategoryVariesAcrossDays(t *testing.T) {
	seen := map[game.Category]bool{}
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		seen[Category(start.AddDate(0, 0, i), "salt")] = true
	}
	if len(seen) < 4 {
		t.Fatalf("only %d categories over 60 days", len(seen))
	}
}

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	if got := DateKey(time.Date(2026, 3, 2, 5, 0, 0, 0, loc)); got != "2026-03-01" {
		t.Fatalf("DateKey = %s", got)
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenAndMigrate(filepath.Join(t.TempDir(), "daily.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestStoreLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	date := "2026-03-01"

	rows, err := s.Leaderboard(ctx, date, 0)
	if err != nil || rows == nil || len(rows) != 0 {
		t.Fatalf("empty leaderboard = %v, %v", rows, err)
	}

	results := []Result{
		{UserID: "slow", Date: date, Category: "FOOD", WordsFound: 12, WordsTotal: 12, ElapsedMs: 90000},
		{UserID: "fast", Date: date, Category: "FOOD", WordsFound: 12, WordsTotal: 12, ElapsedMs: 60000},
		{UserID: "partial", Date: date, Category: "FOOD", WordsFound: 7, WordsTotal: 12, ElapsedMs: 240000},
		{UserID: "fast", Date: "2026-02-28", Category: "MUSIC", WordsFound: 1, WordsTotal: 12, ElapsedMs: 1},
	}
	for _, r := range results {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	// Second result for the same day is ignored.
	if err := s.InsertResult(ctx, Result{UserID: "partial", Date: date, Category: "FOOD", WordsFound: 12, WordsTotal: 12, ElapsedMs: 1}); err != nil {
		t.Fatal(err)
	}

	rows, err = s.Leaderboard(ctx, date, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"fast", "slow", "partial"}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v", rows)
	}
	for i, id := range want {
		if rows[i].UserID != id {
			t.Fatalf("rank %d = %s, want %s", i+1, rows[i].UserID, id)
		}
	}
	if rows[2].WordsFound != 7 {
		t.Fatal("duplicate insert overwrote the first result")
	}

	played, err := s.AlreadyPlayed(ctx, "slow", date)
	if err != nil || !played {
		t.Fatalf("AlreadyPlayed = %v, %v", played, err)
	}
	played, _ = s.AlreadyPlayed(ctx, "nobody", date)
	if played {
		t.Fatal("unknown player reported as played")
	}
}
