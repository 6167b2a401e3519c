package httpserver

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/generator"
)

type dailyOut struct {
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Game   *game.View `json:"game"`
}

// todaysPuzzle rebuilds the daily puzzle the same way the server does.
func todaysPuzzle(t *testing.T, s *Server, now time.Time) *game.Puzzle {
	t.Helper()
	salt := getEnv("DAILY_SALT", "local_dev_salt")
	opts := s.gen.Options()
	opts.Seed = daily.Seed(now, salt)
	p, err := generator.New(&opts).Generate(daily.Category(now, salt), daily.Difficulty, s.words)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDailyFlow(t *testing.T) {
	s, clock := newTestServer(t)
	c := newClient(t, s)

	w := c.do("POST", "/daily/new", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("daily new: %d %s", w.Code, w.Body.String())
	}
	first := decode[dailyOut](t, w)
	if first.Played || first.Game == nil || first.Date != "2026-03-01" {
		t.Fatalf("daily = %+v", first)
	}
	if first.Game.Difficulty != daily.Difficulty || first.Game.Total != daily.Difficulty.WordCount() {
		t.Fatalf("daily game = %+v", first.Game)
	}

	again := decode[dailyOut](t, c.do("POST", "/daily/new", nil))
	if again.Game == nil || again.Game.GameID != first.Game.GameID {
		t.Fatal("second /daily/new should resume the session")
	}

	// Every player gets the same grid.
	other := decode[dailyOut](t, newClient(t, s).do("POST", "/daily/new", nil))
	if other.Game == nil || strings.Join(other.Game.Rows, "") != strings.Join(first.Game.Rows, "") {
		t.Fatal("daily grids differ between players")
	}
	if other.Game.GameID == first.Game.GameID {
		t.Fatal("players should not share a session")
	}

	p := todaysPuzzle(t, s, clock.Now())
	if strings.Join(p.Grid.Rows(), "") != strings.Join(first.Game.Rows, "") {
		t.Fatal("daily grid is not reproducible from its seed")
	}

	if w := c.do("POST", "/daily/select", selectBody{GameID: "bogus", Cells: p.AllWords()[0].Positions()}); w.Code != http.StatusConflict {
		t.Fatalf("wrong game id: %d", w.Code)
	}

	var last selectOut
	for _, word := range p.AllWords() {
		clock.Advance(3 * time.Second)
		w := c.do("POST", "/daily/select", selectBody{GameID: first.Game.GameID, Cells: word.Positions()})
		if w.Code != http.StatusOK {
			t.Fatalf("select %s: %d %s", word.Text, w.Code, w.Body.String())
		}
		last = decode[selectOut](t, w)
		if !last.Match {
			t.Fatalf("%s did not match", word.Text)
		}
	}
	if last.State != game.StateWon {
		t.Fatalf("final state = %s", last.State)
	}

	done := decode[dailyOut](t, c.do("POST", "/daily/new", nil))
	if !done.Played || done.Game != nil {
		t.Fatalf("after finishing = %+v", done)
	}

	lb := decode[lbRes](t, c.do("GET", "/daily/leaderboard", nil))
	if lb.Date != "2026-03-01" || len(lb.Top) != 1 {
		t.Fatalf("leaderboard = %+v", lb)
	}
	want := int((time.Duration(len(p.AllWords())) * 3 * time.Second).Milliseconds())
	if lb.Top[0].WordsFound != daily.Difficulty.WordCount() || lb.Top[0].ElapsedMs != want {
		t.Fatalf("row = %+v, want elapsed %d", lb.Top[0], want)
	}

	empty := decode[lbRes](t, c.do("GET", "/daily/leaderboard?date=2026-02-28", nil))
	if empty.Top == nil || len(empty.Top) != 0 {
		t.Fatalf("other day = %+v", empty)
	}
}

func TestDailyTimeout(t *testing.T) {
	s, clock := newTestServer(t)
	c := newClient(t, s)
	first := decode[dailyOut](t, c.do("POST", "/daily/new", nil))

	clock.Advance(daily.Difficulty.TimeLimit() + time.Minute)
	w := c.do("POST", "/daily/select", selectBody{GameID: first.Game.GameID, Cells: []game.Position{{}, {}, {}}})
	if w.Code != http.StatusConflict || !strings.Contains(w.Body.String(), "time_expired") {
		t.Fatalf("expired: %d %s", w.Code, w.Body.String())
	}
	lb := decode[lbRes](t, c.do("GET", "/daily/leaderboard", nil))
	if len(lb.Top) != 1 || lb.Top[0].WordsFound != 0 {
		t.Fatalf("leaderboard = %+v", lb)
	}
	if lb.Top[0].ElapsedMs != int(daily.Difficulty.TimeLimit().Milliseconds()) {
		t.Fatalf("elapsed = %d", lb.Top[0].ElapsedMs)
	}
}

func TestDailyResumeAfterTimeoutRecords(t *testing.T) {
	s, clock := newTestServer(t)
	c := newClient(t, s)
	first := decode[dailyOut](t, c.do("POST", "/daily/new", nil))
	if first.Game == nil {
		t.Fatal("no daily game")
	}

	clock.Advance(daily.Difficulty.TimeLimit() + time.Second)
	again := decode[dailyOut](t, c.do("POST", "/daily/new", nil))
	if !again.Played || again.Game != nil {
		t.Fatalf("resume after timeout = %+v", again)
	}
	lb := decode[lbRes](t, c.do("GET", "/daily/leaderboard", nil))
	if len(lb.Top) != 1 || lb.Top[0].WordsFound != 0 {
		t.Fatalf("leaderboard = %+v", lb)
	}
}

func TestDailySweepRecordsAbandonedSessions(t *testing.T) {
	s, clock := newTestServer(t)
	c := newClient(t, s)
	c.do("POST", "/daily/new", nil)

	clock.Advance(daily.Difficulty.TimeLimit() + time.Second)
	s.Sweep(context.Background(), clock.Now())

	lb := decode[lbRes](t, c.do("GET", "/daily/leaderboard", nil))
	if len(lb.Top) != 1 || lb.Top[0].ElapsedMs != int(daily.Difficulty.TimeLimit().Milliseconds()) {
		t.Fatalf("leaderboard = %+v", lb)
	}
	if len(s.daily.sessions) != 0 || len(s.daily.current) != 0 {
		t.Fatal("finished daily sessions should be dropped")
	}
	if out := decode[dailyOut](t, c.do("POST", "/daily/new", nil)); !out.Played {
		t.Fatalf("after sweep = %+v", out)
	}
}

func TestDailySessionFollowsSignIn(t *testing.T) {
	s, clock := newTestServer(t)
	c := newClient(t, s)
	first := decode[dailyOut](t, c.do("POST", "/daily/new", nil))
	p := todaysPuzzle(t, s, clock.Now())
	ws := p.AllWords()

	if out := decode[selectOut](t, c.do("POST", "/daily/select", selectBody{GameID: first.Game.GameID, Cells: ws[0].Positions()})); !out.Match {
		t.Fatalf("guest select = %+v", out)
	}
	u := c.signup("frank", "password123")

	resumed := decode[dailyOut](t, c.do("POST", "/daily/new", nil))
	if resumed.Game == nil || resumed.Game.GameID != first.Game.GameID || resumed.Game.Found != 1 {
		t.Fatalf("resumed = %+v", resumed)
	}
	for _, w := range ws[1:] {
		out := decode[selectOut](t, c.do("POST", "/daily/select", selectBody{GameID: first.Game.GameID, Cells: w.Positions()}))
		if !out.Match {
			t.Fatalf("%s after sign in = %+v", w.Text, out)
		}
	}
	lb := decode[lbRes](t, c.do("GET", "/daily/leaderboard", nil))
	if len(lb.Top) != 1 || lb.Top[0].UserID != u.ID || lb.Top[0].WordsFound != len(ws) {
		t.Fatalf("leaderboard = %+v", lb)
	}

	// Someone else cannot play this session.
	other := newClient(t, s)
	if w := other.do("POST", "/daily/select", selectBody{GameID: first.Game.GameID, Cells: ws[0].Positions()}); w.Code != http.StatusConflict {
		t.Fatalf("foreign select: %d", w.Code)
	}
}

func TestDailySessionSurvivesMidnight(t *testing.T) {
	s, clock := newTestServer(t)
	clock.Advance(12*time.Hour - time.Minute) // 23:59 UTC
	c := newClient(t, s)
	first := decode[dailyOut](t, c.do("POST", "/daily/new", nil))
	p := todaysPuzzle(t, s, clock.Now())

	clock.Advance(2 * time.Minute)
	var last selectOut
	for _, w := range p.AllWords() {
		last = decode[selectOut](t, c.do("POST", "/daily/select", selectBody{GameID: first.Game.GameID, Cells: w.Positions()}))
		if !last.Match {
			t.Fatalf("%s after midnight = %+v", w.Text, last)
		}
	}
	if last.State != game.StateWon {
		t.Fatalf("state = %s", last.State)
	}
	lb := decode[lbRes](t, c.do("GET", "/daily/leaderboard?date="+first.Date, nil))
	if len(lb.Top) != 1 {
		t.Fatalf("leaderboard for %s = %+v", first.Date, lb)
	}
	next := decode[dailyOut](t, c.do("POST", "/daily/new", nil))
	if next.Played || next.Date == first.Date || next.Game == nil {
		t.Fatalf("next day = %+v", next)
	}
}
