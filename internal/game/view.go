package game

import "time"

// WordView is the client-facing form of a word. Cells are only filled in
// for found words, or for every word once the game is over.
type WordView struct {
	ID     string     `json:"id"`
	Text   string     `json:"text"`
	Found  bool       `json:"found"`
	Cells  []Position `json:"cells,omitempty"`
	Length int        `json:"length"`
}

// View is a read-only snapshot of a session for rendering.
type View struct {
	GameID       string     `json:"gameId"`
	Category     Category   `json:"category"`
	Difficulty   Difficulty `json:"difficulty"`
	Size         int        `json:"size"`
	Rows         []string   `json:"rows"`
	Words        []WordView `json:"words"`
	Found        int        `json:"found"`
	Total        int        `json:"total"`
	Score        int        `json:"score"`
	State        State      `json:"state"`
	TimeLimitSec int        `json:"timeLimitSec"`
	RemainingSec int        `json:"remainingSec"`
}

// View snapshots the session as of now.
func (g *Game) View(now time.Time) View {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Finished && g.expired(now) {
		g.finish(false, now)
	}

	p := g.Puzzle
	v := View{
		GameID:       g.ID,
		Category:     p.Category,
		Difficulty:   p.Difficulty,
		Size:         p.Grid.Size(),
		Rows:         p.Grid.Rows(),
		Words:        make([]WordView, 0, p.TotalCount()),
		Found:        p.FoundCount(),
		Total:        p.TotalCount(),
		Score:        g.Score,
		State:        g.state(),
		TimeLimitSec: int(g.TimeLimit / time.Second),
	}
	if !g.Finished {
		v.RemainingSec = int(g.remaining(now) / time.Second)
	}
	for _, w := range p.words {
		wv := WordView{ID: w.ID, Text: w.Text, Found: w.Found, Length: w.Len()}
		if w.Found || g.Finished {
			wv.Cells = w.Positions()
		}
		v.Words = append(v.Words, wv)
	}
	return v
}
