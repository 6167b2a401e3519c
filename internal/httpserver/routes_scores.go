// internal/httpserver/routes_scores.go
//
// Player-facing history and ranking routes:
//   - GET /stats/me    (auth) → counters from the users row
//   - GET /games/mine  (auth) → 50 most recent games
//   - GET /scores/top         → best finished games, filterable by category/difficulty
//   - GET/PUT /prefs/me (auth) → display theme

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
)

// mountScoreRoutes registers stats, history, ranking and preference routes.
func (s *Server) mountScoreRoutes() {
	s.r.With(s.requireAuth()).Get("/stats/me", s.handleStats)
	s.r.With(s.requireAuth()).Get("/games/mine", s.handleMyGames)
	s.r.Get("/scores/top", s.handleTopScores)
	s.r.With(s.requireAuth()).Get("/prefs/me", s.handleGetPrefs)
	s.r.With(s.requireAuth()).Put("/prefs/me", s.handlePutPrefs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	u, err := s.users.byID(r.Context(), me.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          u.ID,
		"gamesPlayed": u.GamesPlayed,
		"wins":        u.Wins,
		"streak":      u.Streak,
		"bestScore":   u.BestScore,
	})
}

type gameRow struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Status     string `json:"status"`
	WordsFound int    `json:"wordsFound"`
	WordsTotal int    `json:"wordsTotal"`
	Score      int    `json:"score"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// handleMyGames lists the caller's recent games, newest first.
func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, category, difficulty, status, words_found, words_total, score, started_at, COALESCE(finished_at,'')
		 FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT 50`, me.ID)
	if err != nil {
		log.Error().Err(err).Msg("list games")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	defer rows.Close()

	out := []gameRow{}
	for rows.Next() {
		var gr gameRow
		if err := rows.Scan(&gr.ID, &gr.Category, &gr.Difficulty, &gr.Status,
			&gr.WordsFound, &gr.WordsTotal, &gr.Score, &gr.StartedAt, &gr.FinishedAt); err == nil {
			out = append(out, gr)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type topScore struct {
	GameID     string `json:"gameId"`
	Username   string `json:"username"` // empty for guests
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Status     string `json:"status"`
	WordsFound int    `json:"wordsFound"`
	Score      int    `json:"score"`
	FinishedAt string `json:"finishedAt"`
}

// handleTopScores ranks finished games by score.
// Query: category, difficulty (optional filters), limit (1..100, default 20).
func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	where := []string{"g.status <> 'playing'"}
	args := []any{}

	if v := q.Get("category"); v != "" {
		c, err := game.ParseCategory(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown_category")
			return
		}
		where = append(where, "g.category=?")
		args = append(args, string(c))
	}
	if v := q.Get("difficulty"); v != "" {
		d, err := game.ParseDifficulty(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown_difficulty")
			return
		}
		where = append(where, "g.difficulty=?")
		args = append(args, string(d))
	}
	limit := 20
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(r.Context(),
		`SELECT g.id, COALESCE(u.username,''), g.category, g.difficulty, g.status, g.words_found, g.score, COALESCE(g.finished_at,'')
		 FROM games g LEFT JOIN users u ON u.id = g.user_id
		 WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY g.score DESC, g.finished_at ASC
		 LIMIT ?`, args...)
	if err != nil {
		log.Error().Err(err).Msg("top scores")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	defer rows.Close()

	out := []topScore{}
	for rows.Next() {
		var t topScore
		if err := rows.Scan(&t.GameID, &t.Username, &t.Category, &t.Difficulty, &t.Status,
			&t.WordsFound, &t.Score, &t.FinishedAt); err == nil {
			out = append(out, t)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------------------ preferences --------------------------------

type prefs struct {
	Theme string `json:"theme"`
}

func validTheme(t string) bool {
	switch t {
	case "light", "dark", "system":
		return true
	}
	return false
}

// handleGetPrefs returns stored preferences, or the defaults.
func (s *Server) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	p := prefs{Theme: "system"}
	err := s.db.QueryRowContext(r.Context(), `SELECT theme FROM preferences WHERE user_id=?`, me.ID).Scan(&p.Theme)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Msg("load prefs")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handlePutPrefs upserts the caller's preferences.
func (s *Server) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	var p prefs
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p.Theme = strings.ToLower(strings.TrimSpace(p.Theme))
	if !validTheme(p.Theme) {
		writeError(w, http.StatusBadRequest, "invalid_theme")
		return
	}
	_, err := s.db.ExecContext(r.Context(),
		`INSERT INTO preferences (user_id, theme, updated_at) VALUES (?,?,?)
		 ON CONFLICT(user_id) DO UPDATE SET theme=excluded.theme, updated_at=excluded.updated_at`,
		me.ID, p.Theme, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		log.Error().Err(err).Msg("save prefs")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
