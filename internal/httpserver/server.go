// internal/httpserver/server.go
//
// HTTP server wiring for the word search backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, request logs).
//   - Public endpoints: "/", "/health", "/categories".
//   - Game endpoints (optional auth): POST /game/new, POST /game/select, GET /game/{id}.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth, stats, score ranking and preference endpoints (auth.go, routes_scores.go).
//   - Database persistence for games and user stats.
//
// Notes:
//   - Live sessions stay in the in-memory store; SQLite only sees progress rows.
//   - A GenerationFailure is reported as 503 generation_failed so clients can retry
//     with the same or a different category/difficulty.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/generator"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

// maxSelectionCells bounds the cells accepted in one selection or raw path.
const maxSelectionCells = 512

// Server bundles router, in-memory game store, DB handle and the puzzle generator.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	users *userStore
	auth  authConfig
	gen   *generator.Generator
	words generator.WordSource
	now   func() time.Time
	daily *dailyServer
}

// Option customizes a Server.
type Option func(*Server)

// WithGenerator replaces the default generator.
func WithGenerator(g *generator.Generator) Option { return func(s *Server) { s.gen = g } }

// WithClock replaces time.Now (useful for tests of timed sessions).
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, src generator.WordSource, opts ...Option) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		db:    db,
		users: &userStore{db: db},
		auth:  loadAuthConfig(),
		gen:   generator.New(nil),
		words: src,
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.words == nil {
		s.words = defaultWords()
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordsearch-go","endpoints":["/health","/categories","POST /game/new","POST /game/select","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/categories", s.handleCategories)

	// Game endpoints: optional auth, guests can play
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/select", s.handleSelect)
	s.r.With(s.withOptionalAuth()).Get("/game/{id}", s.handleGetGame)

	// Daily challenge: optional auth, results persisted on finish
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth), public ranking
	s.mountAuthRoutes()
	s.mountScoreRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP lets the Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ----------------------------- categories ----------------------------------

type categoryRes struct {
	Key   game.Category `json:"key"`
	Label string        `json:"label"`
	Words int           `json:"words"`
}

type difficultyRes struct {
	Key          game.Difficulty `json:"key"`
	Words        int             `json:"words"`
	Directions   []string        `json:"directions"`
	TimeLimitSec int             `json:"timeLimitSec"`
}

// handleCategories lists categories (with pool sizes) and difficulty profiles.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := make([]categoryRes, 0, len(game.Categories()))
	for _, c := range game.Categories() {
		cats = append(cats, categoryRes{Key: c, Label: c.Label(), Words: len(s.words.WordsForCategory(c))})
	}
	diffs := make([]difficultyRes, 0, 3)
	for _, d := range game.Difficulties() {
		dirs := []string{}
		for _, x := range d.Directions() {
			dirs = append(dirs, x.String())
		}
		diffs = append(diffs, difficultyRes{
			Key:          d,
			Words:        d.WordCount(),
			Directions:   dirs,
			TimeLimitSec: int(d.TimeLimit() / time.Second),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats, "difficulties": diffs})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq is the payload for POST /game/new.
type newGameReq struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// handleNewGame generates a puzzle, starts an in-memory session and persists a
// DB "owner" row (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	cat, err := game.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_category")
		return
	}
	diff, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_difficulty")
		return
	}

	p, err := s.gen.Generate(cat, diff, s.words)
	if err != nil {
		writeGenerationError(w, err, cat, diff)
		return
	}
	g := game.New(p, s.now())
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	owner := s.owner(w, r)
	_, err = s.db.ExecContext(r.Context(),
		`INSERT INTO games (id, `+owner.column+`, category, difficulty, started_at, status, words_total)
		 VALUES (?,?,?,?,?,?,?)`,
		g.ID, owner.id, string(cat), string(diff), g.StartedAt.UTC().Format(time.RFC3339), string(game.StatePlaying), p.TotalCount())
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	writeJSON(w, http.StatusOK, g.View(s.now()))
}

// handleGetGame returns the current view of a session. Reading a session
// whose clock has run out records the loss.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	now := s.now()
	s.settle(r.Context(), g, now)
	writeJSON(w, http.StatusOK, g.View(now))
}

// selectReq is the payload for POST /game/select and /daily/select.
// With Trace set, Cells is a raw pointer path folded into a straight line
// before validation.
type selectReq struct {
	GameID string          `json:"gameId"`
	Cells  []game.Position `json:"cells"`
	Trace  bool            `json:"trace"`
}

// selection returns the selection to validate.
func (q selectReq) selection() game.Selection {
	if q.Trace {
		return game.TracePath(q.Cells)
	}
	return game.Selection(q.Cells)
}

type selectedWord struct {
	ID    string          `json:"id"`
	Text  string          `json:"text"`
	Cells []game.Position `json:"cells"`
}

type selectRes struct {
	game.Result
	Word *selectedWord `json:"word,omitempty"`
}

func newSelectRes(res game.Result) selectRes {
	out := selectRes{Result: res}
	if res.Word != nil {
		out.Word = &selectedWord{ID: res.Word.ID, Text: res.Word.Text, Cells: res.Word.Positions()}
	}
	return out
}

// decodeSelect reads and bounds a selection request.
func decodeSelect(w http.ResponseWriter, r *http.Request) (selectReq, bool) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return req, false
	}
	if req.GameID == "" {
		writeError(w, http.StatusBadRequest, "missing_game_id")
		return req, false
	}
	if len(req.Cells) > maxSelectionCells {
		writeError(w, http.StatusBadRequest, "too_many_cells")
		return req, false
	}
	return req, true
}

// handleSelect validates a selection against a session, persists progress,
// and (if finished) records the outcome and the owner's stats.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSelect(w, r)
	if !ok {
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	now := s.now()
	res, err := g.Submit(req.selection(), now)
	if res.Match && res.State == game.StatePlaying {
		s.saveProgress(r.Context(), g.ID, res)
	}
	s.settle(r.Context(), g, now)
	switch {
	case errors.Is(err, game.ErrTimeExpired):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "time_expired", "state": res.State})
		return
	case errors.Is(err, game.ErrGameFinished):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "game_finished", "state": res.State})
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newSelectRes(res))
}

// saveProgress mirrors the found/score counters of a running game.
func (s *Server) saveProgress(ctx context.Context, id string, res game.Result) {
	_, err := s.db.ExecContext(ctx, `UPDATE games SET words_found=?, score=? WHERE id=? AND status='playing'`,
		res.Found, res.Score, id)
	if err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("update progress")
	}
}

// settle records a finished game once: its final row and, when the row
// belongs to an account, that account's stats.
func (s *Server) settle(ctx context.Context, g *game.Game, now time.Time) {
	res, ok := g.Conclude(now)
	if !ok {
		return
	}
	if err := s.finishGame(ctx, g.ID, res, now); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("finish game")
	}
}

// finishGame closes a games row that is still playing. The status guard
// keeps stats from being counted twice for one game.
func (s *Server) finishGame(ctx context.Context, id string, res game.Result, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	out, err := tx.ExecContext(ctx, `
		UPDATE games SET status=?, finished_at=?, words_found=?, score=?
		WHERE id=? AND status='playing'`,
		string(res.State), now.UTC().Format(time.RFC3339), res.Found, res.Score, id)
	if err != nil {
		return err
	}
	if n, err := out.RowsAffected(); err != nil || n == 0 {
		return err
	}

	var userID sql.NullString
	if err := tx.QueryRowContext(ctx, `SELECT user_id FROM games WHERE id=?`, id).Scan(&userID); err != nil {
		return err
	}
	if userID.Valid {
		if err := s.users.recordFinish(ctx, tx, userID.String, res.State == game.StateWon, res.Score); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Sweep records every session whose clock ran out, daily ones included,
// then drops sessions started before cutoff.
func (s *Server) Sweep(ctx context.Context, cutoff time.Time) {
	now := s.now()
	live, err := s.store.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("list sessions")
	}
	for _, g := range live {
		s.settle(ctx, g, now)
	}
	if s.daily != nil {
		s.daily.sweep(ctx, now)
	}
	n, err := s.store.Prune(ctx, cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("prune sessions")
		return
	}
	if n > 0 {
		log.Debug().Int("pruned", n).Msg("pruned sessions")
	}
}

// gameOwner identifies who a games row belongs to.
type gameOwner struct {
	column string // "user_id" or "anonymous_id"
	id     string
}

// owner resolves the signed-in user or the guest cookie.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) gameOwner {
	if me := currentUser(r); me != nil {
		return gameOwner{column: "user_id", id: me.ID}
	}
	return gameOwner{column: "anonymous_id", id: s.ensureAnonID(w, r)}
}

// writeGenerationError maps generator failures to a retryable 503.
func writeGenerationError(w http.ResponseWriter, err error, c game.Category, d game.Difficulty) {
	if errors.Is(err, generator.ErrGenerationFailed) {
		log.Warn().Err(err).Str("category", string(c)).Str("difficulty", string(d)).Msg("generation failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "generation_failed", "retryable": true})
		return
	}
	log.Error().Err(err).Msg("generate puzzle")
	writeError(w, http.StatusInternalServerError, "generate_failed")
}

// ------------------------------- small util --------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// defaultWords is the word source used when none is supplied.
func defaultWords() generator.WordSource { return words.Default() }
