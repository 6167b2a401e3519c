// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's puzzle (creates or reuses session)
//   - POST /daily/select      → submit a selection for today's puzzle
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player gets one result per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play, keyed by game id, and persisted
// to DB once finished: on the final word, on a late selection, on a resume
// after the clock ran out, or by the server's sweep.
// The grid is deterministic: seed and category derive from date + salt.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/generator"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by game id
	current  map[string]string        // userID|date -> game id
	mu       sync.Mutex               // guards sessions and current
}

// dailySession holds transient in-memory state for an in-progress daily game.
// Date is the puzzle's day, fixed when the session starts.
type dailySession struct {
	UserID string
	Date   string
	Game   *game.Game
}

func sessionKey(userID, date string) string { return userID + "|" + date }

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
		current:  make(map[string]string),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/select", dd.handleSelect)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// generate builds the puzzle for date. Options other than the seed follow
// the server's generator.
func (d *dailyServer) generate(date time.Time) (*game.Puzzle, error) {
	opts := d.srv.gen.Options()
	opts.Seed = daily.Seed(date, d.salt)
	return generator.New(&opts).Generate(daily.Category(date, d.salt), daily.Difficulty, d.srv.words)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Game   *game.View `json:"game,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
// - If player already has a DB row for today → return Played=true.
// - A resumed session whose clock ran out is recorded and reported as played.
// - Otherwise create/reuse an in-memory session and return its view.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)

	if sess := d.lookup(uid, date); sess != nil {
		if d.record(r.Context(), sess, now) {
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
			return
		}
		if sess.Game.State(now) == game.StatePlaying {
			v := sess.Game.View(now)
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &v})
			return
		}
	}

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	p, err := d.generate(now)
	if err != nil {
		writeGenerationError(w, err, daily.Category(now, d.salt), daily.Difficulty)
		return
	}
	sess := &dailySession{UserID: uid, Date: date, Game: game.New(p, now)}

	d.mu.Lock()
	key := sessionKey(uid, date)
	// A concurrent request may have won the race.
	if prev, ok := d.sessions[d.current[key]]; ok && prev.Game.State(now) == game.StatePlaying {
		sess = prev
	} else {
		d.sessions[sess.Game.ID] = sess
		d.current[key] = sess.Game.ID
	}
	d.mu.Unlock()

	v := sess.Game.View(now)
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &v})
}

// lookup returns the player's session for date, if any.
func (d *dailyServer) lookup(userID, date string) *dailySession {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessions[d.current[sessionKey(userID, date)]]
}

// claim hands a guest's daily sessions to an account after sign in. The
// account keeps its own session for a day when it already has one.
func (d *dailyServer) claim(anonID, userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, sess := range d.sessions {
		if sess.UserID != anonID {
			continue
		}
		sess.UserID = userID
		key := sessionKey(userID, sess.Date)
		if _, taken := d.sessions[d.current[key]]; !taken {
			d.current[key] = id
		}
		delete(d.current, sessionKey(anonID, sess.Date))
	}
}

// sweep records finished sessions and forgets them.
func (d *dailyServer) sweep(ctx context.Context, now time.Time) {
	d.mu.Lock()
	all := make([]*dailySession, 0, len(d.sessions))
	for _, sess := range d.sessions {
		all = append(all, sess)
	}
	d.mu.Unlock()

	for _, sess := range all {
		d.record(ctx, sess, now)
		if sess.Game.State(now) == game.StatePlaying {
			continue
		}
		d.mu.Lock()
		delete(d.sessions, sess.Game.ID)
		key := sessionKey(sess.UserID, sess.Date)
		if d.current[key] == sess.Game.ID {
			delete(d.current, key)
		}
		d.mu.Unlock()
	}
}

// -----------------------------------------------------------------------------
// /daily/select

// handleSelect validates a selection for the caller's daily session.
// - Rejects if the game id is unknown or belongs to another player.
// - Persists a result once the puzzle is completed or the clock runs out.
func (d *dailyServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	req, ok := decodeSelect(w, r)
	if !ok {
		return
	}
	now := d.srv.now()

	d.mu.Lock()
	sess, ok := d.sessions[req.GameID]
	if ok && sess.UserID != uid {
		ok = false
	}
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	res, err := sess.Game.Submit(req.selection(), now)
	d.record(r.Context(), sess, now)
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

// record persists the session's result the first time its game is over and
// reports whether it did.
func (d *dailyServer) record(ctx context.Context, sess *dailySession, now time.Time) bool {
	res, ok := sess.Game.Conclude(now)
	if !ok {
		return false
	}

	d.mu.Lock()
	userID := sess.UserID
	d.mu.Unlock()

	elapsed := now.Sub(sess.Game.StartedAt)
	if limit := sess.Game.TimeLimit; limit > 0 && elapsed > limit {
		elapsed = limit
	}
	err := d.store.InsertResult(ctx, daily.Result{
		UserID:     userID,
		Date:       sess.Date,
		Category:   string(sess.Game.Puzzle.Category),
		WordsFound: res.Found,
		WordsTotal: res.Total,
		ElapsedMs:  int(elapsed.Milliseconds()),
	})
	if err != nil {
		log.Warn().Err(err).Str("user", userID).Str("date", sess.Date).Msg("insert daily result")
	}
	return true
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
