package daily

import (
	"context"
	"database/sql"
)

// Result is one player's outcome for one day's puzzle.
type Result struct {
	UserID     string `json:"userId"`
	Date       string `json:"date"`
	Category   string `json:"category"`
	WordsFound int    `json:"wordsFound"`
	WordsTotal int    `json:"wordsTotal"`
	ElapsedMs  int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether a result is recorded for userID on date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same player and day is
// ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, category, words_found, words_total, elapsed_ms)
		VALUES(?,?,?,?,?,?)`, r.UserID, r.Date, r.Category, r.WordsFound, r.WordsTotal, r.ElapsedMs,
	)
	return err
}

type LBRow struct {
	UserID     string `json:"userId"`
	WordsFound int    `json:"wordsFound"`
	ElapsedMs  int    `json:"elapsedMs"`
}

// Leaderboard ranks a day's results: most words first, then fastest.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, words_found, elapsed_ms
		FROM daily_results
		WHERE date=?
		ORDER BY words_found DESC, elapsed_ms ASC, created_at ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.WordsFound, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
