package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	errUsernameTaken = errors.New("username taken")
	errBadPassword   = errors.New("invalid username or password")
)

// userRow matches the users table shape.
type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	GamesPlayed  int
	Wins         int
	Streak       int
	BestScore    int
}

// userStore is the SQL side of player accounts.
type userStore struct{ db *sql.DB }

const userColumns = `id, username, password_hash, created_at, games_played, wins, streak, best_score`

// create validates, hashes and inserts a new account. The UNIQUE NOCASE
// index on username decides races between concurrent signups.
func (u *userStore) create(ctx context.Context, username, pw string) (*userRow, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	row := &userRow{ID: genID(), Username: username, PasswordHash: string(h), CreatedAt: time.Now().UTC().Truncate(time.Second)}
	_, err = u.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		row.ID, row.Username, row.PasswordHash, row.CreatedAt.Format(time.RFC3339))
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return nil, errUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// authenticate returns the account when pw matches its bcrypt hash.
func (u *userStore) authenticate(ctx context.Context, username, pw string) (*userRow, error) {
	row, err := u.byName(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, errBadPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(pw)) != nil {
		return nil, errBadPassword
	}
	return row, nil
}

func (u *userStore) byName(ctx context.Context, username string) (*userRow, error) {
	return scanUser(u.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username=?`, username))
}

func (u *userStore) byID(ctx context.Context, id string) (*userRow, error) {
	return scanUser(u.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id))
}

func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak, &u.BestScore); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// claimGames moves a guest's games onto an account.
func (u *userStore) claimGames(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := u.db.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

// recordFinish counts a finished game towards the account's totals:
// a win extends the streak, a loss resets it, best_score keeps the max.
func (u *userStore) recordFinish(ctx context.Context, tx *sql.Tx, userID string, won bool, score int) error {
	win := 0
	if won {
		win = 1
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE users SET
			games_played = games_played + 1,
			wins         = wins + ?1,
			streak       = CASE WHEN ?1 = 1 THEN streak + 1 ELSE 0 END,
			best_score   = MAX(best_score, ?2)
		WHERE id = ?3`, win, score, userID)
	return err
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	// bcrypt ignores bytes past 72.
	if len(p) < 8 || len(p) > 72 {
		return errors.New("password must be 8-72 chars")
	}
	return nil
}
