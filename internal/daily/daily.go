package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordsearch/internal/game"
)

// Difficulty is the fixed difficulty of the daily puzzle.
const Difficulty = game.Medium

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// digest is HMAC-SHA256(salt, YYYY-MM-DD).
func digest(date time.Time, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	return h.Sum(nil)
}

// Seed returns the generator seed for a date. It is never zero, since a
// zero seed asks the generator for a random one.
func Seed(date time.Time, salt string) int64 {
	n := int64(binary.BigEndian.Uint64(digest(date, salt)[:8]) >> 1)
	if n == 0 {
		n = 1
	}
	return n
}

// Category picks the day's category from the second half of the digest.
func Category(date time.Time, salt string) game.Category {
	cs := game.Categories()
	n := binary.BigEndian.Uint64(digest(date, salt)[8:16])
	return cs[int(n%uint64(len(cs)))]
}
