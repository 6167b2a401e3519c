package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/database"
	"github.com/robalobadob/wordsearch/internal/httpserver"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

// sessionTTL bounds how long an abandoned session stays in memory.
const sessionTTL = 2 * time.Hour

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	for c, n := range words.Stats() {
		log.Debug().Str("category", string(c)).Int("words", n).Msg("word list loaded")
	}

	db, err := database.OpenAndMigrate(getEnv("DB_PATH", "./data/wordsearch.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	srv := httpserver.New(store.NewMemoryStore(), db, words.Default())
	go janitor(context.Background(), srv)

	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting wordsearch server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// janitor records timed-out sessions and prunes stale ones every minute.
func janitor(ctx context.Context, srv *httpserver.Server) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			srv.Sweep(ctx, now.Add(-sessionTTL))
		}
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
