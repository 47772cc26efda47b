package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/edgepuzzle/internal/catalog"
	"github.com/robalobadob/edgepuzzle/internal/httpserver"
	"github.com/robalobadob/edgepuzzle/internal/puzzle"
	"github.com/robalobadob/edgepuzzle/internal/results"
	"github.com/robalobadob/edgepuzzle/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cat, err := catalog.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load piece catalog")
	}
	if _, ok := puzzle.WinningNumber(cat.Len()); !ok {
		log.Warn().Int("pieces", cat.Len()).Msg("catalog is not a perfect square; puzzles cannot be won")
	}

	db, err := results.OpenDB(getEnv("DB_PATH", "./data/puzzle.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := results.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	srv := httpserver.New(store.NewMemoryStore(), cat, results.NewStore(db), httpserver.Config{
		JWTSecret: getEnv("PUZZLE_JWT_SECRET", "dev_secret_change_me"),
		TokenTTL:  time.Duration(getEnvInt("PUZZLE_TOKEN_HOURS", 24)) * time.Hour,
		Timings:   timingsFromEnv(),
	})
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Str("catalog", cat.Name).Int("pieces", cat.Len()).Msg("starting puzzle server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// timingsFromEnv overrides the default settle delays (milliseconds).
func timingsFromEnv() puzzle.Timings {
	t := puzzle.DefaultTimings()
	ms := func(k string, def time.Duration) time.Duration {
		return time.Duration(getEnvInt(k, int(def.Milliseconds()))) * time.Millisecond
	}
	t.FailureSettle = ms("PUZZLE_FAILURE_SETTLE_MS", t.FailureSettle)
	t.ReturnDuration = ms("PUZZLE_RETURN_MS", t.ReturnDuration)
	t.WinCue = ms("PUZZLE_WIN_CUE_MS", t.WinCue)
	t.WinNotice = ms("PUZZLE_WIN_NOTICE_MS", t.WinNotice)
	t.WinNoticeFade = ms("PUZZLE_WIN_FADE_MS", t.WinNoticeFade)
	return t
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring invalid integer")
	}
	return def
}
