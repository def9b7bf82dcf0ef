package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"ticketescrow/accounts"
	"ticketescrow/entities"
)

const (
	DefaultProgramID = "HK43FpG11qhqwHZT8ZuKqn8FPFpbYJj59QL1qvFpm1tx"
	DefaultHTTPAddr  = ":8080"

	ReserveModeRent = "rent"
	ReserveModeZero = "zero"
)

type Config struct {
	PostgresURL    string
	RedisAddr      string
	HTTPAddr       string
	ProgramID      entities.Address
	JaegerEndpoint string

	FaucetEnabled     bool
	ReserveMode       string
	RebuildReadModels bool
}

// Load reads the configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("could not load .env: %w", err)
	}

	programID, err := entities.ParseAddress(envStr("PROGRAM_ID", DefaultProgramID))
	if err != nil {
		return Config{}, fmt.Errorf("invalid PROGRAM_ID: %w", err)
	}

	cfg := Config{
		PostgresURL:       os.Getenv("POSTGRES_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		HTTPAddr:          envStr("HTTP_ADDR", DefaultHTTPAddr),
		ProgramID:         programID,
		JaegerEndpoint:    os.Getenv("JAEGER_ENDPOINT"),
		FaucetEnabled:     envBool("FAUCET_ENABLED", false),
		ReserveMode:       envStr("RESERVE_MODE", ReserveModeRent),
		RebuildReadModels: envBool("REBUILD_READ_MODELS", false),
	}

	if cfg.PostgresURL == "" {
		return Config{}, errors.New("missing required env var: POSTGRES_URL")
	}
	if cfg.RedisAddr == "" {
		return Config{}, errors.New("missing required env var: REDIS_ADDR")
	}
	if cfg.ReserveMode != ReserveModeRent && cfg.ReserveMode != ReserveModeZero {
		return Config{}, fmt.Errorf("invalid RESERVE_MODE %q", cfg.ReserveMode)
	}

	return cfg, nil
}

func (c Config) Reserve() accounts.ReserveRule {
	if c.ReserveMode == ReserveModeZero {
		return accounts.ZeroReserve{}
	}
	return accounts.DefaultRentRule()
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d
	}
	return b
}
