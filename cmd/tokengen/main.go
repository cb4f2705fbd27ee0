// Package main provides an operator helper that mints a bearer token for
// a user id. Users are provisioned out-of-band; this is the matching way
// to hand out credentials.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/auth"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/config"
)

func main() {
	settingsPath := flag.String("settings", "", "Path to YAML settings file (optional)")
	userID := flag.Int64("user", 0, "User id to issue the token for (required)")
	ttl := flag.Duration("ttl", 0, "Token lifetime (default: configured TOKEN_TTL)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	if *userID <= 0 {
		log.Fatal().Msg("--user is required")
	}

	cfg, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if cfg.SecretKey == "" {
		log.Fatal().Msg("SECRET_KEY is required to sign tokens")
	}

	tokens := auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL.Std())

	var token string
	if *ttl > 0 {
		token, err = tokens.IssueWithTTL(*userID, *ttl)
	} else {
		token, err = tokens.Issue(*userID)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue token")
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.TokenTTL.Std()
	}
	log.Info().Int64("user_id", *userID).Str("expires_in", lifetime.String()).Msg("Token issued")
	fmt.Println(token)
}
