// Command stafftoken prints a bearer token for GET /api/contacts.
package main

import (
	"contactform/pkg/config"
	"contactform/pkg/jwt"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"
)

func main() {
	var (
		subject string
		ttl     time.Duration
	)
	flag.StringVar(&subject, "sub", "", "Staff member the token is issued to (required)")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (default AUTH_TOKEN_TTL)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}
	if ttl == 0 {
		ttl = cfg.Auth.TokenTTL
	}

	token, err := jwt.NewJWTProvider(cfg.Auth.JWTSecret, ttl).GenerateStaffToken(subject)
	if err != nil {
		slog.Error("cannot issue token", "sub", subject, "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
