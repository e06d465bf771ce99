// Command token mints a bearer token for an API client using the configured
// JWT secret.
// Usage: go run ./cmd/token <client-name>
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"medbill/internal/config"
	"medbill/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: token <client-name>")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Auth.Enabled() {
		return fmt.Errorf("MEDBILL_AUTH_JWT_SECRET is not set")
	}

	token, err := service.NewAuthService(cfg.Auth).IssueToken(os.Args[1])
	if err != nil {
		return err
	}
	fmt.Println(token.AccessToken)
	log.Printf("Token for %s expires at %s", os.Args[1], token.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}
