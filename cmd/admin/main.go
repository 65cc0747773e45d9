// Command admin creates an administrator account, or promotes an existing
// one, for the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	identityapp "github.com/bizdesk/backend/internal/application/identity"
	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/infrastructure/mail"
	"github.com/bizdesk/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		email    string
		username string
		logLevel string
	)
	flag.StringVar(&email, "email", "", "Email of the administrator (required)")
	flag.StringVar(&username, "username", "admin", "Username used when the account is created")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if email == "" {
		fmt.Fprintln(os.Stderr, "Usage: admin -email <address> [-username <name>]")
		os.Exit(2)
	}

	log := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if db.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database schema", zap.Error(err))
		}
	}

	mailer, err := mail.New(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	svc := identityapp.NewAdminService(
		persistence.NewGormUserRepository(db.DB),
		mailer,
		mail.NewTemplates(cfg.App.FrontendURL),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := svc.EnsureAdmin(ctx, email, username)
	if err != nil {
		log.Fatal("Failed to ensure admin account", zap.String("email", email), zap.Error(err))
	}

	if !result.Created {
		fmt.Printf("Promoted %s (%s) to ADMIN\n", result.User.Email, result.User.ID)
		return
	}
	fmt.Printf("Created ADMIN %s (%s)\n", result.User.Email, result.User.ID)
	if !cfg.Mail.Enabled {
		// Nothing was mailed, so this is the only place the password appears
		fmt.Printf("Temporary password: %s\n", result.TemporaryPassword)
	}
}
