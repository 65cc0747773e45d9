// Command migrate manages the postgres schema through the versioned SQL
// migrations under migrations/.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

// schemaCommand runs against an open migrator
type schemaCommand struct {
	usage string
	args  int
	run   func(m *migration.Migrator, args []string, log *zap.Logger) error
}

var schemaCommands = map[string]schemaCommand{
	"up": {usage: "up", run: func(m *migration.Migrator, _ []string, _ *zap.Logger) error {
		return m.Up()
	}},
	"down": {usage: "down", run: func(m *migration.Migrator, _ []string, _ *zap.Logger) error {
		return m.Down()
	}},
	"step": {usage: "step <n>", args: 1, run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}},
	"goto": {usage: "goto <version>", args: 1, run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(v))
	}},
	"version": {usage: "version", run: func(m *migration.Migrator, _ []string, log *zap.Logger) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("Schema has no migrations applied")
			return nil
		}
		log.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}},
	"force": {usage: "force <version>", args: 1, run: func(m *migration.Migrator, args []string, log *zap.Logger) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		log.Warn("Overwriting recorded schema version", zap.Int("version", v))
		return m.Force(v)
	}},
}

func main() {
	var (
		dir      string
		logLevel string
		embedded bool
	)
	flag.StringVar(&dir, "path", "", "Migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&embedded, "embedded", false, "Apply the migrations compiled into the binary")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	name, rest := args[0], args[1:]

	log := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	defer func() { _ = log.Sync() }()

	dir, err := resolveDir(dir)
	if err != nil {
		log.Fatal("Failed to resolve migrations directory", zap.Error(err))
	}

	switch name {
	case "create":
		if len(rest) == 0 {
			log.Fatal("Usage: migrate create <name> [description]")
		}
		description := ""
		if len(rest) > 1 {
			description = rest[1]
		}
		mf, err := migration.CreateMigration(dir, rest[0], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Created migration", zap.String("version", mf.Version),
			zap.String("up", mf.UpPath), zap.String("down", mf.DownPath))
		return
	case "list":
		names, err := migration.ListMigrations(dir)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	cmd, ok := schemaCommands[name]
	if !ok {
		log.Error("Unknown command", zap.String("command", name))
		printUsage()
		os.Exit(2)
	}
	if len(rest) < cmd.args {
		log.Fatal("Missing argument", zap.String("usage", "migrate "+cmd.usage))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver == "sqlite" {
		log.Fatal("SQL migrations target postgres; SQLite schemas come from auto-migration")
	}

	source := dir
	if embedded {
		source = ""
	}
	if err := runSchemaCommand(cfg.Database.DSN(), source, cmd, rest, log); err != nil {
		log.Fatal("Migration failed", zap.String("command", name), zap.Error(err))
	}
}

func runSchemaCommand(dsn, source string, cmd schemaCommand, args []string, log *zap.Logger) error {
	db, err := migration.Open(dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	m, err := migration.New(db, source, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() { _ = m.Close() }()
	return cmd.run(m, args, log)
}

// resolveDir falls back to ./migrations, then to the repository layout
// around the executable
func resolveDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}
	candidates := []string{"migrations"}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "..", "..", "migrations"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return filepath.Abs(c)
		}
	}
	return filepath.Abs(candidates[0])
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: migrate [flags] <command> [arguments]

Schema commands (postgres, configured through DATABASE_URL or BIZ_DATABASE_*):
  up                    apply pending migrations
  down                  revert every migration
  step <n>              move n migrations; negative n reverts
  goto <version>        migrate to version
  version               print the applied version
  force <version>       record version without running SQL (clears dirty state)

File commands:
  create <name> [desc]  write a new up/down pair into the migrations directory
  list                  print the migration files found

Flags:
  -path dir             migrations directory (default ./migrations)
  -embedded             use the migrations compiled into the binary
  -log-level level      debug, info, warn or error
`)
}
