// Command migrate applies, rolls back or repairs the database schema.
//
//	migrate [flags] up|down|version
//	migrate [flags] force <version>
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/infrastructure/config"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/infrastructure/logging"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/pkg/migration"
	"go.uber.org/zap"
)

type migrator interface {
	Up() error
	Down() error
	Force(version int) error
	Version() (uint, bool, error)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg := config.Load()

	var path string
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.StringVar(&path, "path", cfg.MigrationsPath, "directory holding the SQL migrations")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	logger, err := logging.New(cfg.Log.Env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	runner := migration.NewRunner(&migration.Config{
		MigrationsPath: path,
		DatabaseURL:    cfg.Database.URL(),
		Logger:         logger,
	})
	return execute(runner, flagSet.Args(), out, logger)
}

func execute(m migrator, args []string, out io.Writer, logger *zap.Logger) error {
	if len(args) == 0 {
		return errors.New("missing command: up, down, force or version")
	}

	switch cmd := args[0]; cmd {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "force":
		if len(args) != 2 {
			return errors.New("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil || version < 0 {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.Force(version)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		logger.Debug("schema version read", zap.Uint("version", version), zap.Bool("dirty", dirty))
		_, err = fmt.Fprintf(out, "version=%d dirty=%t\n", version, dirty)
		return err
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
