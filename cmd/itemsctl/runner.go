package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/itemkeeper/internal/logging"
	"github.com/dmitrijs2005/itemkeeper/internal/server/config"
	"github.com/dmitrijs2005/itemkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/itemkeeper/internal/server/services"
	"github.com/urfave/cli/v3"
)

// Runner holds the dependencies shared by every command.
type Runner struct {
	logger logging.Logger
	output io.Writer
	load   func() (*config.Config, error)
}

// RunnerOpts configures a Runner. Zero values get defaults.
type RunnerOpts struct {
	Logger logging.Logger
	Output io.Writer
	// Load supplies the base config before flags are applied; defaults
	// and environment when nil.
	Load func() (*config.Config, error)
}

func NewRunner(opts RunnerOpts) *Runner {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logger == nil {
		l, err := logging.New(os.Stderr, "warn", logging.FormatText)
		if err != nil {
			panic(err)
		}
		opts.Logger = l
	}
	if opts.Load == nil {
		opts.Load = func() (*config.Config, error) { return config.Load(nil) }
	}
	return &Runner{logger: opts.Logger, output: opts.Output, load: opts.Load}
}

// config resolves the base config and overlays the global flags.
func (r *Runner) config(cmd *cli.Command) (*config.Config, error) {
	cfg, err := r.load()
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("backend") {
		cfg.Backend = cmd.String("backend")
	}
	if cmd.IsSet("dsn") {
		cfg.PostgresDSN = cmd.String("dsn")
	}
	if cmd.IsSet("sqlite-path") {
		cfg.SQLitePath = cmd.String("sqlite-path")
	}
	return cfg, cfg.Validate()
}

// withStore opens and migrates the configured backend, runs fn and closes
// the backend again.
func (r *Runner) withStore(ctx context.Context, cmd *cli.Command, fn func(m repomanager.RepositoryManager, svc *services.ItemService) error) (err error) {
	cfg, err := r.config(cmd)
	if err != nil {
		return err
	}

	m, err := repomanager.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); err == nil {
			err = cerr
		}
	}()

	if err := m.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	log := r.logger.With("backend", m.Backend())
	return fn(m, services.NewItemService(m.Items(), log))
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
