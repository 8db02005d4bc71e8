package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/pkordes/routing-dashboard/internal/config"
	"github.com/pkordes/routing-dashboard/internal/repo"
)

// StoreOpener matches repo.OpenStore.
type StoreOpener func(ctx context.Context, driver, dsn string) (repo.KVStore, func(), error)

// Runner holds the dependencies of every command and provides one method per
// command action.
type Runner struct {
	config    *config.Config
	logger    *slog.Logger
	output    io.Writer
	input     io.Reader
	openStore StoreOpener
}

// RunnerOpts configures NewRunner. Nil fields get defaults.
type RunnerOpts struct {
	Config    *config.Config
	Logger    *slog.Logger
	Output    io.Writer
	Input     io.Reader
	OpenStore StoreOpener
}

// NewRunner creates a Runner from opts.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = &config.Config{StoreDriver: repo.DriverMemory}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.OpenStore == nil {
		opts.OpenStore = repo.OpenStore
	}
	return &Runner{
		config:    opts.Config,
		logger:    opts.Logger,
		output:    opts.Output,
		input:     opts.Input,
		openStore: opts.OpenStore,
	}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		parseCommand(r),
		routesCommand(r),
		migrateCommand(r),
		configCommand(r),
	}
}

// history opens the configured store and wraps it in the route history repo.
func (r *Runner) history(ctx context.Context) (repo.RouteHistoryRepo, func(), error) {
	store, closeStore, err := r.openStore(ctx, r.config.StoreDriver, r.config.StoreDSN)
	if err != nil {
		return nil, nil, err
	}
	return repo.NewRouteHistoryRepo(store), closeStore, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	out = append(out, '\n')
	if _, err := r.output.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format+"\n", args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
