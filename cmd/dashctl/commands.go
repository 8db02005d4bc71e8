package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/urfave/cli/v3"

	"github.com/pkordes/routing-dashboard/internal/config"
	"github.com/pkordes/routing-dashboard/internal/domain"
	"github.com/pkordes/routing-dashboard/internal/locations"
	"github.com/pkordes/routing-dashboard/internal/repo"
	"github.com/pkordes/routing-dashboard/migrations"
)

// errUnsupported is returned when a command does not apply to the configured store.
var errUnsupported = errors.New("unsupported")

// Parse extracts locations from an XML file ("-" reads stdin) and prints them as JSON.
func (r *Runner) Parse(_ context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file argument is required", domain.ErrValidation)
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(r.input)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	locs, err := locations.Parse(string(data))
	if err != nil {
		return err
	}
	r.logger.Info("parsed document", "sources", len(locs.Sources), "destinations", len(locs.Destinations))
	return r.writeJSON(locs, cmd.Bool("pretty"))
}

// RoutesList prints one page of the stored history, most recent first.
func (r *Runner) RoutesList(ctx context.Context, cmd *cli.Command) error {
	history, closeStore, err := r.history(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	routes, err := history.Load(ctx)
	if err != nil {
		return err
	}

	page, limit := int(cmd.Int("page")), int(cmd.Int("limit"))
	p := domain.NewPaginationParams(&page, &limit)
	return r.writeJSON(domain.Paginate(routes, p), cmd.Bool("pretty"))
}

// RoutesDelete removes one route from the stored history.
func (r *Runner) RoutesDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id argument is required", domain.ErrValidation)
	}

	history, closeStore, err := r.history(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	routes, err := history.Load(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(routes, func(rt domain.Route) bool { return rt.ID == id })
	if idx < 0 {
		return fmt.Errorf("route %s: %w", id, domain.ErrNotFound)
	}
	if err := history.Save(ctx, slices.Delete(routes, idx, idx+1)); err != nil {
		return err
	}
	r.logger.Info("route deleted", "route_id", id)
	return r.writePlain("deleted %s", id)
}

// Migrate applies the Postgres schema migrations. Other drivers create their
// schema on open and need no migration step.
func (r *Runner) Migrate(ctx context.Context, _ *cli.Command) error {
	if r.config.StoreDriver != repo.DriverPostgres {
		return fmt.Errorf("%w: migrate only applies to the %s driver, configured driver is %q",
			errUnsupported, repo.DriverPostgres, r.config.StoreDriver)
	}

	db, err := sql.Open("pgx", r.config.StoreDSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	n, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	return r.writePlain("applied %d migration(s)", n)
}

// ConfigInit writes the default TOML configuration to a new file.
func (r *Runner) ConfigInit(_ context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		path = "dashboard.toml"
	}
	if err := config.WriteExample(path); err != nil {
		return err
	}
	return r.writePlain("wrote %s; point DASHBOARD_CONFIG at it to use it", path)
}

func parseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "parse",
		Usage: "Extract sources and destinations from an XML document",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file", UsageText: "path to the document, or - for stdin"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Parse,
	}
}

func routesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "Inspect or edit the stored route history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored routes, most recent first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number, starting at 1",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Routes per page (max 100)",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.RoutesList,
			},
			{
				Name:  "delete",
				Usage: "Delete a route by id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.RoutesDelete,
			},
		},
	}
}

func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Apply Postgres schema migrations",
		Action: r.Migrate,
	}
}

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration helpers",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the default configuration file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.ConfigInit,
			},
		},
	}
}
