package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/itemkeeper/internal/server/models"
	"github.com/dmitrijs2005/itemkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/itemkeeper/internal/server/services"
	"github.com/urfave/cli/v3"
)

var errMissingArgument = errors.New("missing argument")

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:  "itemsctl",
		Usage: "Administer the items store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "storage backend (postgres or sqlite)",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "postgres/cockroach connection string",
			},
			&cli.StringFlag{
				Name:  "sqlite-path",
				Usage: "sqlite database file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create or upgrade the schema",
				Action: r.Migrate,
			},
			{
				Name:   "seed",
				Usage:  "Replace all items with the fixture set",
				Action: r.Seed,
			},
			{
				Name:   "list",
				Usage:  "List items ordered by name",
				Action: r.List,
			},
			{
				Name:      "get",
				Usage:     "Show one item",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.Get,
			},
			{
				Name:  "add",
				Usage: "Add an item",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
				},
				Action: r.Add,
			},
			{
				Name:      "update",
				Usage:     "Replace an item's name and description",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
				},
				Action: r.Update,
			},
			{
				Name:      "query",
				Usage:     "Run a raw statement; extra arguments are bound as parameters",
				ArgsUsage: "<statement> [args...]",
				Action:    r.Query,
			},
		},
	}
}

func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	return r.withStore(ctx, cmd, func(m repomanager.RepositoryManager, _ *services.ItemService) error {
		return r.writeJSON(map[string]string{"backend": m.Backend(), "status": "migrated"})
	})
}

func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	return r.withStore(ctx, cmd, func(m repomanager.RepositoryManager, svc *services.ItemService) error {
		if err := m.Items().Seed(ctx); err != nil {
			return err
		}
		list, err := svc.List(ctx)
		if err != nil {
			return err
		}
		return r.writeJSON(list)
	})
}

func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	return r.withStore(ctx, cmd, func(_ repomanager.RepositoryManager, svc *services.ItemService) error {
		list, err := svc.List(ctx)
		if err != nil {
			return err
		}
		return r.writeJSON(list)
	})
}

func (r *Runner) Get(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", errMissingArgument)
	}
	return r.withStore(ctx, cmd, func(_ repomanager.RepositoryManager, svc *services.ItemService) error {
		item, err := svc.Get(ctx, id)
		if err != nil {
			return err
		}
		return r.writeJSON(item)
	})
}

func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	item := models.NewItem{Name: cmd.String("name"), Description: cmd.String("description")}
	return r.withStore(ctx, cmd, func(_ repomanager.RepositoryManager, svc *services.ItemService) error {
		added, err := svc.Create(ctx, item)
		if err != nil {
			return err
		}
		return r.writeJSON(added)
	})
}

func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", errMissingArgument)
	}
	item := models.ItemUpdate{ItemID: id, Name: cmd.String("name"), Description: cmd.String("description")}
	return r.withStore(ctx, cmd, func(_ repomanager.RepositoryManager, svc *services.ItemService) error {
		updated, err := svc.Update(ctx, item)
		if err != nil {
			return err
		}
		return r.writeJSON(updated)
	})
}

func (r *Runner) Query(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: statement", errMissingArgument)
	}
	params := make([]any, len(args)-1)
	for i, a := range args[1:] {
		params[i] = a
	}
	return r.withStore(ctx, cmd, func(m repomanager.RepositoryManager, _ *services.ItemService) error {
		res, err := m.Items().Query(ctx, args[0], params...)
		if err != nil {
			return err
		}
		return r.writeJSON(res.Records)
	})
}
