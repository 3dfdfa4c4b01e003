package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"shopadmin/internal/app"
	"shopadmin/internal/config"
	"shopadmin/internal/route"
)

func routesCommand() *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "inspect the console route table",
		Subcommands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "validate a route file, or the configured table",
				ArgsUsage: "[file]",
				Action: func(c *cli.Context) error {
					t, err := loadTable(c)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					count := 0
					err = t.Walk(func(r *route.Route, depth int) error {
						count++
						hidden := ""
						if r.Meta.HideInMenu {
							hidden = " (hidden)"
						}
						fmt.Fprintf(c.App.Writer, "%s%s  %s%s\n", strings.Repeat("  ", depth), r.Path, r.Meta.Title, hidden)
						return nil
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "version %d, %d routes ok\n", t.Version(), count)
					return nil
				},
			},
			{
				Name:  "menu",
				Usage: "print the sidebar menu",
				Action: func(c *cli.Context) error {
					t, err := loadTable(c)
					if err != nil {
						return err
					}
					printMenu(c.App.Writer, t.Menu(), 0)
					return nil
				},
			},
		},
	}
}

func loadTable(c *cli.Context) (*route.Table, error) {
	if file := c.Args().First(); file != "" {
		return route.LoadFile(file)
	}
	return app.LoadRoutes(config.GetConfig().Routes)
}
