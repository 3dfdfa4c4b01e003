package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"shopadmin/internal/api/goods"
	"shopadmin/internal/app"
	"shopadmin/internal/model"
)

func goodsCommand() *cli.Command {
	return &cli.Command{
		Name:  "goods",
		Usage: "manage goods",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list goods",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page"},
					&cli.IntFlag{Name: "limit"},
					&cli.StringFlag{Name: "menu", Usage: "category id"},
					&cli.StringFlag{Name: "keyword"},
					&cli.BoolFlag{Name: "all", Usage: "ignore filters and list every goods record"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(a *app.App) error {
						var (
							list *model.GoodsListResponse
							err  error
						)
						if c.Bool("all") {
							list, err = a.Goods.ListAll(c.Context)
						} else {
							list, err = a.Goods.List(c.Context, goods.ListFilter{
								Page:    c.Int("page"),
								Limit:   c.Int("limit"),
								MenuID:  c.String("menu"),
								Keyword: c.String("keyword"),
							})
						}
						if err != nil {
							return err
						}
						printGoods(c, list)
						return nil
					})
				},
			},
			{
				Name:      "get",
				Usage:     "show one goods record",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					return withApp(c, func(a *app.App) error {
						item, err := a.Goods.Detail(c.Context, c.Args().First())
						if err != nil {
							return err
						}
						return printJSON(c.App.Writer, item)
					})
				},
			},
			{
				Name:      "delete",
				Usage:     "delete one goods record",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					return withApp(c, func(a *app.App) error {
						id := c.Args().First()
						if err := a.Goods.Delete(c.Context, id); err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "Deleted goods %s\n", id)
						return nil
					})
				},
			},
			{
				Name:  "menus",
				Usage: "list goods categories",
				Action: func(c *cli.Context) error {
					return withApp(c, func(a *app.App) error {
						menus, err := a.Goods.Menus(c.Context)
						if err != nil {
							return err
						}
						tw := newTable(c.App.Writer, "ID", "NAME", "SORT", "STATUS")
						for _, m := range menus {
							sort := "-"
							if m.Sort != nil {
								sort = fmt.Sprint(*m.Sort)
							}
							row(tw, m.ID, m.Name, sort, m.Status)
						}
						return tw.Flush()
					})
				},
			},
		},
	}
}

func printGoods(c *cli.Context, list *model.GoodsListResponse) {
	tw := newTable(c.App.Writer, "ID", "NAME", "PRICE", "STOCK", "STATUS", "MENU")
	for i := range list.Goods {
		g := &list.Goods[i]
		status := "off sale"
		if g.IsOnSale() {
			status = "on sale"
		}
		row(tw, g.ID, g.Name, fmt.Sprintf("%.2f", g.Price), g.Stock, status, g.MenuName)
	}
	_ = tw.Flush()

	p := list.Pagination
	fmt.Fprintf(c.App.Writer, "page %d/%d, %d items\n", p.CurrentPage, p.TotalPages, p.TotalItems)
}
