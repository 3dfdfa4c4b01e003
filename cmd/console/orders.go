package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"shopadmin/internal/app"
	"shopadmin/internal/model"
)

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "manage shop orders",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list orders",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status"},
					&cli.IntFlag{Name: "page"},
					&cli.IntFlag{Name: "limit"},
					&cli.StringFlag{Name: "from", Usage: "start date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "to", Usage: "end date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "number", Usage: "order number"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(a *app.App) error {
						list, err := a.Orders.List(c.Context, model.GetOrderListParams{
							Status:      model.OrderStatus(c.String("status")),
							Page:        c.Int("page"),
							Limit:       c.Int("limit"),
							StartDate:   c.String("from"),
							EndDate:     c.String("to"),
							OrderNumber: c.String("number"),
						})
						if err != nil {
							return err
						}
						printOrders(c, list)
						return nil
					})
				},
			},
			{
				Name:      "detail",
				Usage:     "show one order",
				ArgsUsage: "<order id>",
				Action: func(c *cli.Context) error {
					return withApp(c, func(a *app.App) error {
						o, err := a.Orders.Detail(c.Context, c.Args().First())
						if err != nil {
							return err
						}
						return printJSON(c.App.Writer, o)
					})
				},
			},
			{
				Name:      "status",
				Usage:     "change the status of one order",
				ArgsUsage: "<order id> <status>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "reason", Usage: "cancel reason"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(a *app.App) error {
						reply, err := a.Orders.UpdateStatus(c.Context, model.UpdateOrderStatusParams{
							OrderID:      c.Args().Get(0),
							Status:       model.OrderStatus(c.Args().Get(1)),
							CancelReason: c.String("reason"),
						})
						if err != nil {
							return err
						}
						return printJSON(c.App.Writer, reply)
					})
				},
			},
			{
				Name:      "batch",
				Usage:     "apply one action to several orders",
				ArgsUsage: "<order id>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "action", Usage: "confirm, cancel or start_preparing", Required: true},
					&cli.StringFlag{Name: "reason", Usage: "cancel reason"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(a *app.App) error {
						reply, err := a.Orders.BatchUpdate(c.Context, model.BatchUpdateOrderParams{
							OrderIDs:     c.Args().Slice(),
							Action:       model.BatchAction(c.String("action")),
							CancelReason: c.String("reason"),
						})
						if err != nil {
							return err
						}
						return printJSON(c.App.Writer, reply)
					})
				},
			},
			{
				Name:  "stats",
				Usage: "show order statistics",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "start date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "to", Usage: "end date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "type", Usage: "trend bucket: day, week or month"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, func(a *app.App) error {
						stats, err := a.Orders.Statistics(c.Context, model.GetOrderStatisticsParams{
							StartDate: c.String("from"),
							EndDate:   c.String("to"),
							Type:      model.StatisticsType(c.String("type")),
						})
						if err != nil {
							return err
						}
						printStatistics(c, stats)
						return nil
					})
				},
			},
		},
	}
}

func printOrders(c *cli.Context, list *model.OrderListResponse) {
	tw := newTable(c.App.Writer, "ID", "NUMBER", "STATUS", "TOTAL", "ITEMS", "ORDERED", "CHECK")
	open, pending := 0, 0
	for i := range list.Orders {
		o := &list.Orders[i]
		if !o.IsCancelled() && !o.IsCompleted() {
			open++
		}
		if o.IsPending() {
			pending++
		}
		check := "ok"
		if err := o.Verify(); err != nil {
			check = "amount mismatch"
		}
		row(tw, o.ID, o.OrderNumber, o.Status, fmt.Sprintf("%.2f", o.TotalAmount),
			len(o.OrderItems), o.OrderTime.Format("2006-01-02 15:04"), check)
	}
	_ = tw.Flush()

	p := list.Pagination
	fmt.Fprintf(c.App.Writer, "page %d/%d, %d orders, %d open (%d pending) on this page\n", p.Page, p.Pages, p.Total, open, pending)
}

func printStatistics(c *cli.Context, stats *model.OrderStatistics) {
	w := c.App.Writer
	s := stats.Summary
	fmt.Fprintf(w, "%s .. %s\n", stats.DateRange.StartDate, stats.DateRange.EndDate)
	fmt.Fprintf(w, "orders %d, completed %d, amount %.2f, average %.2f\n",
		s.TotalOrders, s.CompletedOrders, s.TotalAmount, s.AvgOrderAmount)

	tw := newTable(w, "STATUS", "ORDERS")
	for _, status := range model.OrderStatuses {
		row(tw, status, stats.StatusStats.Count(status))
	}
	_ = tw.Flush()

	if len(stats.HotGoods) > 0 {
		tw = newTable(w, "HOT GOODS", "QUANTITY", "AMOUNT")
		for _, g := range stats.HotGoods {
			row(tw, g.GoodsName, g.TotalQuantity, fmt.Sprintf("%.2f", g.TotalAmount))
		}
		_ = tw.Flush()
	}
}
