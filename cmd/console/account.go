package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"shopadmin/internal/app"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "store the auth token issued by the shop backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token", Usage: "auth token", Required: true},
			&cli.BoolFlag{Name: "verify", Usage: "fetch the account with the new token", Value: true},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				if err := a.Session.Login(c.Context, c.String("token")); err != nil {
					return err
				}
				if !c.Bool("verify") {
					fmt.Fprintln(c.App.Writer, "Token stored")
					return nil
				}
				info, err := a.Users.Info(c.Context)
				if err != nil {
					return fmt.Errorf("token stored but rejected: %w", err)
				}
				fmt.Fprintf(c.App.Writer, "Logged in as %s\n", info.DisplayName())
				return nil
			})
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "clear the stored auth token",
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				if err := a.Session.Logout(c.Context); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, "Logged out")
				return nil
			})
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the logged in shop account",
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				info, err := a.Users.Info(c.Context)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s (%s) id=%s role=%s\n",
					info.DisplayName(), info.ShopAccount.Username, info.ID, info.ShopAccount.Role)
				return nil
			})
		},
	}
}
