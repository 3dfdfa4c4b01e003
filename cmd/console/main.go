package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"shopadmin/internal/app"
	"shopadmin/internal/config"
	"shopadmin/pkg/log"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.WithError(err).Fatal("console failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "console",
		Usage:   "shop admin console",
		Version: app.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file, searched in ./configs by default",
				EnvVars: []string{config.EnvPrefix + "_CONFIG"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			serveCommand(),
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			goodsCommand(),
			ordersCommand(),
			routesCommand(),
		},
	}
}

// setup loads the configuration and initializes logging for every command
func setup(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	return log.Init(log.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	})
}

// withApp runs fn against a wired App and closes it afterwards
func withApp(c *cli.Context, fn func(a *app.App) error) error {
	a, err := app.New(c.Context, config.GetConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(c.Context); err != nil {
			log.WithError(err).Warn("Failed to close console")
		}
	}()
	return fn(a)
}
