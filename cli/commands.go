package cli

import (
	"github.com/go-barry/pokedex"
	"github.com/go-barry/pokedex/core"

	"github.com/urfave/cli/v2"
)

var portFlag = &cli.IntFlag{
	Name:    "port",
	Aliases: []string{"p"},
	Usage:   "port to listen on",
	Value:   8080,
}

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to the config file",
	Value:   core.ConfigFile,
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start the Pokédex in dev mode (live reload, unminified)",
	Flags: []cli.Flag{portFlag, configFlag},
	Action: func(c *cli.Context) error {
		cfg := pokedex.RuntimeConfig{
			Env:        "dev",
			Port:       c.Int("port"),
			ConfigPath: c.String("config"),
		}
		pokedex.Start(cfg)
		return nil
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start the Pokédex in production mode (minified HTML and assets)",
	Flags: []cli.Flag{portFlag, configFlag},
	Action: func(c *cli.Context) error {
		cfg := pokedex.RuntimeConfig{
			Env:        "prod",
			Port:       c.Int("port"),
			ConfigPath: c.String("config"),
		}
		pokedex.Start(cfg)
		return nil
	},
}
