package main

import (
	"log"
	"os"

	pokedexcli "github.com/go-barry/pokedex/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "pokedex",
		Usage: "A small Pokédex web front-end for PokéAPI",
		Commands: []*clilib.Command{
			pokedexcli.InitCommand,
			pokedexcli.DevCommand,
			pokedexcli.ProdCommand,
			pokedexcli.LambdaCommand,
			pokedexcli.LookupCommand,
			pokedexcli.CleanCommand,
			pokedexcli.CheckCommand,
			pokedexcli.InfoCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
