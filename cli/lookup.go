package cli

import (
	"fmt"
	"strings"

	"github.com/go-barry/pokedex/core"
	"github.com/go-barry/pokedex/pokeapi"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var LookupCommand = &cli.Command{
	Name:      "lookup",
	Usage:     "Look up a single Pokémon by name and print it",
	ArgsUsage: "<name>",
	Flags:     []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		if c.Args().Len() == 0 || strings.TrimSpace(c.Args().First()) == "" {
			return cli.Exit("a Pokémon name is required", 1)
		}

		config := core.LoadConfig(c.String("config"))
		client := pokeapi.NewClient(config.APIBaseURL, config.RequestTimeout, zap.NewNop().Sugar())
		home := core.NewHome(client, config.ListLimit, config.ListConcurrency, nil)

		vm := home.Lookup(c.Context, c.Args().First())
		if vm.SearchFailed {
			return cli.Exit(fmt.Sprintf("❌ Pokémon not found: %s", vm.Query), 1)
		}

		fmt.Printf("#%d %s\n", vm.ID, vm.Name)
		if vm.Type != nil {
			fmt.Println("🏷️  Type:", *vm.Type)
		}
		if vm.Sprite != nil {
			fmt.Println("🖼️  Sprite:", *vm.Sprite)
		}
		return nil
	},
}
