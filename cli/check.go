package cli

import (
	"fmt"

	"github.com/go-barry/pokedex/core"
	"github.com/urfave/cli/v2"
)

func samplePages() map[string]core.PageViewModel {
	sprite := "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/132.png"
	kind := "normal"
	return map[string]core.PageViewModel{
		"listing": {
			PokemonList: []core.PokemonSummary{{ID: 132, Name: "Ditto", Type: "normal", Sprite: &sprite}},
			CurrentYear: 2025,
		},
		"lookup": {
			Name: "Ditto", ID: 132, Type: &kind, Sprite: &sprite, Query: "ditto",
			PokemonList: []core.PokemonSummary{}, CurrentYear: 2025,
		},
		"not found": {
			SearchFailed: true, Query: "missingno",
			PokemonList: []core.PokemonSummary{}, CurrentYear: 2025,
		},
		"empty search": {
			SearchFailed: true, SearchError: "Please enter a Pokémon name.",
			PokemonList: []core.PokemonSummary{}, CurrentYear: 2025,
		},
	}
}

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Validate templates and components against sample pages",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		templates, onDisk := core.TemplatesFS(config.TemplatesDir)
		public, _ := core.PublicFS(config.PublicDir)
		renderer := core.NewRenderer(templates, onDisk, core.TemplateFuncs("dev", config.OutputDir, public))

		if !onDisk {
			fmt.Println("ℹ️  No templates directory found, checking embedded templates")
		}

		pages, err := renderer.Pages()
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		var failed bool
		for _, page := range pages {
			pageFailed := false
			for name, vm := range samplePages() {
				if _, err := renderer.Render(page, vm); err != nil {
					pageFailed = true
					fmt.Printf("❌ %s (%s) → %v\n", page, name, err)
				}
			}
			if pageFailed {
				failed = true
				continue
			}
			fmt.Printf("✅ %s\n", page)
		}

		if failed {
			return cli.Exit("some templates failed to render", 1)
		}

		fmt.Println("✅ All templates validated successfully.")
		return nil
	},
}
