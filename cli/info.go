package cli

import (
	"fmt"

	"github.com/go-barry/pokedex/core"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print the effective configuration and template summary",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		timeout := "none"
		if config.RequestTimeout > 0 {
			timeout = config.RequestTimeout.String()
		}

		fmt.Println("🌐 API Base URL:", config.APIBaseURL)
		fmt.Println("🔢 List Limit:", config.ListLimit)
		fmt.Println("🧵 List Concurrency:", config.ListConcurrency)
		fmt.Println("⏱️  Request Timeout:", timeout)
		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println("🔁 Debug Logs Enabled:", config.DebugLogs)
		fmt.Println()

		templates, onDisk := core.TemplatesFS(config.TemplatesDir)
		_, publicOnDisk := core.PublicFS(config.PublicDir)
		renderer := core.NewRenderer(templates, onDisk, nil)

		pages, err := renderer.Pages()
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		components, err := renderer.Components()
		if err != nil {
			return fmt.Errorf("failed to list components: %w", err)
		}

		fmt.Println("🗂️  Templates:", source(onDisk, config.TemplatesDir))
		fmt.Println("🖼️  Public Assets:", source(publicOnDisk, config.PublicDir))
		fmt.Println("📄 Pages Found:", len(pages))
		fmt.Println("📦 Components Found:", len(components))

		return nil
	},
}

func source(onDisk bool, dir string) string {
	if onDisk {
		return dir
	}
	return "embedded"
}
