// cmd/tools/property-seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"property-search/internal/common/config"
	"property-search/internal/common/database"
	"property-search/internal/common/logger"
	"property-search/internal/models"
	"property-search/internal/search"
	"property-search/pkg/fixtures"
)

func main() {
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	seedPath := seedCmd.String("path", "configs/fixtures/properties.json", "Path to fixture file")
	configPath := seedCmd.String("config", "", "Path to config file (defaults to the standard lookup)")
	timeout := seedCmd.Duration("timeout", 2*time.Minute, "Overall timeout")

	validatePath := validateCmd.String("path", "configs/fixtures/properties.json", "Path to fixture file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		seedCmd.Parse(os.Args[2:])
		if err := seed(*seedPath, *configPath, *timeout); err != nil {
			fmt.Printf("Error seeding properties: %v\n", err)
			os.Exit(1)
		}

	case "validate":
		validateCmd.Parse(os.Args[2:])
		f, err := fixtures.Load(*validatePath)
		if err != nil {
			fmt.Printf("Error loading fixtures: %v\n", err)
			os.Exit(1)
		}
		if failed := validate(f); failed > 0 {
			fmt.Printf("%d of %d fixtures are invalid\n", failed, len(f.Properties))
			os.Exit(1)
		}
		fmt.Printf("All %d fixtures are valid\n", len(f.Properties))

	default:
		help()
		os.Exit(1)
	}
}

func seed(path, configPath string, timeout time.Duration) error {
	f, err := fixtures.Load(path)
	if err != nil {
		return err
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	log := logger.NewStructured(cfg.Logging.Level, "console", "stderr")
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	engine := search.NewEngine(search.ConfigFrom(cfg), es.Client, log, nil)
	if err := engine.EnsureIndex(ctx); err != nil {
		return err
	}

	result, err := engine.BulkAddProperties(ctx, f.Properties)
	if err != nil {
		return err
	}

	printFailures(result)
	fmt.Printf("Indexed %d of %d properties (%d failed) across %v\n",
		result.Indexed, len(f.Properties), result.Failed, f.Cities())
	return nil
}

func validate(f *fixtures.FixtureFile) int {
	failed := 0
	for i, p := range f.Properties {
		if err := search.ValidateProperty(p.WithDefaults()); err != nil {
			fmt.Printf("  [%d] %s: %v\n", i, p.ID, err)
			failed++
		}
	}
	return failed
}

func printFailures(result *models.BulkResult) {
	for _, item := range result.Items {
		if item.Error != "" {
			fmt.Printf("  %s (status %d): %s\n", item.ID, item.Status, item.Error)
		}
	}
}

func help() {
	fmt.Println("Usage: property-seeder <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  seed      Bulk index a fixture file into Elasticsearch")
	fmt.Println("  validate  Check every fixture against the property schema")
}
