package main

import (
	"flag"
	"log"
	"os"

	"HyperMaker/internal/di"
	"HyperMaker/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	execute := flag.Bool("execute", false, "submit live orders instead of dry run")
	closeOnly := flag.Bool("close-only", false, "only flatten positions")
	provider := flag.String("analysis-provider", defaultProvider(), "analysis provider mode: auto or agent")
	continuous := flag.Bool("continuous", false, "run repeatedly (not yet implemented)")
	interval := flag.Int("interval", 5, "minutes between cycles in continuous mode")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	cfg.Analysis.Provider = *provider

	app, err := di.InitializeApp(cfg, di.Options{Execute: *execute})
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(*closeOnly); err != nil {
		log.Printf("run failed: %v", err)
		os.Exit(1)
	}

	if *continuous {
		log.Printf("continuous mode not implemented; rerun manually (interval=%dm ignored)", *interval)
	}
}

func defaultProvider() string {
	if v := os.Getenv("ANALYSIS_PROVIDER"); v != "" {
		return v
	}
	return "auto"
}
