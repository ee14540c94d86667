package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hbomb79/Syphon/internal"
	"github.com/hbomb79/Syphon/pkg/logger"
	"github.com/joho/godotenv"
)

// main() is the entry point to the program. Configuration is read from
// an optional YAML file, with the environment (seeded from a local
// .env when present) taking precedence.
func main() {
	// A missing .env is fine; it is a development convenience only.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to a YAML configuration file (optional)")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Parse()

	if *verbose {
		logger.SetMinLoggingLevel(logger.VERBOSE)
	}

	config := internal.SyphonConfig{}
	var err error
	if *configPath != "" {
		err = config.LoadFromFile(*configPath)
	} else {
		err = config.LoadFromEnv()
	}
	if err != nil {
		log.Panicf("Failed to load configuration - %v\n", err.Error())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	syphon := internal.New(config)
	if err := syphon.Run(ctx); err != nil {
		log.Panicf("Failed to initialise Syphon - %v\n", err.Error())
	}
}
