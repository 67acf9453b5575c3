package main

import (
	"log"

	"github.com/joho/godotenv"

	"docaiocr/cmd"
	"docaiocr/internal/config"
	"docaiocr/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Logging comes up before the rest of the configuration is validated,
	// so a missing key is still reported through the logger.
	if err := logger.Setup(config.LoggerConfigFromEnv()); err != nil {
		log.Printf("Warning: invalid logging configuration, using defaults: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	cmd.Execute()
}
