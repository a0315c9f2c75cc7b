package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/spigell/property-alerts/cmd"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
