// Command server runs the BariWiki HTTP API.
//
// Configuration comes from CONFIG_PATH (YAML) and environment variables;
// a .env file in the working directory is loaded first when present.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/ezbjus/bariwikiemerg/internal/app"
)

func main() {
	_ = godotenv.Load()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
