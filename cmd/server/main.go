package main

import (
	"context"
	"log"

	"github.com/lfcamara/fundef-registry/internal/app"
	"github.com/lfcamara/fundef-registry/internal/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := a.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
