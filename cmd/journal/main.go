package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/stockjournal/internal/app"
	"github.com/dmitrijs2005/stockjournal/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	defer a.Close()

	if err := a.RunJournal(ctx); err != nil {
		log.Printf("%v", err)
	}
}
