package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/cgea-sas/console/internal/buildinfo"
	"github.com/cgea-sas/console/internal/client/cli"
	"github.com/cgea-sas/console/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
