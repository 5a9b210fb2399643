package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/forcezone/internal/config"
	"github.com/zeusync/forcezone/internal/core/observability/log"
	"github.com/zeusync/forcezone/internal/injector"
)

func main() {
	configFile := os.Getenv("FORCEZONE_CONFIG")
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	if err := config.Load(configFile); err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	app, err := injector.InitializeApp()
	if err != nil {
		fmt.Println("Error building app:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		app.Logger.Error("forcezone stopped with error", log.Error(err))
		os.Exit(1)
	}
}
