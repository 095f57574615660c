package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/maltiez2/vsmod-mapmarkers/internal/app"
)

func main() {
	configDir := flag.String("config", ".", "directory containing markerserver.cfg.json")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := app.Run(ctx, app.Config{ConfigDir: *configDir}); err != nil {
		log.Fatalf("%v", err)
	}
}
