package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/dojo-tanks/assets"
	"github.com/automoto/dojo-tanks/server/core"
	"github.com/automoto/dojo-tanks/shared/leveldata"
	"golang.org/x/sync/errgroup"
)

func main() {
	port := flag.Uint("port", 7373, "Relay port")
	name := flag.String("name", "Dojo Relay", "Relay display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	gameID := flag.Uint("game", 1, "Game id served by this relay")
	block := flag.Duration("block", time.Second, "Block interval")
	mapPath := flag.String("map", "", "TMX arena to load instead of the embedded one")
	flag.Parse()

	arena, err := loadArena(*mapPath)
	if err != nil {
		log.Fatalf("Failed to load arena: %v", err)
	}

	server := core.NewServer(arena, uint32(*gameID), *name, *version, *block)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.RunBlocks(ctx) })
	g.Go(func() error { return server.Run(*port) })

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	log.Printf("Starting relay %q on port %d (game: %d, block: %v, version: %s)",
		*name, *port, *gameID, *block, *version)

	<-ctx.Done()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Relay error: %v", err)
		}
	case <-time.After(time.Second):
	}
	log.Println("Relay stopped")
}

func loadArena(path string) (*leveldata.Arena, error) {
	if path == "" {
		return assets.LoadArena()
	}
	return leveldata.LoadArena(os.DirFS("."), path)
}
