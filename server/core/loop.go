package core

import (
	"context"
	"log"
	"time"
)

// BlockLoop closes a ledger block on every tick, giving submitted actions the
// seconds-scale finality of the real ledger.
type BlockLoop struct {
	server   *Server
	interval time.Duration
}

func NewBlockLoop(server *Server, interval time.Duration) *BlockLoop {
	return &BlockLoop{
		server:   server,
		interval: interval,
	}
}

// Run commits blocks until ctx is done.
func (g *BlockLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	log.Printf("Block loop started, one block every %v", g.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Block loop stopped")
			return nil
		case <-ticker.C:
			g.server.CommitBlock()
		}
	}
}
