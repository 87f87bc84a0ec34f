package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"sandfall/internal/server"
	"sandfall/internal/sims/sandbox"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	width := flag.Int("w", 256, "world width in cells")
	height := flag.Int("h", 256, "world height in cells")
	seed := flag.Int64("seed", 1337, "seed for the initial terrain")
	tps := flag.Int("tps", 30, "simulation ticks per second")
	workers := flag.Int("workers", 0, "worker goroutines per pass (0 = GOMAXPROCS)")
	flag.Parse()

	cfg := sandbox.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height
	cfg.Seed = *seed
	cfg.Workers = *workers

	world := sandbox.NewWithConfig(cfg)
	world.Reset(*seed)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{Addr: *addr, TPS: *tps}, world)
	if err := srv.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
