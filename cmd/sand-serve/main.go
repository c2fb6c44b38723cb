package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mad-sand/internal/app"
	"mad-sand/internal/persistence/snapshot"
	"mad-sand/internal/sims/sand"
	"mad-sand/internal/transport/ws"
)

func main() {
	cfg := app.NewConfig()
	cfg.TPS = 20
	cfg.Bind(flag.CommandLine)
	addr := flag.String("addr", ":8080", "http listen address")
	load := flag.String("load", "", "start from this snapshot instead of a fresh fill")
	save := flag.String("save", "", "write a snapshot here on shutdown")
	origins := flag.String("origin", "", "comma-separated extra browser origins allowed to connect")
	flag.Parse()

	logger := log.New(os.Stdout, "[serve] ", log.LstdFlags|log.Lmicroseconds)
	if err := cfg.Resolve(flag.CommandLine); err != nil {
		logger.Fatalf("config: %v", err)
	}

	var engine *sand.Engine
	if *load != "" {
		h, err := snapshot.ReadHeader(*load)
		if err != nil {
			logger.Fatalf("load snapshot: %v", err)
		}
		logger.Printf("loading %s: %dx%d at tick %d", *load, h.Width, h.Height, h.Tick)
		snap, err := snapshot.Read(*load)
		if err != nil {
			logger.Fatalf("load snapshot: %v", err)
		}
		engine, err = snapshot.NewEngine(snap)
		if err != nil {
			logger.Fatalf("restore snapshot: %v", err)
		}
	} else {
		engine = cfg.NewEngine()
	}

	srv := ws.NewServer(engine, logger)
	if *origins != "" {
		srv.AllowOrigins(strings.Split(*origins, ",")...)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Run(ctx, cfg.TPS); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("sim loop: %v", err)
		}
	}()
	go func() {
		size := engine.Size()
		logger.Printf("listening on %s (%dx%d @ %d tps)", *addr, size.W, size.H, cfg.TPS)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)

	if *save != "" {
		var snap snapshot.SnapshotV1
		srv.WithSim(func(app.Sandbox) { snap = snapshot.FromEngine(engine) })
		if err := snapshot.Write(*save, snap); err != nil {
			logger.Printf("save snapshot: %v", err)
		} else {
			logger.Printf("saved %s at tick %d", *save, snap.Header.Tick)
		}
	}
	accepted, rejected := srv.Commands()
	logger.Printf("shutdown: %d commands accepted, %d rejected", accepted, rejected)
}
