package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lingualoop/backend/internal/ai"
	"github.com/lingualoop/backend/internal/config"
	"github.com/lingualoop/backend/internal/learning"
	"github.com/lingualoop/backend/internal/mock"
	"github.com/lingualoop/backend/internal/progression"
	"github.com/lingualoop/backend/internal/ws"
)

func main() {
	mockMode := flag.Bool("mock", false, "Run a cohort of demo learners")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	genToken := flag.Bool("gen-token", false, "Print a fresh static auth token and exit")
	flag.Parse()

	if *genToken {
		token, err := config.GenerateToken()
		if err != nil {
			log.Fatalf("Generating token: %v", err)
		}
		fmt.Println(token)
		return
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}

	persist := progression.NewStore(cfg.State.Dir)
	tracker := progression.NewTracker(persist, progression.NewEngine())
	sessions := learning.NewStore(cfg.Learning.SessionWindow)
	responder := ai.NewMockResponder(time.Now().UnixNano())

	hub := ws.NewHub(cfg.Presence.BroadcastThrottle, cfg.Presence.SnapshotInterval)
	rooms := ws.NewRoomRegistry(cfg.Presence.MaxRoomSize)
	server := ws.NewServer(cfg, hub, rooms, tracker, sessions, responder, cfg.Server.AllowedOrigins)

	tracker.OnAchievement(server.NotifyAchievement)
	tracker.OnLevelUp(server.NotifyLevelUp)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go tracker.Run(ctx)

	if *mockMode {
		log.Println("Starting in demo mode (synthetic learners)")
		gen := mock.NewGenerator(tracker, sessions)
		gen.Start(ctx)
	}

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
