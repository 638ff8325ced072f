package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tangobot/go-tangobot/bot"
	"github.com/tangobot/go-tangobot/cache"
	"github.com/tangobot/go-tangobot/chatango"
	"github.com/tangobot/go-tangobot/cmds"
	"github.com/tangobot/go-tangobot/config"
	"github.com/tangobot/go-tangobot/db"
	"github.com/tangobot/go-tangobot/storage"
)

func main() {
	configPath := flag.String("c", "config.yaml", "path to config file")
	flag.Parse()

	// .env is optional; secrets may come from the real environment
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.New(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer database.Close()

	kv, err := cache.New(cfg)
	if err != nil {
		log.Fatalf("connect cache: %v", err)
	}
	defer kv.Close()

	bucket, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init image bucket: %v", err)
	}

	skills := cmds.NewSkills(cfg, database, kv, bucket)
	b := bot.New(cfg, database, skills)

	client := chatango.NewClient(cfg.Chat.Username, cfg.Chat.Password)
	client.OnMessage(func(room *chatango.Room, msg *chatango.Message) {
		b.HandleMessage(room, msg)
	})

	if err := client.Run(ctx, cfg.Chat.Rooms); err != nil && err != context.Canceled {
		log.Fatalf("chat client stopped: %v", err)
	}
}
