package main

import (
	"flag"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"conversationalist/internal/adapters/web"
	"conversationalist/internal/app"
	"conversationalist/internal/config"
	"conversationalist/pkg/log"
	"conversationalist/pkg/log/transporters"
)

func main() {
	configPath := flag.String("config", "config/story.yaml", "path to the story config")
	flag.Parse()

	_ = godotenv.Load()

	level := log.Info
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := log.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	logger := log.New(level, transporters.NewStdout())
	log.SetDefault(logger)
	defer logger.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.GlobalError("loading config failed", "error", err)
		os.Exit(1)
	}

	story, cleanup, err := app.BuildStory(cfg)
	if err != nil {
		log.GlobalError("wiring pipeline failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	handlers := web.NewHandlers(story, cfg.Account, cfg.TimelineOut, cfg.StoryOut)
	limiter := web.NewRateLimiter(3, time.Hour)

	fiberApp := fiber.New(fiber.Config{
		AppName: "Conversationalist",
	})
	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New())

	web.SetupRoutes(fiberApp, handlers, limiter)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.GlobalInfo("starting conversationalist server", "port", port, "account", cfg.Account)
	if err := fiberApp.Listen(":" + port); err != nil {
		log.GlobalError("server stopped", "error", err)
		os.Exit(1)
	}
}
