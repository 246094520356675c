package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"conversationalist/internal/app"
	"conversationalist/internal/config"
	"conversationalist/pkg/log"
	"conversationalist/pkg/log/transporters"
)

func main() {
	configPath := flag.String("config", "config/story.yaml", "path to the story config")
	account := flag.String("account", "", "account to fetch (overrides config)")
	hours := flag.Int("hours", 0, "lookback window in hours (overrides config)")
	title := flag.String("title", "", "story title (overrides config)")
	flag.Parse()

	// .env is optional; real environments set variables directly.
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

	if err := run(*configPath, *account, *hours, *title); err != nil {
		fmt.Fprintln(os.Stderr, "conversationalist:", err)
		os.Exit(1)
	}
}

func run(configPath, account string, hours int, title string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if account != "" {
		cfg.Account = account
	}
	if hours != 0 {
		cfg.Hours = hours
	}
	if title != "" {
		cfg.Title = title
	}

	story, cleanup, err := app.BuildStory(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	page, err := story.Execute(context.Background(), cfg.Account, cfg.TimelineOut, cfg.StoryOut)
	if err != nil {
		return err
	}
	fmt.Println(page)
	return nil
}
