package web

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"conversationalist/internal/usecases"
	"conversationalist/pkg/log"
)

// rebuildTimeout bounds one full fetch-and-render pipeline run.
const rebuildTimeout = 5 * time.Minute

// Handlers contains the HTTP handlers for serve mode.
type Handlers struct {
	story       *usecases.MakeStoryUseCase
	account     string
	timelineOut string
	storyOut    string

	mu sync.Mutex // one rebuild at a time
}

// NewHandlers creates a Handlers instance bound to one account and its
// output paths.
func NewHandlers(story *usecases.MakeStoryUseCase, account, timelineOut, storyOut string) *Handlers {
	return &Handlers{
		story:       story,
		account:     account,
		timelineOut: timelineOut,
		storyOut:    storyOut,
	}
}

// Story serves the most recently generated story page.
func (h *Handlers) Story(c *fiber.Ctx) error {
	if _, err := os.Stat(h.storyOut); err != nil {
		return c.Status(fiber.StatusNotFound).
			SendString("No story generated yet. POST /rebuild to create one.")
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendFile(h.storyOut)
}

// Rebuild runs the full pipeline and reports the generated page.
func (h *Handlers) Rebuild(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.UserContext(), rebuildTimeout)
	defer cancel()

	page, err := h.story.Execute(ctx, h.account, h.timelineOut, h.storyOut)
	if err != nil {
		log.GlobalErrorCtx(ctx, "rebuild failed", "account", h.account, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "story rebuild failed",
		})
	}
	return c.JSON(fiber.Map{"story": page})
}

// Health is the liveness endpoint.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
