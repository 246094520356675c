package web

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"conversationalist/internal/domain"
	"conversationalist/internal/usecases"
	"conversationalist/test/fixtures"
)

type stubSource struct {
	statuses []domain.Status
}

func (s *stubSource) Batch(ctx context.Context, account, beforeID string) ([]domain.Status, error) {
	return s.statuses, nil
}

func (s *stubSource) Lookup(ctx context.Context, id string) (domain.Status, error) {
	return domain.Status{}, domain.ErrStatusNotFound
}

type stubRenderer struct{}

func (stubRenderer) Render(conv *domain.Conversation, path string) (string, error) {
	if err := os.WriteFile(path, []byte("<html>"+conv.Title+"</html>"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func newTestApp(t *testing.T, dir string) *fiber.App {
	t.Helper()
	source := &stubSource{statuses: []domain.Status{fixtures.Status(1, "", time.Now().Add(-time.Hour))}}
	fetch := usecases.NewFetchTimelineUseCase(source, 24, time.UTC)
	builder := usecases.NewConversationBuilder("Served Story", time.UTC, nil, nil)
	story := usecases.NewMakeStoryUseCase(fetch, builder, stubRenderer{}, nil)

	handlers := NewHandlers(story, "testuser", filepath.Join(dir, "timeline.json"), filepath.Join(dir, "story.html"))
	app := fiber.New()
	SetupRoutes(app, handlers, NewRateLimiter(2, time.Hour))
	return app
}

func TestHealthEndpoint(t *testing.T) {
	// Arrange
	app := newTestApp(t, t.TempDir())

	// Act
	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestStoryBeforeFirstRebuild(t *testing.T) {
	// Arrange
	app := newTestApp(t, t.TempDir())

	// Act
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRebuildThenServeStory(t *testing.T) {
	// Arrange
	app := newTestApp(t, t.TempDir())

	// Act
	rebuild, err := app.Test(httptest.NewRequest("POST", "/rebuild", nil), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rebuild.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 from rebuild, got %d", rebuild.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), "Served Story") {
		t.Errorf("unexpected body %q", body)
	}
}

func TestRebuildRateLimited(t *testing.T) {
	// Arrange
	app := newTestApp(t, t.TempDir())

	// Act: the limiter allows two rebuilds, the third must bounce.
	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/rebuild", nil), -1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("rebuild %d: expected 200, got %d", i+1, resp.StatusCode)
		}
	}
	resp, err := app.Test(httptest.NewRequest("POST", "/rebuild", nil))

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", resp.StatusCode)
	}
}
