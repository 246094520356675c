package usecases

import (
	"context"
	"fmt"
	"time"

	"conversationalist/internal/domain"
	"conversationalist/pkg/log"
)

// StatusSource is the external post source. Batch returns a bounded page of
// statuses for an account, older than beforeID when given; Lookup resolves a
// single status by identifier.
type StatusSource interface {
	Batch(ctx context.Context, account, beforeID string) ([]domain.Status, error)
	Lookup(ctx context.Context, id string) (domain.Status, error)
}

// FetchTimelineUseCase paginates through a status source until the lookback
// cutoff is reached or the source runs dry.
type FetchTimelineUseCase struct {
	source StatusSource
	hours  int
	loc    *time.Location
}

// NewFetchTimelineUseCase creates a new FetchTimelineUseCase. The lookback
// window is hours into the past; loc is the display location (nil means UTC).
func NewFetchTimelineUseCase(source StatusSource, hours int, loc *time.Location) *FetchTimelineUseCase {
	return &FetchTimelineUseCase{source: source, hours: hours, loc: loc}
}

// Execute fetches an account's timeline starting from the current instant.
func (uc *FetchTimelineUseCase) Execute(ctx context.Context, account string) (*domain.Timeline, error) {
	return uc.ExecuteAt(ctx, account, time.Now())
}

// ExecuteAt is Execute with an explicit run instant. One batch is requested
// per iteration, cursored on the earliest retained status; the timeline's
// Advance decides whether another iteration can still surface in-window
// statuses. Batch failures propagate unretried.
func (uc *FetchTimelineUseCase) ExecuteAt(ctx context.Context, account string, start time.Time) (*domain.Timeline, error) {
	timeline := domain.NewTimelineAt(account, start, uc.hours, uc.loc)
	for {
		batch, err := uc.source.Batch(ctx, account, timeline.EarliestID())
		if err != nil {
			return nil, fmt.Errorf("fetching batch for %s: %w", account, err)
		}
		if len(batch) == 0 {
			break
		}
		uc.ingest(ctx, timeline, batch)
		if !timeline.Advance() {
			break
		}
	}
	return timeline, nil
}

// ingest stores each new in-window status and resolves reply origins. An
// origin lookup failure is isolated to its status: the reply is kept with a
// nil origin and the failure is logged with the affected identifier.
func (uc *FetchTimelineUseCase) ingest(ctx context.Context, timeline *domain.Timeline, batch []domain.Status) {
	for _, s := range batch {
		stored := timeline.Ingest(s)
		if stored == nil || stored.InReplyTo == "" {
			continue
		}
		origin, err := uc.source.Lookup(ctx, stored.InReplyTo)
		if err != nil {
			log.GlobalWarnCtx(ctx, "could not resolve reply origin", "status_id", stored.ID, "reply_to", stored.InReplyTo, "error", err)
			continue
		}
		stored.Origin = &domain.Origin{Author: origin.Author, Text: origin.Text}
	}
}
