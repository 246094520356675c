// Package source provides a status source backed by a Twitter v1.1-style
// REST API, for deployments that still hold API credentials.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"conversationalist/internal/domain"
)

// createdAtLayout is the timestamp format the v1.1 API delivers.
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

const defaultPageSize = 20

// API implements the status source against a REST endpoint. The base URL is
// configurable so self-hosted API-compatible mirrors work too.
type API struct {
	base     string
	token    string
	client   *http.Client
	pageSize int
}

// NewAPI creates an API source. token is sent as a bearer credential when
// non-empty.
func NewAPI(base, token string) *API {
	return &API{
		base:     base,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
		pageSize: defaultPageSize,
	}
}

type apiUser struct {
	ID        string `json:"id_str"`
	Handle    string `json:"screen_name"`
	AvatarURL string `json:"profile_image_url_https"`
}

type apiStatus struct {
	ID        string  `json:"id_str"`
	Text      string  `json:"text"`
	CreatedAt string  `json:"created_at"`
	User      apiUser `json:"user"`
	InReplyTo string  `json:"in_reply_to_status_id_str"`
}

// Batch fetches one page of an account's timeline, newest first, bounded by
// beforeID when given.
func (a *API) Batch(ctx context.Context, account, beforeID string) ([]domain.Status, error) {
	query := url.Values{
		"screen_name": {account},
		"count":       {strconv.Itoa(a.pageSize)},
	}
	if beforeID != "" {
		query.Set("max_id", beforeID)
	}

	var page []apiStatus
	if err := a.get(ctx, "/statuses/user_timeline.json", query, &page); err != nil {
		return nil, err
	}

	batch := make([]domain.Status, 0, len(page))
	for _, raw := range page {
		status, err := raw.toDomain()
		if err != nil {
			return nil, err
		}
		batch = append(batch, status)
	}
	return batch, nil
}

// Lookup fetches a single status by identifier.
func (a *API) Lookup(ctx context.Context, id string) (domain.Status, error) {
	var raw apiStatus
	err := a.get(ctx, "/statuses/show.json", url.Values{"id": {id}}, &raw)
	if err != nil {
		return domain.Status{}, err
	}
	return raw.toDomain()
}

func (a *API) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, domain.ErrStatusNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %s returned %d", domain.ErrSourceUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", domain.ErrSourceUnavailable, path, err)
	}
	return nil
}

func (s apiStatus) toDomain() (domain.Status, error) {
	created, err := time.Parse(createdAtLayout, s.CreatedAt)
	if err != nil {
		return domain.Status{}, fmt.Errorf("status %s: %w: %q", s.ID, domain.ErrMalformedTimestamp, s.CreatedAt)
	}
	return domain.Status{
		ID: s.ID,
		Author: domain.Author{
			ID:     s.User.ID,
			Handle: s.User.Handle,
			Avatar: s.User.AvatarURL,
		},
		Text:      s.Text,
		CreatedAt: created,
		InReplyTo: s.InReplyTo,
	}, nil
}
