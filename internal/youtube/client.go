// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

// Package youtube is a minimal YouTube Data API v3 client.
//
// Client Features:
//   - Client-side token bucket (golang.org/x/time/rate) to stay within quota
//   - Automatic HTTP 429 handling with exponential backoff and Retry-After
//   - Typed errors: recommend.ErrNotFound, ErrQuotaExceeded, *APIError
//   - CircuitBreakerClient wraps Client with sony/gobreaker
//
// Example:
//
//	client, err := youtube.NewClient(cfg.YouTube)
//	if err != nil {
//	    return err
//	}
//	item, err := client.FetchMetadata(ctx, "dQw4w9WgXcQ")
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/vidrec/internal/config"
	"github.com/tomtom215/vidrec/internal/logging"
	"github.com/tomtom215/vidrec/internal/metrics"
	"github.com/tomtom215/vidrec/internal/recommend"
)

// MaxSearchResults is the largest page the search endpoint accepts.
const MaxSearchResults = 50

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 4 * 1024

var (
	// ErrQuotaExceeded is returned when the API key has exhausted its quota.
	ErrQuotaExceeded = errors.New("youtube API quota exceeded")

	// ErrNoAPIKey is returned by NewClient when no key is configured.
	ErrNoAPIKey = errors.New("youtube API key not configured")

	// ErrRateLimited is returned when HTTP 429 persists after all retries.
	ErrRateLimited = errors.New("youtube API rate limited")
)

// APIError is a non-success HTTP response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube %s request failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Client calls the YouTube Data API. It is safe for concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a client from cfg.
func NewClient(cfg config.YouTubeConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: time.Second,
	}, nil
}

// FetchMetadata returns the metadata of one video, or recommend.ErrNotFound
// when the API has no such video.
func (c *Client) FetchMetadata(ctx context.Context, videoID string) (*recommend.ItemMetadata, error) {
	if videoID == "" {
		return nil, recommend.ErrNotFound
	}

	items, err := c.listVideos(ctx, []string{videoID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, recommend.ErrNotFound
	}
	return toItemMetadata(&items[0]), nil
}

// Search returns up to maxResults videos matching query, in relevance order.
// maxResults is clamped to 1..MaxSearchResults.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]*recommend.ItemMetadata, error) {
	maxResults = max(1, min(maxResults, MaxSearchResults))

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("order", "relevance")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))

	var resp searchListResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	results := make([]*recommend.ItemMetadata, 0, len(resp.Items))
	for i := range resp.Items {
		r := &resp.Items[i]
		if r.ID.VideoID == "" {
			continue
		}
		ids = append(ids, r.ID.VideoID)
		results = append(results, toItemMetadata(&videoResource{ID: r.ID.VideoID, Snippet: r.Snippet}))
	}
	if len(ids) == 0 {
		return results, nil
	}

	details, err := c.listVideos(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("video details: %w", err)
	}
	byID := make(map[string]*videoResource, len(details))
	for i := range details {
		byID[details[i].ID] = &details[i]
	}

	// Merge by id; the API does not guarantee the order of videos.list.
	for i, item := range results {
		if d, ok := byID[item.ID]; ok {
			results[i] = toItemMetadata(d)
			if results[i].Thumbnail == "" {
				results[i].Thumbnail = item.Thumbnail
			}
		}
	}
	return results, nil
}

func (c *Client) listVideos(ctx context.Context, ids []string) ([]videoResource, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var resp videoListResponse
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// get performs one API call and decodes a 200 response into result.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	resp, err := c.doRequestWithRateLimit(ctx, endpoint, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return classifyError(endpoint, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// doRequestWithRateLimit waits on the token bucket before every attempt and
// retries HTTP 429 with exponential backoff (1s, 2s, 4s, ...). A Retry-After
// header overrides the computed delay.
func (c *Client) doRequestWithRateLimit(ctx context.Context, endpoint, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordYouTubeRequest(endpoint, 0, time.Since(start))
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("youtube %s request failed: %w", endpoint, err)
		}
		metrics.RecordYouTubeRequest(endpoint, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close()

		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("%w: %s after %d retries", ErrRateLimited, endpoint, c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if d, ok := parseRetryAfter(retryAfter, time.Now()); ok {
			delay = d
		}

		metrics.RecordYouTubeRetry(endpoint)
		logging.Ctx(ctx).Debug().
			Str("endpoint", endpoint).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("YouTube API rate limited, backing off")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// parseRetryAfter accepts delay-seconds or an HTTP-date.
func parseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(t.Sub(now), 0), true
	}
	return 0, false
}

// classifyError maps a non-200 response to ErrQuotaExceeded or *APIError.
func classifyError(endpoint string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	if resp.StatusCode == http.StatusForbidden {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil {
			for _, e := range apiErr.Error.Errors {
				if e.Reason == "quotaExceeded" || e.Reason == "dailyLimitExceeded" {
					return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Error.Message)
				}
			}
		}
	}

	msg := string(body)
	if len(msg) == maxErrorBodySize {
		msg += "... (truncated)"
	}
	return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: msg}
}

func toItemMetadata(v *videoResource) *recommend.ItemMetadata {
	item := &recommend.ItemMetadata{
		ID:           v.ID,
		Title:        v.Snippet.Title,
		Description:  v.Snippet.Description,
		Channel:      v.Snippet.ChannelTitle,
		Thumbnail:    v.Snippet.Thumbnails.best(),
		ViewCount:    parseCount(v.Statistics.ViewCount),
		LikeCount:    parseCount(v.Statistics.LikeCount),
		CommentCount: parseCount(v.Statistics.CommentCount),
	}
	if len(v.Snippet.Tags) > 0 {
		item.Tags = append([]string(nil), v.Snippet.Tags...)
	}
	if d, err := ParseISODuration(v.ContentDetails.Duration); err == nil {
		item.Duration = d
	}
	if t, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
		t = t.UTC()
		item.PublishedAt = &t
	}
	return item
}

// parseCount reads a statistics value; hidden counters are absent and read as 0.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
