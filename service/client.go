package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"theater-booking-cli/model"
)

const (
	defaultBaseURL     = "https://api.tamashakhane.example/v1"
	defaultUserAgent   = "theater-booking-cli/1.0"
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
)

// Client wraps HTTP access to the venue/showtime data source and the checkout
// collaborator.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

// APIError is returned when the remote store responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "remote store error"
	}
	return fmt.Sprintf("remote store error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// NewClient creates a new API client. If httpClient is nil, a default client
// is used. baseURL falls back to the built-in endpoint when empty.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// GetVenues returns the venues available for booking.
func (c *Client) GetVenues(ctx context.Context) ([]model.Venue, error) {
	endpoint := fmt.Sprintf("%s/venues", c.baseURL)

	var venues []model.Venue
	if err := c.getJSON(ctx, endpoint, &venues); err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return nil, errors.New("no venues found")
	}
	return venues, nil
}

// GetLayout fetches the seating layout for a venue.
func (c *Client) GetLayout(ctx context.Context, venueID string) (model.Layout, error) {
	if venueID == "" {
		return model.Layout{}, errors.New("venue id is required")
	}
	endpoint := fmt.Sprintf("%s/venues/%s/layout", c.baseURL, url.PathEscape(venueID))

	var layout model.Layout
	if err := c.getJSON(ctx, endpoint, &layout); err != nil {
		return model.Layout{}, err
	}
	if layout.VenueID == "" {
		layout.VenueID = venueID
	}
	if err := layout.Validate(); err != nil {
		return model.Layout{}, fmt.Errorf("inconsistent layout for venue %s: %w", venueID, err)
	}
	return layout, nil
}

// GetShowtimes fetches the scheduled showtimes for a venue.
func (c *Client) GetShowtimes(ctx context.Context, venueID string) ([]model.Showtime, error) {
	if venueID == "" {
		return nil, errors.New("venue id is required")
	}
	endpoint := fmt.Sprintf("%s/venues/%s/showtimes", c.baseURL, url.PathEscape(venueID))

	var showtimes []model.Showtime
	if err := c.getJSON(ctx, endpoint, &showtimes); err != nil {
		return nil, err
	}
	return showtimes, nil
}

// GetSeatOverrides fetches the seat-status snapshot for a showtime.
func (c *Client) GetSeatOverrides(ctx context.Context, showtimeID string) (model.SeatOverrides, error) {
	if showtimeID == "" {
		return model.SeatOverrides{}, errors.New("showtime id is required")
	}
	endpoint := fmt.Sprintf("%s/showtimes/%s/seats", c.baseURL, url.PathEscape(showtimeID))

	var overrides model.SeatOverrides
	if err := c.getJSON(ctx, endpoint, &overrides); err != nil {
		return model.SeatOverrides{}, err
	}
	return overrides, nil
}

// SubmitBooking posts the frozen checkout request to the booking collaborator.
// Submission is not retried: the collaborator owns idempotency via the client
// reference, and a duplicate post on an ambiguous failure is worse than asking
// the user to retry.
func (c *Client) SubmitBooking(ctx context.Context, req model.CheckoutRequest) (model.BookingResult, error) {
	if req.ShowtimeID == "" || len(req.SeatKeys) == 0 {
		return model.BookingResult{}, errors.New("showtime id and seat keys are required")
	}
	endpoint := fmt.Sprintf("%s/bookings", c.baseURL)

	payload, err := json.Marshal(req)
	if err != nil {
		return model.BookingResult{}, fmt.Errorf("encode booking: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return model.BookingResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.BookingResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
		return model.BookingResult{}, &APIError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Endpoint:   endpoint,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	var result model.BookingResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil && !errors.Is(err, io.EOF) {
		return model.BookingResult{}, fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return result, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       strings.TrimSpace(string(snippet)),
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}
