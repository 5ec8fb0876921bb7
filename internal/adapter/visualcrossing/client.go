package visualcrossing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/event-planner-service/internal/domain"
	"github.com/couchcryptid/event-planner-service/internal/observability"
)

// maxPayloadBytes bounds a single-day timeline response.
const maxPayloadBytes = 1 << 20

// Client implements domain.WeatherProvider using the Visual Crossing Timeline API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Visual Crossing forecast client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Forecast fetches the day-granularity forecast for q.Location on q.Date in US units.
func (c *Client) Forecast(ctx context.Context, q domain.ForecastQuery) ([]byte, error) {
	if strings.TrimSpace(q.Location) == "" {
		return nil, &domain.TransportError{Err: errors.New("location is required")}
	}

	u := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(q.Location), q.Date.Format(time.DateOnly))
	params := url.Values{
		"unitGroup":   {"us"},
		"key":         {c.apiKey},
		"include":     {"days"},
		"contentType": {"json"},
	}

	start := time.Now()
	body, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		c.logger.Warn("forecast request failed",
			"location", q.Location,
			"date", q.Date.Format(time.DateOnly),
			"error", err,
		)
		return nil, err
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("forecast request: %w", redactKey(err, c.apiKey))}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Visual Crossing answers errors with a plain-text reason.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("visual crossing API error: %s", strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	return body, nil
}

// redactKey keeps the API key out of *url.Error messages, which embed the URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return errors.New(strings.ReplaceAll(uerr.Error(), url.QueryEscape(key), "REDACTED"))
	}
	return err
}
