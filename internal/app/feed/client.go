package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Client fetches feed documents over HTTP. Transient failures (transport
// errors, 5xx responses) are retried with exponential backoff; anything
// else fails immediately.
type Client struct {
	httpClient     *http.Client
	coursesURL     string
	instructorsURL string
	maxRetries     uint
}

// NewClient creates a feed client for the two upstream endpoints.
func NewClient(coursesURL, instructorsURL string, timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		coursesURL:     coursesURL,
		instructorsURL: instructorsURL,
		maxRetries:     uint(maxRetries),
	}
}

// FetchCourses retrieves and decodes the course feed.
func (c *Client) FetchCourses(ctx context.Context) (*CoursesDocument, error) {
	return fetchDocument[CoursesDocument](ctx, c, c.coursesURL)
}

// FetchInstructors retrieves and decodes the instructor enrichment feed.
func (c *Client) FetchInstructors(ctx context.Context) (*InstructorsDocument, error) {
	return fetchDocument[InstructorsDocument](ctx, c, c.instructorsURL)
}

func fetchDocument[T any](ctx context.Context, c *Client, url string) (*T, error) {
	operation := func() (*T, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to build feed request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("feed request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("feed returned status %d", resp.StatusCode))
		}

		var doc T
		decoder := json.NewDecoder(resp.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to decode feed document: %w", err))
		}
		return &doc, nil
	}

	doc, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxRetries),
	)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
