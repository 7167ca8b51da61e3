package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"navd/internal/model"
)

// maxPayloadBytes bounds the size of an upstream response.
const maxPayloadBytes = 8 << 20

// HTTPSource fetches the payload from the backend sidebar endpoint.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Header http.Header // Extra request headers, e.g. an API token
}

// NewHTTPSource creates an HTTPSource with a client bounded by timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) (*model.SidebarPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", s.URL, err)
	}
	req.Header.Set("Accept", "application/json")
	for name, values := range s.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstream, s.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}

	payload, err := DecodePayload(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return payload, nil
}
