package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sink delivers one write request to the spreadsheet side.
type Sink interface {
	Write(ctx context.Context, req Request) (Response, error)
}

var (
	_ Sink = (*HTTPSink)(nil)
	_ Sink = (*SimulatedSink)(nil)
)

const (
	defaultUserAgent  = "roster/0.1"
	writeTimeout      = 15 * time.Second
	maxResponseBytes  = 1 << 20
	defaultSimulation = 800 * time.Millisecond
)

// HTTPSink posts requests to a deployed Apps Script web app.
type HTTPSink struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
}

// NewHTTPSink builds a sink for the given web-app URL.
func NewHTTPSink(endpoint string) (*HTTPSink, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("write url is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse write url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("write url %q must be http or https", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("write url %q has no host", endpoint)
	}
	return &HTTPSink{
		endpoint: u,
		http: &http.Client{
			Timeout: writeTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Write sends req as JSON and decodes the endpoint's reply. A reply with
// success=false is returned without error; the caller decides what it means.
func (s *HTTPSink) Write(ctx context.Context, req Request) (Response, error) {
	if s == nil {
		return Response{}, fmt.Errorf("sink is nil")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", s.userAgent)

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return Response{}, fmt.Errorf("write endpoint returned status %d", resp.StatusCode)
	}
	var payload Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

// SimulatedSink stands in for a write endpoint when none is configured. It
// waits Delay and then reports success.
type SimulatedSink struct {
	Delay time.Duration
}

// NewSimulatedSink returns a sink with the default simulated latency.
func NewSimulatedSink() *SimulatedSink {
	return &SimulatedSink{Delay: defaultSimulation}
}

func (s *SimulatedSink) Write(ctx context.Context, req Request) (Response, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case <-timer.C:
		}
	}
	return Response{
		Success: true,
		Message: fmt.Sprintf("Employee %s Google Sheets successfully", req.Action.pastTense()),
	}, nil
}
