package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/roster/internal/roster"
)

// Fetcher retrieves the current roster for a sheet.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) Result
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

var (
	// ErrFetchFailure covers transport errors, rejected responses and
	// undecodable payloads.
	ErrFetchFailure = errors.New("fetch failed")
	// ErrEmptyResult means a response parsed but held no usable rows.
	ErrEmptyResult = errors.New("no records in sheet")
)

const unreachableReason = "Unable to access Google Sheet. Please ensure the sheet is public and contains data."

// Result is the outcome of one Fetch call. Exactly one of Records or Err is
// meaningful.
type Result struct {
	Records []roster.Record
	Method  Method
	Err     error
}

// OK reports whether the fetch produced at least one record.
func (r Result) OK() bool {
	return r.Err == nil && len(r.Records) > 0
}

// Client reads published Google Sheets over plain HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    zerolog.Logger
}

const (
	defaultBaseURL   = "https://docs.google.com"
	defaultUserAgent = "roster/0.1"
	requestTimeout   = 5 * time.Second
	maxBodyBytes     = 8 << 20
)

// NewClient builds a Client rooted at baseURL. An empty baseURL targets
// docs.google.com.
func NewClient(baseURL string, logger zerolog.Logger) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    logger.With().Str("component", "sheets").Logger(),
	}, nil
}

// Fetch tries each retrieval strategy in order and returns the first one that
// yields records. It never panics on remote input; every failure is folded
// into Result.Err.
func (c *Client) Fetch(ctx context.Context, src Source) Result {
	if c == nil {
		return Result{Err: fmt.Errorf("%w: client is nil", ErrFetchFailure)}
	}
	if err := src.Validate(); err != nil {
		return Result{Err: err}
	}

	var causes []error
	parsedAny := false
	for _, s := range strategies {
		grid, err := s.grid(ctx, c, src)
		if err != nil {
			c.logger.Debug().Err(err).Str("method", string(s.method)).Msg("strategy failed")
			causes = append(causes, fmt.Errorf("%s: %w", s.method, err))
			continue
		}
		parsedAny = true
		records := roster.ParseGrid(grid)
		if len(records) == 0 {
			causes = append(causes, fmt.Errorf("%s: %w", s.method, ErrEmptyResult))
			continue
		}
		c.logger.Debug().Str("method", string(s.method)).Int("records", len(records)).Msg("fetched roster")
		return Result{Records: records, Method: s.method}
	}

	kind := ErrFetchFailure
	if parsedAny && allEmpty(causes) {
		kind = ErrEmptyResult
	}
	return Result{Err: fmt.Errorf("%w: %s: %w", kind, unreachableReason, errors.Join(causes...))}
}

func allEmpty(causes []error) bool {
	for _, err := range causes {
		if !errors.Is(err, ErrEmptyResult) {
			return false
		}
	}
	return true
}

func (c *Client) getText(ctx context.Context, rel *url.URL) (string, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%s returned status %d", rel.Path, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	text := string(body)
	if err := checkMarkers(text); err != nil {
		return "", err
	}
	return text, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
