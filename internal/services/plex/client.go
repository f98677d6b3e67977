package plex

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"gainhound/internal/config"
	"gainhound/internal/services"
)

const userAgent = "Gainhound/0.1.0"

// Section identifies a Plex library section.
type Section struct {
	Key   string
	Title string
	Type  string
}

// Client talks to a Plex Media Server over its HTTP API.
type Client struct {
	baseURL string
	token   string
	library string
	client  *http.Client
	fold    cases.Caser
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client (primarily for tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

// NewClient constructs a Plex client from configuration.
func NewClient(cfg config.Plex, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	token := strings.TrimSpace(cfg.Token)
	if baseURL == "" || token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "plex", "new client", "plex.url and plex.token must be set", nil)
	}

	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL: baseURL,
		token:   token,
		library: strings.TrimSpace(cfg.Library),
		client:  &http.Client{Timeout: timeout},
		fold:    cases.Fold(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// WaitReady polls the sections endpoint until the server answers or the
// attempts are exhausted.
func (c *Client) WaitReady(ctx context.Context, attempts int, delay time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if _, err := c.Sections(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return services.Wrap(services.ErrTimeout, "plex", "wait ready", "server did not come online", lastErr)
}

// Sections lists the server's library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/library/sections")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch plex sections: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, statusError("sections", resp)
	}

	type directory struct {
		Key   string `xml:"key,attr"`
		Title string `xml:"title,attr"`
		Type  string `xml:"type,attr"`
	}
	type mediaContainer struct {
		Directories []directory `xml:"Directory"`
	}

	var container mediaContainer
	if err := xml.NewDecoder(resp.Body).Decode(&container); err != nil {
		return nil, fmt.Errorf("decode plex sections: %w", err)
	}

	sections := make([]Section, 0, len(container.Directories))
	for _, dir := range container.Directories {
		if dir.Key == "" || dir.Title == "" {
			continue
		}
		sections = append(sections, Section{Key: dir.Key, Title: dir.Title, Type: dir.Type})
	}
	return sections, nil
}

// MusicSection resolves the configured library by title, falling back to the
// first artist-type section when the title does not match.
func (c *Client) MusicSection(ctx context.Context) (Section, error) {
	sections, err := c.Sections(ctx)
	if err != nil {
		return Section{}, err
	}

	want := c.fold.String(c.library)
	for _, section := range sections {
		if c.fold.String(section.Title) == want {
			return section, nil
		}
	}
	for _, section := range sections {
		if section.Type == "artist" {
			return section, nil
		}
	}
	return Section{}, fmt.Errorf("plex library %q not found and no music sections detected", c.library)
}

// ScanLibrary submits a "Scan Library Files" request for the music section.
func (c *Client) ScanLibrary(ctx context.Context) error {
	section, err := c.MusicSection(ctx)
	if err != nil {
		return err
	}
	return c.simpleGet(ctx, fmt.Sprintf("/library/sections/%s/refresh", section.Key), "scan")
}

// AnalyzeLibrary schedules analyze jobs for the music section. Server-side
// settings decide whether loudness or sonic analysis actually runs.
func (c *Client) AnalyzeLibrary(ctx context.Context) error {
	section, err := c.MusicSection(ctx)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/library/sections/%s/analyze", section.Key))
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analyze plex library: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return statusError("analyze", resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ClearAnalysis drops track analysis data for every music section and returns
// the titles it touched.
func (c *Client) ClearAnalysis(ctx context.Context) ([]string, error) {
	sections, err := c.Sections(ctx)
	if err != nil {
		return nil, err
	}

	var cleared []string
	for _, section := range sections {
		if section.Type != "artist" {
			continue
		}
		if err := c.simpleGet(ctx, fmt.Sprintf("/library/sections/%s/unmatch", section.Key), "clear analysis"); err != nil {
			return cleared, err
		}
		cleared = append(cleared, section.Title)
	}
	if len(cleared) == 0 {
		return nil, errors.New("no music libraries found")
	}
	return cleared, nil
}

func (c *Client) simpleGet(ctx context.Context, path, operation string) error {
	req, err := c.newRequest(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", operation, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return statusError(operation, resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build plex request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

func statusError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return fmt.Errorf("plex %s returned %d: %s", operation, resp.StatusCode, strings.TrimSpace(string(body)))
}
