// Package notion sends content records to Notion databases over the public
// REST API.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/lessondump"
	"golang.org/x/time/rate"
)

// Ensure Client implements lessondump.NoteClient at compile time.
var _ lessondump.NoteClient = (*Client)(nil)

const (
	// DefaultBaseURL is the root of the REST API.
	DefaultBaseURL = "https://api.notion.com/v1"

	// APIVersion is sent as the Notion-Version header.
	APIVersion = "2022-06-28"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// MaxChildren is the most child blocks accepted by one request.
	MaxChildren = 100

	// DefaultRate is the average request rate the API allows per
	// integration.
	DefaultRate = 3
)

// Client creates pages in Notion databases.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRate sets the request rate in requests per second.
func WithRate(r rate.Limit) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(r, 1)
	}
}

// NewClient returns a Client authenticating with an integration token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(DefaultRate, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Send creates a page for rec in the database with ID databaseID and
// returns the URL of the page. Blocks beyond the first MaxChildren are
// appended in further batches.
func (c *Client) Send(ctx context.Context, rec *lessondump.ContentRecord, databaseID string) (string, error) {
	if c.token == "" {
		return "", lessondump.Errorf(lessondump.EINVALID, "notion token required")
	}
	if databaseID == "" {
		return "", lessondump.Errorf(lessondump.EINVALID, "notion database required")
	}

	blocks := Blocks(rec)
	first := blocks[:min(len(blocks), MaxChildren)]
	body := map[string]any{
		"parent":     map[string]string{"database_id": databaseID},
		"properties": Properties(rec),
		"children":   first,
	}

	var created page
	if err := c.do(ctx, http.MethodPost, "/pages", body, &created); err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}

	for rest := blocks[len(first):]; len(rest) > 0; {
		batch := rest[:min(len(rest), MaxChildren)]
		rest = rest[len(batch):]
		path := "/blocks/" + created.ID + "/children"
		if err := c.do(ctx, http.MethodPatch, path, map[string]any{"children": batch}, nil); err != nil {
			return created.URL, fmt.Errorf("append blocks: %w", err)
		}
	}
	return created.URL, nil
}

// Properties returns the database properties of rec. The database is
// expected to carry Type, Exercise Type, Language and URL columns.
func Properties(rec *lessondump.ContentRecord) map[string]any {
	title := rec.Title
	if title == "" {
		title = "Untitled"
	}
	props := map[string]any{
		"title": map[string]any{"title": richText(title)},
		"Type":  selectValue(contentTypeName(rec.ContentType)),
	}
	if rec.ExerciseType != "" {
		props["Exercise Type"] = selectValue(exerciseTypeName(rec.ExerciseType))
	}
	if rec.Language != "" {
		props["Language"] = selectValue(lessondump.LanguageDisplayName(rec.Language))
	}
	if rec.URL != "" {
		props["URL"] = map[string]any{"url": rec.URL}
	}
	return props
}

func selectValue(name string) map[string]any {
	return map[string]any{"select": map[string]string{"name": name}}
}

func contentTypeName(t lessondump.ContentType) string {
	if t == lessondump.ContentChallenge {
		return "Challenge"
	}
	return "Lesson"
}

func exerciseTypeName(t lessondump.ExerciseType) string {
	switch t {
	case lessondump.ExerciseInterview:
		return "Interview"
	case lessondump.ExerciseMultipleChoice:
		return "Multiple Choice"
	case lessondump.ExerciseFreeText:
		return "Free Text"
	case lessondump.ExerciseCLI:
		return "CLI"
	}
	return "Coding"
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", APIVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e apiError
		_ = json.Unmarshal(data, &e)
		if e.Message == "" {
			e.Message = fmt.Sprintf("notion API error: %d", resp.StatusCode)
		}
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return lessondump.Errorf(lessondump.EINVALID, "%s", e.Message)
		case http.StatusNotFound:
			return lessondump.Errorf(lessondump.ENOTFOUND, "%s", e.Message)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, e.Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
