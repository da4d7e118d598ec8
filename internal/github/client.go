// Package github fetches repository issues from the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
	"go.uber.org/zap"
)

const (
	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "burndown-cli"

	// maxErrorBody caps how much of a failed response is read for its message.
	maxErrorBody = 4 << 10
)

// Client implements contract.IssueClient over net/http.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	perPage      int
	maxPages     int
	excludePulls bool
	log          *zap.SugaredLogger
}

var _ contract.IssueClient = &Client{} // Compile-time check

// NewClient creates a client from the validated config.
func NewClient(cfg *contract.Config, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      cfg.APIURL,
		token:        cfg.Token,
		perPage:      cfg.PerPage,
		maxPages:     cfg.MaxPages,
		excludePulls: cfg.ExcludePulls,
		log:          log,
	}
}

// IssuesURL returns the first-page URL for a repository's issues.
func IssuesURL(baseURL, owner, repo string, perPage int) string {
	return fmt.Sprintf("%s/repos/%s/%s/issues?state=all&per_page=%d",
		baseURL, url.PathEscape(owner), url.PathEscape(repo), perPage)
}

// ListIssues implements the contract.IssueClient interface.
// It follows rel="next" links until the page cap is reached; a cap of zero
// follows every page.
func (c *Client) ListIssues(ctx context.Context, owner, repo string) (schema.IssueListing, error) {
	var listing schema.IssueListing
	next := IssuesURL(c.baseURL, owner, repo, c.perPage)

	for next != "" {
		if c.maxPages > 0 && listing.Pages >= c.maxPages {
			listing.Truncated = true
			break
		}
		if err := c.checkOrigin(next); err != nil {
			return schema.IssueListing{}, err
		}
		issues, link, err := c.fetchPage(ctx, next)
		if err != nil {
			return schema.IssueListing{}, err
		}
		listing.Pages++
		for _, issue := range issues {
			if c.excludePulls && issue.IsPullRequest() {
				continue
			}
			listing.Issues = append(listing.Issues, issue)
		}
		next = link
	}
	return listing, nil
}

// checkOrigin rejects page URLs whose scheme or host differ from the API base,
// so the token only ever goes to the configured server.
func (c *Client) checkOrigin(pageURL string) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", c.baseURL, err)
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return &schema.ParseError{Field: "Link header", Value: pageURL, Err: err}
	}
	if !strings.EqualFold(u.Scheme, base.Scheme) || !strings.EqualFold(u.Host, base.Host) {
		return fmt.Errorf("refusing to follow next page on %s://%s: API is %s", u.Scheme, u.Host, c.baseURL)
	}
	return nil
}

// fetchPage performs one GET and returns the decoded issues plus the next page URL.
func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]schema.Issue, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debugw("http", "method", req.Method, "url", pageURL, "error", err)
		return nil, "", &schema.NetworkError{URL: pageURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debugw("http",
		"method", req.Method,
		"url", pageURL,
		"status", resp.StatusCode,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
		"rate_remaining", resp.Header.Get("X-RateLimit-Remaining"),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, "", &schema.HTTPError{
			StatusCode: resp.StatusCode,
			URL:        pageURL,
			Message:    errorMessage(body),
		}
	}

	var issues []schema.Issue
	if err := json.NewDecoder(resp.Body).Decode(&issues); err != nil {
		return nil, "", &schema.ParseError{Field: "response body", Err: err}
	}
	return issues, nextLink(resp.Header.Get("Link")), nil
}

// errorMessage extracts the API's "message" field, falling back to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}

// nextLink returns the rel="next" target of an RFC 8288 Link header.
func nextLink(header string) string {
	for part := range strings.SplitSeq(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range segments[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return target[1 : len(target)-1]
			}
		}
	}
	return ""
}
