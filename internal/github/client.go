// Package github resolves pull request references to their metadata through
// the GitHub GraphQL API. All lookups for a run are issued concurrently and
// awaited jointly; a failed lookup surfaces as an error slot, never as an
// aborted run.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/raveheart1/shiplog/internal/changelog"
	"github.com/raveheart1/shiplog/internal/git"
)

// Client issues GraphQL queries for pull request metadata.
type Client struct {
	endpoint   string
	httpClient *http.Client
	// maxConcurrent caps the fan-out. 0 means one in-flight request per
	// reference.
	maxConcurrent int
}

// Option configures a Client.
type Option func(*Client)

// WithMaxConcurrent sets a ceiling on concurrent requests. Zero or negative
// keeps the fan-out unlimited.
func WithMaxConcurrent(n int) Option {
	return func(c *Client) {
		c.maxConcurrent = n
	}
}

// WithHTTPClient substitutes the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given endpoint. When token is non-empty
// every request carries it as a bearer credential; when empty, requests go
// out unauthenticated and the API is expected to reject them, which turns
// each lookup into an error slot.
func NewClient(endpoint, token string, opts ...Option) *Client {
	c := &Client{endpoint: endpoint}

	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		c.httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		c.httpClient = &http.Client{}
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of one pull request lookup. Exactly one of Record
// and Err is set.
type Result struct {
	Record *changelog.Record
	Err    error
}

// FetchAll resolves every reference concurrently. The returned slice has one
// slot per input reference, in input order, regardless of the order the
// responses arrive in. Individual failures populate their slot's Err; they
// never abort the other lookups.
func (c *Client) FetchAll(ctx context.Context, origin git.Origin, refs []int) []Result {
	results := make([]Result, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	if c.maxConcurrent > 0 {
		g.SetLimit(c.maxConcurrent)
	}

	for i, ref := range refs {
		g.Go(func() error {
			record, err := c.fetchOne(ctx, origin, ref)
			if err != nil {
				results[i] = Result{Err: fmt.Errorf("pull request #%d: %w", ref, err)}
				return nil
			}
			results[i] = Result{Record: record}
			return nil
		})
	}

	// Goroutines only write their own slot and never return errors, so Wait
	// is purely a join point.
	_ = g.Wait()
	return results
}

// pullRequestQuery is the GraphQL document sent for each reference.
// Author name is preferred over the login handle; the fallback happens in
// toRecord since only User accounts carry a name.
const pullRequestQuery = `query {
  repository(owner: %q, name: %q) {
    pullRequest(number: %d) {
      title
      number
      mergedAt
      body
      url
      additions
      deletions
      author {
        login
        url
        ... on User {
          name
        }
      }
    }
  }
}`

// graphQLResponse mirrors the wire shape: either data.repository.pullRequest
// is present or errors is non-empty.
type graphQLResponse struct {
	Data struct {
		Repository struct {
			PullRequest *pullRequestPayload `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type pullRequestPayload struct {
	Title     string    `json:"title"`
	Number    int       `json:"number"`
	MergedAt  time.Time `json:"mergedAt"`
	Body      string    `json:"body"`
	URL       string    `json:"url"`
	Additions int       `json:"additions"`
	Deletions int       `json:"deletions"`
	Author    struct {
		Login string `json:"login"`
		URL   string `json:"url"`
		Name  string `json:"name"`
	} `json:"author"`
}

// fetchOne issues a single GraphQL POST and decodes the pull request payload.
func (c *Client) fetchOne(ctx context.Context, origin git.Origin, number int) (*changelog.Record, error) {
	query := fmt.Sprintf(pullRequestQuery, origin.Owner, origin.Repo, number)

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var decoded graphQLResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		messages := make([]string, len(decoded.Errors))
		for i, e := range decoded.Errors {
			messages[i] = e.Message
		}
		return nil, fmt.Errorf("api error: %s", strings.Join(messages, "; "))
	}

	pr := decoded.Data.Repository.PullRequest
	if pr == nil {
		return nil, fmt.Errorf("response contains no pull request")
	}

	return toRecord(pr), nil
}

// toRecord converts the wire payload into the domain record, preferring the
// author's display name and falling back to the login handle.
func toRecord(pr *pullRequestPayload) *changelog.Record {
	name := pr.Author.Name
	if name == "" {
		name = pr.Author.Login
	}

	return &changelog.Record{
		Number:    pr.Number,
		Title:     pr.Title,
		URL:       pr.URL,
		MergedAt:  pr.MergedAt,
		Body:      pr.Body,
		Additions: pr.Additions,
		Deletions: pr.Deletions,
		Author: changelog.Author{
			Name: name,
			URL:  pr.Author.URL,
		},
	}
}
