package redmine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/tikomo/redmine-punch/internal/dates"
)

// Client is an authenticated Redmine REST API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client authenticating with the X-Redmine-API-Key header.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewOAuthClient creates a client whose requests carry an OAuth2 bearer
// token, transparently refreshing and persisting it.
func NewOAuthClient(ctx context.Context, baseURL string, tok *oauth2.Token, cfg *oauth2.Config) *Client {
	ts := cfg.TokenSource(ctx, tok)
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, &savingTokenSource{ts: ts}),
	}
}

// TimeEntry is a time entry as returned by GET /time_entries.json.
type TimeEntry struct {
	ID       int         `json:"id"`
	Issue    IssueRef    `json:"issue"`
	Hours    float64     `json:"hours"`
	Activity ActivityRef `json:"activity"`
	Comments string      `json:"comments"`
	SpentOn  string      `json:"spent_on"`
}

// IssueRef is the issue reference embedded in a time entry.
type IssueRef struct {
	ID int `json:"id"`
}

// ActivityRef is the activity reference embedded in a time entry.
type ActivityRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Activity is a time-entry activity enumeration value.
type Activity struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
	Active    bool   `json:"active"`
}

// NamedRef is a generic id/name reference.
type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Issue is the subset of an issue needed by punch.
type Issue struct {
	ID      int      `json:"id"`
	Subject string   `json:"subject"`
	Project NamedRef `json:"project"`
	Tracker NamedRef `json:"tracker"`
}

// IssueFields is the payload for creating an issue.
type IssueFields struct {
	ProjectID     int    `json:"project_id,omitempty"`
	ParentIssueID int    `json:"parent_issue_id,omitempty"`
	TrackerID     int    `json:"tracker_id,omitempty"`
	Subject       string `json:"subject"`
	Description   string `json:"description,omitempty"`
}

// User is the authenticated Redmine user.
type User struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Project is a Redmine project.
type Project struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

type timeEntryFields struct {
	IssueID    int     `json:"issue_id,omitempty"`
	Hours      float64 `json:"hours"`
	ActivityID int     `json:"activity_id"`
	Comments   string  `json:"comments,omitempty"`
	SpentOn    string  `json:"spent_on,omitempty"`
}

type timeEntryRequest struct {
	TimeEntry timeEntryFields `json:"time_entry"`
}

// do issues one JSON request. Non-2xx responses become errors carrying the
// response body, which the bulk-apply loop records verbatim.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Redmine-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("redmine request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("redmine API error %d on %s %s: %s",
			resp.StatusCode, method, path, strings.TrimSpace(string(data)))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding redmine response: %w", err)
		}
	}
	return nil
}

// ListTimeEntries fetches the caller's time entries with spent_on in
// [from, to], following offset pagination until exhausted.
func (c *Client) ListTimeEntries(ctx context.Context, from, to time.Time) ([]TimeEntry, error) {
	const limit = 100
	var all []TimeEntry
	for offset := 0; ; offset += limit {
		q := url.Values{
			"user_id":  {"me"},
			"spent_on": {fmt.Sprintf("><%s|%s", dates.Format(from), dates.Format(to))},
			"limit":    {strconv.Itoa(limit)},
			"offset":   {strconv.Itoa(offset)},
		}
		var page struct {
			TimeEntries []TimeEntry `json:"time_entries"`
		}
		if err := c.do(ctx, http.MethodGet, "/time_entries.json", q, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.TimeEntries...)
		if len(page.TimeEntries) < limit {
			break
		}
	}
	return all, nil
}

// CreateTimeEntry creates a time entry and returns its id.
func (c *Client) CreateTimeEntry(ctx context.Context, issueID int, hours float64, activityID int, comments, spentOn string) (int, error) {
	body := timeEntryRequest{TimeEntry: timeEntryFields{
		IssueID:    issueID,
		Hours:      hours,
		ActivityID: activityID,
		Comments:   comments,
		SpentOn:    spentOn,
	}}
	var resp struct {
		TimeEntry struct {
			ID int `json:"id"`
		} `json:"time_entry"`
	}
	if err := c.do(ctx, http.MethodPost, "/time_entries.json", nil, body, &resp); err != nil {
		return 0, err
	}
	return resp.TimeEntry.ID, nil
}

// UpdateTimeEntry overwrites an existing time entry's hours, activity and
// comments.
func (c *Client) UpdateTimeEntry(ctx context.Context, id int, hours float64, activityID int, comments string) error {
	body := timeEntryRequest{TimeEntry: timeEntryFields{
		Hours:      hours,
		ActivityID: activityID,
		Comments:   comments,
	}}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/time_entries/%d.json", id), nil, body, nil)
}

// Activities fetches the time-entry activity enumeration, active values only.
func (c *Client) Activities(ctx context.Context) ([]Activity, error) {
	var resp struct {
		TimeEntryActivities []Activity `json:"time_entry_activities"`
	}
	if err := c.do(ctx, http.MethodGet, "/enumerations/time_entry_activities.json", nil, nil, &resp); err != nil {
		return nil, err
	}
	var active []Activity
	for _, a := range resp.TimeEntryActivities {
		if a.Active {
			active = append(active, a)
		}
	}
	return active, nil
}

// Issue fetches a single issue.
func (c *Client) Issue(ctx context.Context, id int) (*Issue, error) {
	var resp struct {
		Issue *Issue `json:"issue"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/issues/%d.json", id), nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Issue == nil {
		return nil, fmt.Errorf("issue #%d not found", id)
	}
	return resp.Issue, nil
}

// CreateIssue creates an issue and returns its id.
func (c *Client) CreateIssue(ctx context.Context, fields IssueFields) (int, error) {
	body := struct {
		Issue IssueFields `json:"issue"`
	}{Issue: fields}
	var resp struct {
		Issue struct {
			ID int `json:"id"`
		} `json:"issue"`
	}
	if err := c.do(ctx, http.MethodPost, "/issues.json", nil, body, &resp); err != nil {
		return 0, err
	}
	return resp.Issue.ID, nil
}

// CurrentUser fetches the authenticated user, doubling as a connection check.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/current.json", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("empty user response")
	}
	return resp.User, nil
}

// Projects fetches the projects visible to the caller.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var resp struct {
		Projects []Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/projects.json", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}
