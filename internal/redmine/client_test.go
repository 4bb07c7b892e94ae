package redmine_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tikomo/redmine-punch/internal/redmine"
)

func TestListTimeEntriesQueryAndAuth(t *testing.T) {
	var gotKey, gotSpentOn, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Redmine-API-Key")
		gotSpentOn = r.URL.Query().Get("spent_on")
		gotUser = r.URL.Query().Get("user_id")
		fmt.Fprint(w, `{"time_entries":[{"id":5,"issue":{"id":100},"hours":1.5,"spent_on":"2026-09-07"}]}`)
	}))
	defer srv.Close()

	c := redmine.NewClient(srv.URL, "secret")
	from := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC)
	entries, err := c.ListTimeEntries(context.Background(), from, to)
	if err != nil {
		t.Fatalf("ListTimeEntries: %v", err)
	}

	if gotKey != "secret" {
		t.Errorf("X-Redmine-API-Key = %q", gotKey)
	}
	if gotUser != "me" {
		t.Errorf("user_id = %q", gotUser)
	}
	if gotSpentOn != "><2026-09-01|2026-09-30" {
		t.Errorf("spent_on = %q", gotSpentOn)
	}
	if len(entries) != 1 || entries[0].ID != 5 || entries[0].Issue.ID != 100 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestListTimeEntriesPagination(t *testing.T) {
	// First page is full (100 entries) so the client must fetch a second one.
	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)

		var page struct {
			TimeEntries []redmine.TimeEntry `json:"time_entries"`
		}
		if offset == "0" {
			for i := 0; i < 100; i++ {
				page.TimeEntries = append(page.TimeEntries, redmine.TimeEntry{ID: i + 1})
			}
		} else {
			page.TimeEntries = []redmine.TimeEntry{{ID: 101}}
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	c := redmine.NewClient(srv.URL, "secret")
	entries, err := c.ListTimeEntries(context.Background(), time.Now(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 101 {
		t.Errorf("got %d entries, want 101", len(entries))
	}
	if len(offsets) != 2 || offsets[1] != "100" {
		t.Errorf("offsets = %v, want [0 100]", offsets)
	}
}

func TestCreateTimeEntry(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/time_entries.json" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"time_entry":{"id":321}}`)
	}))
	defer srv.Close()

	c := redmine.NewClient(srv.URL, "secret")
	id, err := c.CreateTimeEntry(context.Background(), 100, 1.5, 9, "standup", "2026-09-07")
	if err != nil {
		t.Fatalf("CreateTimeEntry: %v", err)
	}
	if id != 321 {
		t.Errorf("id = %d, want 321", id)
	}

	var req map[string]map[string]any
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("request body: %v", err)
	}
	te := req["time_entry"]
	if te["issue_id"] != float64(100) || te["hours"] != 1.5 || te["spent_on"] != "2026-09-07" {
		t.Errorf("payload = %v", te)
	}
}

func TestUpdateTimeEntry(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := redmine.NewClient(srv.URL, "secret")
	if err := c.UpdateTimeEntry(context.Background(), 77, 2, 9, ""); err != nil {
		t.Fatalf("UpdateTimeEntry: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/time_entries/77.json" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestAPIErrorIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"errors":["Hours is invalid"]}`)
	}))
	defer srv.Close()

	c := redmine.NewClient(srv.URL, "secret")
	_, err := c.CreateTimeEntry(context.Background(), 100, -1, 9, "", "2026-09-07")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "422") || !strings.Contains(msg, "Hours is invalid") {
		t.Errorf("error = %q", msg)
	}
}

func TestActivitiesFiltersInactive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"time_entry_activities":[
			{"id":8,"name":"Design","active":true},
			{"id":9,"name":"Development","is_default":true,"active":true},
			{"id":10,"name":"Legacy","active":false}]}`)
	}))
	defer srv.Close()

	c := redmine.NewClient(srv.URL, "secret")
	activities, err := c.Activities(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(activities))
	}
	for _, a := range activities {
		if !a.Active {
			t.Errorf("inactive activity %q returned", a.Name)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/current.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"user":{"id":3,"login":"tikomo","firstname":"Ti","lastname":"Komo"}}`)
	}))
	defer srv.Close()

	c := redmine.NewClient(srv.URL, "secret")
	u, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if u.Login != "tikomo" || u.ID != 3 {
		t.Errorf("user = %+v", u)
	}
}

func TestIssueNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := redmine.NewClient(srv.URL, "secret")
	if _, err := c.Issue(context.Background(), 12345); err == nil {
		t.Error("expected error for missing issue")
	}
}
