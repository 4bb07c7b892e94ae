// Package issuetree turns an indented text outline into a Redmine issue
// hierarchy under an existing parent issue.
package issuetree

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tikomo/redmine-punch/internal/redmine"
)

// Item is one outline line with its normalized depth (0, 1, 2, ...).
type Item struct {
	Title string
	Depth int
}

// ParseOutline splits text into items. Leading spaces determine nesting; a
// tab counts as 4 spaces. Raw indents are normalized so that the distinct
// indent widths map to consecutive depths.
func ParseOutline(text string) []Item {
	type rawItem struct {
		title  string
		indent int
	}
	var raw []rawItem
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := 0
		for _, c := range line {
			if c == ' ' {
				indent++
			} else if c == '\t' {
				indent += 4
			} else {
				break
			}
		}
		raw = append(raw, rawItem{title: strings.TrimSpace(line), indent: indent})
	}

	seen := map[int]struct{}{}
	var widths []int
	for _, r := range raw {
		if _, ok := seen[r.indent]; !ok {
			seen[r.indent] = struct{}{}
			widths = append(widths, r.indent)
		}
	}
	sort.Ints(widths)
	depthOf := map[int]int{}
	for i, w := range widths {
		depthOf[w] = i
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, Item{Title: r.title, Depth: depthOf[r.indent]})
	}
	return items
}

// Creator is the remote surface needed to build the hierarchy. It is
// satisfied by *redmine.Client.
type Creator interface {
	Issue(ctx context.Context, id int) (*redmine.Issue, error)
	CreateIssue(ctx context.Context, fields redmine.IssueFields) (int, error)
}

// Result holds the counters and log of one hierarchy creation.
type Result struct {
	Created int
	Errors  int
	Log     []string
}

// Create builds the issues in outline order under parentID, inheriting the
// parent's project and tracker. Each item's parent is the most recently
// created issue one depth above it; depth-0 items attach to parentID.
// Failures are logged and the pass continues, so a failed branch root leaves
// its children attached to the previous issue at that level.
func Create(ctx context.Context, c Creator, parentID int, description string, items []Item, progress io.Writer) (Result, error) {
	var res Result
	logf := func(format string, args ...any) {
		line := fmt.Sprintf(format, args...)
		res.Log = append(res.Log, line)
		fmt.Fprintln(progress, line)
	}

	root, err := c.Issue(ctx, parentID)
	if err != nil {
		return res, fmt.Errorf("loading parent issue #%d: %w", parentID, err)
	}

	parentByDepth := map[int]int{-1: parentID}
	for _, item := range items {
		currentParent := parentID
		if item.Depth > 0 {
			if id, ok := parentByDepth[item.Depth-1]; ok {
				currentParent = id
			}
		}

		logf("POST /issues.json (%q under #%d)", item.Title, currentParent)
		id, err := c.CreateIssue(ctx, redmine.IssueFields{
			ProjectID:     root.Project.ID,
			ParentIssueID: currentParent,
			TrackerID:     root.Tracker.ID,
			Subject:       item.Title,
			Description:   description,
		})
		if err != nil {
			res.Errors++
			logf("  ! error: %v", err)
			continue
		}
		res.Created++
		parentByDepth[item.Depth] = id
		logf("  ✓ created #%d", id)
	}

	return res, nil
}
