package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/tikomo/redmine-punch/internal/config"
	"github.com/tikomo/redmine-punch/internal/dates"
	"github.com/tikomo/redmine-punch/internal/redmine"
)

// resolveMonth parses a --month value (YYYY-MM), defaulting to the current
// month. The returned time is the first day of the month.
func resolveMonth(value string) (time.Time, error) {
	if value == "" {
		return dates.MonthStart(time.Now()), nil
	}
	return dates.ParseMonth(value)
}

// newRedmineClient builds a client from ~/.punch/config.json, honouring the
// configured auth mode.
func newRedmineClient(ctx context.Context) (*redmine.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	rc := cfg.Redmine
	if !rc.Configured() {
		return nil, fmt.Errorf("redmine connection not configured; edit ~/.punch/config.json")
	}
	if rc.Auth == "oauth" {
		tok, ocfg, err := redmine.Authenticate(ctx, rc.BaseURL, rc.OAuthClientID)
		if err != nil {
			return nil, fmt.Errorf("authentication failed: %w", err)
		}
		return redmine.NewOAuthClient(ctx, rc.BaseURL, tok, ocfg), nil
	}
	return redmine.NewClient(rc.BaseURL, rc.APIKey), nil
}
