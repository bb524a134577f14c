package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"quotation-desk/internal/core"
)

// DailyReport fetches the activity digest for the calendar day of date.
func (c *Client) DailyReport(ctx context.Context, date time.Time) (core.DailyReport, error) {
	day := date.Format(time.DateOnly)
	var r core.DailyReport
	if err := c.getObject(ctx, "/daily-report/"+day, &r, "date", "today"); err != nil {
		return core.DailyReport{}, fmt.Errorf("daily report %s: %w", day, err)
	}
	return r, nil
}

// Health pings the API.
func (c *Client) Health(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	return nil
}
