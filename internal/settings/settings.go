// Package settings holds user preferences: theme, currency, date display and
// dashboard behaviour. Settings are loaded once at start-up and saved on
// every change through a Store.
package settings

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"quotation-desk/internal/core"
)

// Settings are the user preferences.
type Settings struct {
	Theme         string        `json:"theme"`
	Currency      string        `json:"currency"`
	DateFormat    string        `json:"dateFormat"`
	Timezone      string        `json:"timezone"`
	Notifications Notifications `json:"notifications"`
	Dashboard     Dashboard     `json:"dashboard"`
}

type Notifications struct {
	Email         bool `json:"email"`
	Browser       bool `json:"browser"`
	FollowUps     bool `json:"followUps"`
	NewQuotations bool `json:"newQuotations"`
}

type Dashboard struct {
	// RefreshInterval is in milliseconds.
	RefreshInterval    int64 `json:"refreshInterval"`
	ShowRecentActivity bool  `json:"showRecentActivity"`
	ShowUpcomingTasks  bool  `json:"showUpcomingTasks"`
}

var (
	Themes      = []string{"light", "dark"}
	Currencies  = []string{"INR", "USD", "EUR", "GBP"}
	DateFormats = []string{"DD/MM/YYYY", "MM/DD/YYYY", "YYYY-MM-DD"}
)

var dateLayouts = map[string]string{
	"DD/MM/YYYY": "02/01/2006",
	"MM/DD/YYYY": "01/02/2006",
	"YYYY-MM-DD": "2006-01-02",
}

// Defaults returns the settings used before the user changes anything.
func Defaults() Settings {
	return Settings{
		Theme:      "light",
		Currency:   "INR",
		DateFormat: "DD/MM/YYYY",
		Timezone:   "Asia/Kolkata",
		Notifications: Notifications{
			Email:         true,
			Browser:       true,
			FollowUps:     true,
			NewQuotations: true,
		},
		Dashboard: Dashboard{
			RefreshInterval:    300000,
			ShowRecentActivity: true,
			ShowUpcomingTasks:  true,
		},
	}
}

// Validate checks every enumerated field and the timezone name.
func (s Settings) Validate() error {
	if !contains(Themes, s.Theme) {
		return fmt.Errorf("theme %q: want one of %s", s.Theme, strings.Join(Themes, ", "))
	}
	if !contains(Currencies, s.Currency) {
		return fmt.Errorf("currency %q: want one of %s", s.Currency, strings.Join(Currencies, ", "))
	}
	if _, ok := dateLayouts[s.DateFormat]; !ok {
		return fmt.Errorf("date format %q: want one of %s", s.DateFormat, strings.Join(DateFormats, ", "))
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	if s.Dashboard.RefreshInterval < 0 {
		return fmt.Errorf("dashboard refresh interval must not be negative")
	}
	return nil
}

// Location returns the configured timezone, or UTC if it cannot be loaded.
func (s Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatDate renders t in the configured timezone and date format.
func (s Settings) FormatDate(t time.Time) string {
	layout, ok := dateLayouts[s.DateFormat]
	if !ok {
		layout = dateLayouts["DD/MM/YYYY"]
	}
	return t.In(s.Location()).Format(layout)
}

// FormatAmount renders d in the configured currency.
func (s Settings) FormatAmount(d decimal.Decimal) string {
	return core.FormatAmount(d, s.Currency)
}

// RefreshInterval returns the dashboard refresh interval as a duration.
func (s Settings) RefreshInterval() time.Duration {
	return time.Duration(s.Dashboard.RefreshInterval) * time.Millisecond
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
