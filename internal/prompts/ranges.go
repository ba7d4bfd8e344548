package prompts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func isoTime(t time.Time) string { return t.UTC().Format("2006-01-02T15:04:05.000Z") }

type dateRange struct {
	key, label string
	from, to   time.Time
}

// presetRanges are the ranges offered by calculate-date-range. Weeks start
// on Monday; everything is UTC.
func presetRanges(now time.Time) []dateRange {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	return []dateRange{
		{"past_24_hours", "Past 24 hours", now.Add(-24 * time.Hour), now},
		{"past_week", "Past week", now.AddDate(0, 0, -7), now},
		{"past_month", "Past month", now.AddDate(0, 0, -30), now},
		{"past_year", "Past year", now.AddDate(0, 0, -365), now},
		{"today", "Today", today, now},
		{"this_week", "This week", monday, now},
		{"this_month", "This month", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), now},
		{"this_year", "This year", time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC), now},
	}
}

func calculateDateRange(now func() time.Time) Prompt {
	const desc = `Calculate ISO date range for a user query like "past week" or "last month"`
	return Prompt{
		Def: mcp.NewPrompt("calculate-date-range", mcp.WithPromptDescription(desc)),
		Handler: func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			t := now()
			var b strings.Builder
			fmt.Fprintf(&b, "# Pre-calculated Date Ranges\n\nCurrent time: %s\n", isoTime(t))
			for _, r := range presetRanges(t) {
				fmt.Fprintf(&b, "\n## %s\n- dateFrom: %s\n- dateTo: %s\n", strings.ToUpper(strings.ReplaceAll(r.key, "_", " ")), isoTime(r.from), isoTime(r.to))
			}
			b.WriteString("\nUse these exact ISO strings in tool calls.\n")
			return message(desc, b.String()), nil
		},
	}
}

var timeRangePeriods = []struct {
	key, label string
	d          time.Duration
}{
	{"1h", "Last hour", time.Hour},
	{"24h", "Last 24 hours", 24 * time.Hour},
	{"7d", "Last 7 days", 7 * 24 * time.Hour},
	{"30d", "Last 30 days", 30 * 24 * time.Hour},
}

func measurementTimeRange(now func() time.Time) Prompt {
	const desc = "Get help with time range parameters for queries."
	def := mcp.NewPrompt("measurement-time-range",
		mcp.WithPromptDescription(desc),
		mcp.WithArgument("period", mcp.ArgumentDescription("One of 1h, 24h, 7d, 30d, custom. Omit to list the presets.")),
	)
	return Prompt{
		Def: def,
		Handler: func(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			t := now().UTC()
			period := req.Params.Arguments["period"]
			exampleFrom := t.Add(-24 * time.Hour)

			var b strings.Builder
			b.WriteString("# Time Range Query Builder\n\n")
			switch period {
			case "", "custom":
				b.WriteString("## Presets\n")
				for _, p := range timeRangePeriods {
					fmt.Fprintf(&b, "- %s: %s (from %s)\n", p.key, p.label, isoTime(t.Add(-p.d)))
				}
			default:
				found := false
				for _, p := range timeRangePeriods {
					if p.key == period {
						found = true
						exampleFrom = t.Add(-p.d)
						fmt.Fprintf(&b, "## Selected: %s\n    dateFrom: %q\n    dateTo: %q\n", p.label, isoTime(exampleFrom), isoTime(t))
					}
				}
				if !found {
					return nil, fmt.Errorf("unknown period %q", period)
				}
			}
			b.WriteString("\n## Custom ranges\nUse ISO 8601, e.g. \"2024-01-15T00:00:00.000Z\" or \"2024-01-15T14:30:00.000Z\".\n\n")
			fmt.Fprintf(&b, "## Example\n    get-measurements(deviceId: \"12345\", dateFrom: %q, dateTo: %q)\n", isoTime(exampleFrom), isoTime(t))
			return message(desc, b.String()), nil
		},
	}
}
