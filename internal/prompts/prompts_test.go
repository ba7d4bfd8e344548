package prompts

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, p Prompt, args map[string]string) string {
	t.Helper()
	req := mcp.GetPromptRequest{}
	req.Params.Name = p.Def.Name
	req.Params.Arguments = args
	res, err := p.Handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	text, ok := res.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestAll_Names(t *testing.T) {
	t.Parallel()

	var names []string
	for _, p := range All(Deps{}) {
		names = append(names, p.Def.Name)
	}
	assert.Equal(t, []string{
		"datetime-guide", "calculate-date-range",
		"find-devices", "inventory-query", "device-hierarchy", "lookup-device",
		"measurements-guide", "analyze-measurements", "measurement-time-range",
		"events-guide", "device-event-types",
		"alarms-guide", "alarm-status",
		"metadata-guide",
		"tenant-context", "audit-query", "applications-guide",
	}, names)
}

func argNames(p Prompt) []string {
	var out []string
	for _, a := range p.Def.Arguments {
		out = append(out, a.Name)
	}
	return out
}

func TestAll_TenantArgumentOnlyInSingleUserMode(t *testing.T) {
	t.Parallel()

	tenantBound := map[string]bool{
		"find-devices": true, "inventory-query": true, "lookup-device": true,
		"analyze-measurements": true, "device-event-types": true, "alarm-status": true,
		"tenant-context": true, "audit-query": true, "applications-guide": true,
	}
	for _, p := range All(Deps{SingleUser: true}) {
		if tenantBound[p.Def.Name] {
			assert.Contains(t, argNames(p), tenantURLArg, p.Def.Name)
		} else {
			assert.NotContains(t, argNames(p), tenantURLArg, p.Def.Name)
		}
	}
	for _, p := range All(Deps{}) {
		assert.NotContains(t, argNames(p), tenantURLArg, p.Def.Name)
	}
}

func TestDateTimeGuide_UsesClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	p := dateTimeGuide(func() time.Time { return fixed })

	text := render(t, p, nil)
	assert.Contains(t, text, "- Date: 2025-03-10\n")
	assert.Contains(t, text, "- Yesterday: 2025-03-09T00:00:00.000Z .. 2025-03-10T00:00:00.000Z\n")
	assert.Contains(t, text, "- Last month: 2025-02-01T00:00:00.000Z .. 2025-03-01T00:00:00.000Z\n")
}

func TestInventoryQuery(t *testing.T) {
	t.Parallel()

	p := inventoryQuery()
	all := render(t, p, nil)
	for _, ex := range inventoryExamples {
		assert.Contains(t, all, ex)
	}

	onlyHas := render(t, p, map[string]string{"queryType": "has"})
	assert.Contains(t, onlyHas, "## Fragment presence")
	assert.NotContains(t, onlyHas, "## Text search")

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"queryType": "sql"}
	_, err := p.Handler(context.Background(), req)
	assert.Error(t, err)
}

func TestCalculateDateRange(t *testing.T) {
	t.Parallel()

	// a Wednesday
	fixed := time.Date(2025, 3, 12, 12, 30, 0, 0, time.UTC)
	text := render(t, calculateDateRange(func() time.Time { return fixed }), nil)

	assert.Contains(t, text, "Current time: 2025-03-12T12:30:00.000Z\n")
	assert.Contains(t, text, "## THIS WEEK\n- dateFrom: 2025-03-10T00:00:00.000Z\n")
	assert.Contains(t, text, "## TODAY\n- dateFrom: 2025-03-12T00:00:00.000Z\n")
	assert.Contains(t, text, "## PAST WEEK\n- dateFrom: 2025-03-05T12:30:00.000Z\n")
	assert.Contains(t, text, "## THIS YEAR\n- dateFrom: 2025-01-01T00:00:00.000Z\n")
}

func TestCalculateDateRange_SundayBelongsToPreviousWeek(t *testing.T) {
	t.Parallel()

	sunday := time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC)
	text := render(t, calculateDateRange(func() time.Time { return sunday }), nil)
	assert.Contains(t, text, "## THIS WEEK\n- dateFrom: 2025-03-10T00:00:00.000Z\n")
}

func TestMeasurementTimeRange(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	p := measurementTimeRange(func() time.Time { return fixed })

	presets := render(t, p, nil)
	assert.Contains(t, presets, "- 7d: Last 7 days (from 2025-03-05T12:00:00.000Z)\n")

	hour := render(t, p, map[string]string{"period": "1h"})
	assert.Contains(t, hour, "## Selected: Last hour\n")
	assert.Contains(t, hour, `dateFrom: "2025-03-12T11:00:00.000Z"`)

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"period": "2w"}
	_, err := p.Handler(context.Background(), req)
	assert.Error(t, err)
}

func TestAlarmStatus(t *testing.T) {
	t.Parallel()

	generic := render(t, alarmStatus(), nil)
	assert.Contains(t, generic, `get-alarm-counts(deviceId: "YOUR_MANAGED_OBJECT_ID")`)
	assert.Contains(t, generic, `get-alarms(status: "ACTIVE", severity: "CRITICAL")`)

	one := render(t, alarmStatus(), map[string]string{"deviceId": "42"})
	assert.Contains(t, one, `get-alarms(status: "ACTIVE", severity: "CRITICAL", deviceId: "42")`)
}
