package prompts

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"c8ymcp/internal/c8y"
)

func objectPath(id string) string {
	return "/inventory/managedObjects/" + url.PathEscape(id)
}

func fetchObject(ctx context.Context, c *c8y.Client, id string) (map[string]any, error) {
	var mo map[string]any
	if err := c.Get(ctx, objectPath(id), nil, &mo); err != nil {
		return nil, err
	}
	return mo, nil
}

func fetchSupportedSeries(ctx context.Context, c *c8y.Client, id string) ([]string, error) {
	var out struct {
		Series []string `json:"c8y_SupportedSeries"`
	}
	if err := c.Get(ctx, objectPath(id)+"/supportedSeries", nil, &out); err != nil {
		return nil, err
	}
	return out.Series, nil
}

// field renders m[k] as text, or def when absent.
func field(m map[string]any, k, def string) string {
	v, ok := m[k]
	if !ok || v == nil {
		return def
	}
	return fmt.Sprint(v)
}

func deviceIDArg(desc string) mcp.PromptOption {
	return mcp.WithArgument("deviceId", mcp.ArgumentDescription(desc), mcp.RequiredArgument())
}

func findDevices() Prompt {
	const desc = "Get guidance on finding devices in the inventory."
	def := mcp.NewPrompt("find-devices",
		mcp.WithPromptDescription(desc),
		mcp.WithArgument("context", mcp.ArgumentDescription("What kind of device are you looking for?")),
	)
	return Prompt{
		Def: def,
		Handler: func(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			looking := req.Params.Arguments["context"]
			if looking == "" {
				looking = "devices"
			}
			return message(desc, fmt.Sprintf(`# Finding Devices

Looking for: %s

## Workflow
1. Start with a filter: query-inventory(query: "$filter=(name eq 'MyDevice')")
2. Match a name pattern: query-inventory(query: "$filter=contains(name,'Sensor')")
3. Match a capability: query-inventory(query: "$filter=has(c8y_IsDevice)")
4. Walk groups with list-children.
5. Fetch one object with get-object(id: "12345") when the ID is known.

Never list the whole inventory; filter every query. get-supported-series
shows what a device measures.
`, looking)), nil
		},
	}
}

func deviceHierarchy() Prompt {
	return static("device-hierarchy", "Understand and navigate device/group hierarchy.", `# Device Hierarchy

    Tenant
    ├── Device group (c8y_IsDeviceGroup)
    │   ├── Sub-group
    │   │   └── Device (c8y_IsDevice)
    │   └── Device
    ├── Device group
    │   └── Asset
    │       └── Child device
    └── Root device

## Navigation
1. Find a group: query-inventory(query: "$filter=has(c8y_IsDeviceGroup) and (name eq '*Building*')")
2. List its members: list-children(id: "<group id>", type: "asset")
3. Open a device: get-object(id: "<device id>")
4. See what it measures: get-supported-series(deviceId: "<device id>")

Groups organize devices. Assets model physical things such as buildings or
machines. Devices produce measurements, events and alarms.
`)
}

func (d Deps) lookupDevice() Prompt {
	def := mcp.NewPrompt("lookup-device",
		mcp.WithPromptDescription("Look up a device and see what data it provides."),
		deviceIDArg("Device ID to look up"),
	)
	return d.resolved(def, "Error looking up device", func(ctx context.Context, c *c8y.Client, args map[string]string) (string, error) {
		id := args["deviceId"]
		device, err := fetchObject(ctx, c, id)
		if err != nil {
			return "", err
		}
		series, err := fetchSupportedSeries(ctx, c, id)
		if err != nil {
			return "", err
		}
		q := c8y.PageQuery(5, 0)
		q.Set("source", id)
		q.Set("resolved", "false")
		alarms, err := c.List(ctx, "/alarm/alarms", "alarms", q)
		if err != nil {
			return "", err
		}

		var b strings.Builder
		fmt.Fprintf(&b, "# Device: %s (%s)\n\n## Basic info\n", field(device, "name", "Unknown"), id)
		fmt.Fprintf(&b, "- Type: %s\n- Owner: %s\n", field(device, "type", "N/A"), field(device, "owner", "N/A"))
		_, isDevice := device["c8y_IsDevice"]
		fmt.Fprintf(&b, "- Is device: %t\n\n", isDevice)

		fmt.Fprintf(&b, "## Supported measurements (%d)\n", len(series))
		if len(series) == 0 {
			b.WriteString("No measurement series found\n")
		}
		for _, s := range series {
			fmt.Fprintf(&b, "- %s\n", s)
		}

		fmt.Fprintf(&b, "\n## Active alarms (%d)\n", len(alarms.Items))
		if len(alarms.Items) == 0 {
			b.WriteString("No active alarms\n")
		}
		for _, a := range alarms.Items {
			fmt.Fprintf(&b, "- [%s] %s\n", field(a, "severity", "?"), field(a, "text", ""))
		}

		fmt.Fprintf(&b, "\n## Next steps\n- get-measurements(deviceId: %q)\n- get-events(deviceId: %q)\n- get-alarms(deviceId: %q)\n", id, id, id)
		return b.String(), nil
	})
}

func (d Deps) analyzeMeasurements() Prompt {
	def := mcp.NewPrompt("analyze-measurements",
		mcp.WithPromptDescription("Get analysis setup for a specific device's measurements."),
		deviceIDArg("Device ID to analyze"),
	)
	return d.resolved(def, "Error", func(ctx context.Context, c *c8y.Client, args map[string]string) (string, error) {
		id := args["deviceId"]
		device, err := fetchObject(ctx, c, id)
		if err != nil {
			return "", err
		}
		series, err := fetchSupportedSeries(ctx, c, id)
		if err != nil {
			return "", err
		}

		var b strings.Builder
		fmt.Fprintf(&b, "# Measurement Analysis: %s\nDevice ID: %s\n\n", field(device, "name", "Unknown"), id)
		fmt.Fprintf(&b, "## Available series (%d)\n", len(series))
		if len(series) == 0 {
			b.WriteString("No series found. This device may not report measurements.\n")
		}
		for _, s := range series {
			frag, ser, _ := strings.Cut(s, ".")
			fmt.Fprintf(&b, "- %s: get-measurements(deviceId: %q, valueFragmentType: %q, valueFragmentSeries: %q)\n", s, id, frag, ser)
		}

		fmt.Fprintf(&b, "\n## Quick commands\n    get-measurements(deviceId: %q, pageSize: 10)\n", id)
		frag, ser := "c8y_Temperature", "T"
		if len(series) > 0 {
			if f, s, ok := strings.Cut(series[0], "."); ok {
				frag, ser = f, s
			}
		}
		fmt.Fprintf(&b, "    get-measurement-stats(deviceId: %q, fragment: %q, series: %q, dateFrom: \"...\", dateTo: \"...\")\n", id, frag, ser)
		b.WriteString("\nUse the datetime-guide or measurement-time-range prompts for dateFrom/dateTo.\n")
		return b.String(), nil
	})
}

func (d Deps) deviceEventTypes() Prompt {
	def := mcp.NewPrompt("device-event-types",
		mcp.WithPromptDescription("Discover what event types a device generates."),
		deviceIDArg("Device ID to check"),
	)
	return d.resolved(def, "Error", func(ctx context.Context, c *c8y.Client, args map[string]string) (string, error) {
		id := args["deviceId"]
		device, err := fetchObject(ctx, c, id)
		if err != nil {
			return "", err
		}
		q := c8y.PageQuery(100, 0)
		q.Set("source", id)
		events, err := c.List(ctx, "/event/events", "events", q)
		if err != nil {
			return "", err
		}

		counts := map[string]int{}
		for _, e := range events.Items {
			counts[field(e, "type", "")]++
		}
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool {
			if counts[types[i]] != counts[types[j]] {
				return counts[types[i]] > counts[types[j]]
			}
			return types[i] < types[j]
		})

		var b strings.Builder
		fmt.Fprintf(&b, "# Event Types for: %s\nDevice ID: %s\n\n", field(device, "name", "Unknown"), id)
		fmt.Fprintf(&b, "## Found types (from last %d events)\n", len(events.Items))
		if len(types) == 0 {
			b.WriteString("No events found for this device.\n")
		}
		for _, t := range types {
			fmt.Fprintf(&b, "- %s: %d events\n", t, counts[t])
		}
		if len(types) > 0 {
			fmt.Fprintf(&b, "\n## Query one type\n    get-events(deviceId: %q, type: %q)\n", id, types[0])
		}
		fmt.Fprintf(&b, "\n## Recent events\n    get-events(deviceId: %q, pageSize: 20)\n", id)
		return b.String(), nil
	})
}

func alarmStatus() Prompt {
	const desc = "Get current alarm status overview."
	def := mcp.NewPrompt("alarm-status",
		mcp.WithPromptDescription(desc),
		mcp.WithArgument("deviceId", mcp.ArgumentDescription("Managed object ID (device, asset, group, etc.)")),
	)
	return Prompt{
		Def: def,
		Handler: func(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			id := req.Params.Arguments["deviceId"]
			target, filter := "YOUR_MANAGED_OBJECT_ID", ""
			if id != "" {
				target, filter = id, fmt.Sprintf(", deviceId: %q", id)
			}
			return message(desc, fmt.Sprintf(`# Alarm Status Overview

Every managed object (device, asset, group) carries a c8y_ActiveAlarmsStatus
fragment with the number of active alarms per severity: critical, major,
minor and warning.

## Counts for one object
    get-alarm-counts(deviceId: %q)

## Critical alarms
    get-alarms(status: "ACTIVE", severity: "CRITICAL"%s)

## All active alarms
    get-alarms(status: "ACTIVE"%s, pageSize: 20)

## By severity
    get-alarms(severity: "MAJOR", status: "ACTIVE"%s)
`, target, filter, filter, filter)), nil
		},
	}
}
